package claimbind

import "github.com/consensys/gnark/frontend"

// AgeRangeCircuit proves the guest's age lies within a public
// inclusive day range, or that it does not, as committed by the
// claim's verdict.
type AgeRangeCircuit struct {
	Core ClaimCore

	// Public inputs
	MinAgeDays frontend.Variable `gnark:",public"`
	MaxAgeDays frontend.Variable `gnark:",public"`
}

func (c *AgeRangeCircuit) Define(api frontend.API) error {
	if err := c.Core.verifyBinding(api); err != nil {
		return err
	}
	aboveMin := isGreaterOrEqual(api, c.Core.AgeInDays, c.MinAgeDays)
	belowMax := isGreaterOrEqual(api, c.MaxAgeDays, c.Core.AgeInDays)
	api.AssertIsEqual(api.And(aboveMin, belowMax), c.Core.IsValid)
	return nil
}

// NewAgeRange allocates the circuit template for a revocation tree of
// the given depth.
func NewAgeRange(depth int) *AgeRangeCircuit {
	return &AgeRangeCircuit{Core: newCore(depth)}
}
