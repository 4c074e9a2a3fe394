package claimbind

import "github.com/consensys/gnark/frontend"

// DateCircuit proves a date's position relative to a public threshold
// day. After selects the direction: 0 proves the date is on or before
// the threshold, 1 proves it is strictly after. Day numbers count from
// the epoch the native date arithmetic uses.
type DateCircuit struct {
	Core ClaimCore

	// Secret input
	DateDay frontend.Variable `gnark:",secret"`

	// Public inputs
	ThresholdDay frontend.Variable `gnark:",public"`
	After        frontend.Variable `gnark:",public"`
}

func (c *DateCircuit) Define(api frontend.API) error {
	if err := c.Core.verifyBinding(api); err != nil {
		return err
	}
	onOrBefore := isGreaterOrEqual(api, c.ThresholdDay, c.DateDay)
	result := api.Select(c.After, api.Sub(1, onOrBefore), onOrBefore)
	api.AssertIsEqual(result, c.Core.IsValid)
	return nil
}

// NewDate allocates the circuit template for a revocation tree of the
// given depth.
func NewDate(depth int) *DateCircuit {
	return &DateCircuit{Core: newCore(depth)}
}
