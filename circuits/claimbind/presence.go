package claimbind

import "github.com/consensys/gnark/frontend"

// ValuePresenceCircuit proves a value was extracted for the claim: the
// value hash is nonzero exactly when the verdict says present. The
// zero hash is the same absence sentinel the native side uses.
type ValuePresenceCircuit struct {
	Core ClaimCore

	// Secret input
	ValueHash frontend.Variable `gnark:",secret"`
}

func (c *ValuePresenceCircuit) Define(api frontend.API) error {
	if err := c.Core.verifyBinding(api); err != nil {
		return err
	}
	api.AssertIsEqual(api.Sub(1, api.IsZero(c.ValueHash)), c.Core.IsValid)
	return nil
}

// NewValuePresence allocates the circuit template for a revocation
// tree of the given depth.
func NewValuePresence(depth int) *ValuePresenceCircuit {
	return &ValuePresenceCircuit{Core: newCore(depth)}
}
