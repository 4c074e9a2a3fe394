package claimbind

import "github.com/consensys/gnark/frontend"

// DocumentValidityCircuit proves the document is signed, stamped and
// inside its validity window, or that it is not. Both conjuncts come
// from the fingerprint chain, so the predicate runs on exactly the
// values the document commits to.
type DocumentValidityCircuit struct {
	Core ClaimCore
}

func (c *DocumentValidityCircuit) Define(api frontend.API) error {
	if err := c.Core.verifyBinding(api); err != nil {
		return err
	}
	inWindow := isGreaterOrEqual(api, c.Core.ValidityRemainingDays, 1)
	api.AssertIsEqual(api.And(c.Core.IsSignedAndStamped, inWindow), c.Core.IsValid)
	return nil
}

// NewDocumentValidity allocates the circuit template for a revocation
// tree of the given depth.
func NewDocumentValidity(depth int) *DocumentValidityCircuit {
	return &DocumentValidityCircuit{Core: newCore(depth)}
}
