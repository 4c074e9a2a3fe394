// Package claimbind defines the claim binding circuits. Every circuit
// re-derives the public claim fingerprint from its private components,
// authenticates the document's leaf in the revocation map against the
// public root, and constrains the committed verdict to match the
// predicate recomputed in-circuit. Revocation never blocks a proof;
// it surfaces as a public bit the verifier reads alongside the result.
package claimbind

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// ClaimCore carries the wires shared by all claim circuits
// - re-derive the guest, document and claim fingerprints -> MiMC chain
// - authenticate the document leaf in the revocation map -> Merkle path
// - expose whether the document is revoked without blocking the proof
type ClaimCore struct {
	// Secret inputs: guest fingerprint components
	FirstNameHash frontend.Variable `gnark:",secret"`
	LastNameHash  frontend.Variable `gnark:",secret"`
	AddressHash   frontend.Variable `gnark:",secret"`
	AgeInDays     frontend.Variable `gnark:",secret"`

	// Secret inputs: document fingerprint components
	HostFingerprint       frontend.Variable `gnark:",secret"`
	ContentHash           frontend.Variable `gnark:",secret"`
	IsSignedAndStamped    frontend.Variable `gnark:",secret"`
	ValidityRemainingDays frontend.Variable `gnark:",secret"`
	IssuanceTimestamp     frontend.Variable `gnark:",secret"`

	// Secret inputs: claim components
	ClaimTextHash frontend.Variable `gnark:",secret"`
	IsValid       frontend.Variable `gnark:",secret"`

	// Secret inputs: revocation membership
	RevocationLeaf frontend.Variable   `gnark:",secret"`
	Siblings       []frontend.Variable `gnark:",secret"`

	// Public inputs
	ClaimFingerprint frontend.Variable `gnark:",public"`
	RevocationRoot   frontend.Variable `gnark:",public"`
	Revoked          frontend.Variable `gnark:",public"`
}

// newCore allocates the shared wires for a revocation tree of the
// given depth. Depths outside (0, fr.Bits] fall back to the full key
// width, the depth the registry's tree uses.
func newCore(depth int) ClaimCore {
	if depth <= 0 || depth > fr.Bits {
		depth = fr.Bits
	}
	return ClaimCore{Siblings: make([]frontend.Variable, depth)}
}

// verifyBinding adds the constraints every claim circuit shares: the
// fingerprint chain from guest components up to the public claim
// fingerprint, and the Merkle path from the document's revocation leaf
// up to the public root. The chain pins every private input a
// predicate reads, so a predicate cannot be satisfied with values the
// fingerprint does not commit to.
func (c *ClaimCore) verifyBinding(api frontend.API) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	api.AssertIsBoolean(c.IsValid)
	api.AssertIsBoolean(c.IsSignedAndStamped)

	h.Write(c.FirstNameHash, c.LastNameHash, c.AddressHash, c.AgeInDays)
	guest := h.Sum()

	h.Reset()
	h.Write(c.HostFingerprint, guest, c.ContentHash, c.IsSignedAndStamped, c.ValidityRemainingDays, c.IssuanceTimestamp)
	document := h.Sum()

	h.Reset()
	h.Write(c.ClaimTextHash, document, c.IsValid)
	api.AssertIsEqual(h.Sum(), c.ClaimFingerprint)

	// The Merkle path is routed by the content hash bits, least
	// significant first, exactly as the registry's tree routes them.
	bits := api.ToBinary(c.ContentHash, fr.Bits)
	assertCanonical(api, bits)

	cur := c.RevocationLeaf
	for i := range c.Siblings {
		left := api.Select(bits[i], c.Siblings[i], cur)
		right := api.Select(bits[i], cur, c.Siblings[i])
		h.Reset()
		h.Write(left, right)
		cur = h.Sum()
	}
	api.AssertIsEqual(cur, c.RevocationRoot)

	// A zero leaf means not revoked; any other value is the revocation
	// timestamp. The public bit must agree with the authenticated leaf.
	api.AssertIsEqual(c.Revoked, api.Sub(1, api.IsZero(c.RevocationLeaf)))

	return nil
}

// modulusBits is the scalar field modulus, least significant bit
// first.
var modulusBits = func() []uint {
	p := fr.Modulus()
	bits := make([]uint, fr.Bits)
	for i := range bits {
		bits[i] = p.Bit(i)
	}
	return bits
}()

// assertCanonical enforces that bits, least significant first, encode
// a value strictly below the field modulus. ToBinary alone admits a
// second decomposition for small values, value plus modulus, which
// would let a prover route the Merkle lookup through a different leaf
// than the one its content hash owns.
func assertCanonical(api frontend.API, bits []frontend.Variable) {
	lt := frontend.Variable(0)
	eq := frontend.Variable(1)
	for i := len(bits) - 1; i >= 0; i-- {
		if modulusBits[i] == 1 {
			lt = api.Or(lt, api.And(eq, api.Sub(1, bits[i])))
			eq = api.And(eq, bits[i])
		} else {
			eq = api.And(eq, api.Sub(1, bits[i]))
		}
	}
	api.AssertIsEqual(lt, 1)
}

// comparisonBits fixes the window for day and age comparisons. All
// compared quantities are day counts, far below the window; an operand
// wrapped around the field cannot produce a decomposable difference,
// so out-of-window values cannot satisfy the circuit.
const comparisonBits = 32

// isGreaterOrEqual returns 1 if a >= b, 0 otherwise. Both operands
// must be below 2^comparisonBits.
func isGreaterOrEqual(api frontend.API, a, b frontend.Variable) frontend.Variable {
	shifted := api.Add(api.Sub(a, b), 1<<comparisonBits)
	bits := api.ToBinary(shifted, comparisonBits+1)
	return bits[comparisonBits]
}
