// Package field wraps the BN254 scalar field of the proof system. Every
// fingerprint, hash and registry key in this module is a field.Element, and
// the native MiMC here is byte-compatible with the in-circuit MiMC gadget
// so commitments computed off-circuit open inside the circuits.
package field

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// Element is an immutable scalar of the BN254 field.
type Element = fr.Element

// Zero returns the zero element, the sentinel for absent values
// (unknown address, not revoked).
func Zero() Element {
	var z Element
	return z
}

// FromUint64 lifts an unsigned integer into the field.
func FromUint64(v uint64) Element {
	var e Element
	e.SetUint64(v)
	return e
}

// FromBool encodes a boolean as 0 or 1.
func FromBool(b bool) Element {
	if b {
		return FromUint64(1)
	}
	return Zero()
}

// FromBigInt reduces v into the field.
func FromBigInt(v *big.Int) Element {
	var e Element
	e.SetBigInt(v)
	return e
}

// FromDecimalString parses the decimal representation used in the
// persisted registry and ledger files.
func FromDecimalString(s string) (Element, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if v == nil || !ok || v.Sign() < 0 || v.Cmp(fr.Modulus()) >= 0 {
		return Element{}, fmt.Errorf("not a field element: %q", s)
	}
	var e Element
	e.SetBigInt(v)
	return e, nil
}

// ToHex returns the 0x-prefixed big-endian hex form, used where callers
// expect a compact document fingerprint.
func ToHex(e Element) string {
	return fmt.Sprintf("0x%x", e.Marshal())
}

// Hash compresses elements with MiMC. Each element is absorbed as its
// canonical 32-byte encoding, which is exactly what the in-circuit
// gadget sees when fed the same elements as variables.
func Hash(elems ...Element) Element {
	h := mimc.NewMiMC()
	for i := range elems {
		h.Write(elems[i].Marshal())
	}
	var out Element
	out.SetBytes(h.Sum(nil))
	return out
}
