package field_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attestia/zkattest/field"
)

func TestHashDeterministic(t *testing.T) {
	a := field.FromUint64(42)
	b := field.FromUint64(7)

	h1 := field.Hash(a, b)
	h2 := field.Hash(a, b)
	assert.True(t, h1.Equal(&h2), "same inputs must hash identically")

	h3 := field.Hash(b, a)
	assert.False(t, h1.Equal(&h3), "argument order must matter")

	h4 := field.Hash(a)
	assert.False(t, h1.Equal(&h4), "input length must matter")
}

func TestHashNonZero(t *testing.T) {
	h := field.Hash(field.Zero(), field.Zero())
	assert.False(t, h.IsZero())
}

func TestEncodeFixedWidth(t *testing.T) {
	short := field.Encode("hello", 62)
	require.Len(t, short, 2, "62 bytes pack into two 31-byte limbs")

	empty := field.Encode("", 62)
	require.Len(t, empty, 2)
	assert.False(t, short[0].Equal(&empty[0]))
	assert.True(t, short[1].Equal(&empty[1]), "tail limb is padding for both")
}

func TestEncodeTruncates(t *testing.T) {
	long := strings.Repeat("a", 300)
	longer := long + "suffix beyond the budget"

	h1 := field.HashText(long)
	h2 := field.HashText(longer)
	assert.True(t, h1.Equal(&h2), "bytes past ContentWidth must not affect the hash")

	h3 := field.HashText(strings.Repeat("a", 255))
	assert.False(t, h1.Equal(&h3), "bytes inside ContentWidth must affect the hash")
}

func TestHashTextDistinguishes(t *testing.T) {
	h1 := field.HashText("Marie Dupont")
	h2 := field.HashText("Marie Dupond")
	assert.False(t, h1.Equal(&h2))
}

func TestHashBytes(t *testing.T) {
	h1 := field.HashBytes([]byte("raw document bytes"))
	h2 := field.HashBytes([]byte("raw document bytes"))
	assert.True(t, h1.Equal(&h2))

	h3 := field.HashBytes([]byte("raw document bytes."))
	assert.False(t, h1.Equal(&h3), "no truncation: every byte counts")

	h4 := field.HashBytes(nil)
	assert.False(t, h4.IsZero())
}

func TestDecimalRoundTrip(t *testing.T) {
	e := field.HashText("attestation")
	got, err := field.FromDecimalString(e.String())
	require.NoError(t, err)
	assert.True(t, e.Equal(&got))

	_, err = field.FromDecimalString("not-a-number")
	assert.Error(t, err)

	_, err = field.FromDecimalString("-5")
	assert.Error(t, err)

	tooBig := new(big.Int).Lsh(big.NewInt(1), 260)
	_, err = field.FromDecimalString(tooBig.String())
	assert.Error(t, err)
}

func TestFromBool(t *testing.T) {
	one := field.FromBool(true)
	zero := field.FromBool(false)
	assert.Equal(t, "1", one.String())
	assert.True(t, zero.IsZero())
}

func TestToHex(t *testing.T) {
	h := field.ToHex(field.FromUint64(255))
	assert.True(t, strings.HasPrefix(h, "0x"))
	assert.Len(t, h, 66, "0x plus 32 bytes of hex")
	assert.True(t, strings.HasSuffix(h, "ff"))
}
