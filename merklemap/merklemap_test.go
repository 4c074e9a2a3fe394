package merklemap_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attestia/zkattest/field"
	"github.com/attestia/zkattest/merklemap"
)

// 64 levels keeps tests fast while leaving hash-derived keys far from
// any truncation collision.
const testDepth = 64

func TestEmptyMap(t *testing.T) {
	m := merklemap.New(testDepth)

	key := field.HashText("never set")
	got := m.Get(key)
	assert.True(t, got.IsZero(), "absent keys read as zero")

	r1 := m.Root()
	r2 := merklemap.New(testDepth).Root()
	assert.True(t, r1.Equal(&r2), "empty maps of equal depth share a root")
}

func TestSetGetRoundTrip(t *testing.T) {
	m := merklemap.New(testDepth)
	key := field.HashText("doc-1")
	value := field.FromUint64(1700000000)

	before := m.Root()
	m.Set(key, value)

	got := m.Get(key)
	assert.True(t, value.Equal(&got))

	after := m.Root()
	assert.False(t, before.Equal(&after), "root must change with content")

	other := m.Get(field.HashText("doc-2"))
	assert.True(t, other.IsZero(), "unrelated keys stay zero")
}

func TestOverwrite(t *testing.T) {
	m := merklemap.New(testDepth)
	key := field.HashText("doc-1")

	m.Set(key, field.FromUint64(1))
	r1 := m.Root()

	m.Set(key, field.FromUint64(1))
	r2 := m.Root()
	assert.True(t, r1.Equal(&r2), "rewriting the same value keeps the root")

	m.Set(key, field.FromUint64(2))
	r3 := m.Root()
	assert.False(t, r1.Equal(&r3), "changing the value changes the root")
}

func TestSetZeroIsRemoval(t *testing.T) {
	m := merklemap.New(testDepth)
	empty := m.Root()

	key := field.HashText("doc-1")
	m.Set(key, field.FromUint64(9))
	m.Set(key, field.Zero())

	r := m.Root()
	assert.True(t, empty.Equal(&r), "a zeroed leaf restores the empty root")
}

func TestWitnessRecomputesRoot(t *testing.T) {
	m := merklemap.New(testDepth)
	for i := 0; i < 8; i++ {
		m.Set(field.HashText(fmt.Sprintf("doc-%d", i)), field.FromUint64(uint64(1000+i)))
	}
	root := m.Root()

	key := field.HashText("doc-3")
	w := m.Witness(key)
	require.Len(t, w.Siblings, testDepth)
	assert.True(t, w.Verify(root, m.Get(key)))

	// Absent key: the zero value must verify, nothing else.
	absent := field.HashText("doc-99")
	wa := m.Witness(absent)
	assert.True(t, wa.Verify(root, field.Zero()))
	assert.False(t, wa.Verify(root, field.FromUint64(1)))

	// A witness does not transfer to another value.
	assert.False(t, w.Verify(root, field.FromUint64(999)))
}

func TestInsertionOrderIndependence(t *testing.T) {
	const n = 32
	keys := make([]field.Element, n)
	values := make([]field.Element, n)
	for i := 0; i < n; i++ {
		keys[i] = field.HashText(fmt.Sprintf("key-%d", i))
		values[i] = field.FromUint64(uint64(i + 1))
	}

	forward := merklemap.New(testDepth)
	for i := 0; i < n; i++ {
		forward.Set(keys[i], values[i])
	}

	shuffled := merklemap.New(testDepth)
	order := rand.New(rand.NewSource(42)).Perm(n)
	for _, i := range order {
		shuffled.Set(keys[i], values[i])
	}

	fr, sr := forward.Root(), shuffled.Root()
	assert.True(t, fr.Equal(&sr), "root is a function of content, not insertion order")
}

func TestDefaultDepth(t *testing.T) {
	m := merklemap.New(merklemap.DefaultDepth)
	assert.Equal(t, 254, m.Depth())

	key := field.HashText("full-width key")
	m.Set(key, field.FromUint64(77))

	got := m.Get(key)
	want := field.FromUint64(77)
	assert.True(t, want.Equal(&got))
	assert.True(t, m.Witness(key).Verify(m.Root(), got))
}
