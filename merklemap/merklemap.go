// Package merklemap implements a sparse Merkle map from field elements
// to field elements, authenticated by a single root. Absent keys read
// as zero, so the map doubles as an authenticated set with exclusion
// witnesses: a witness for an untouched key proves its value is zero
// under the published root.
//
// A leaf sits at level 0 and holds the raw value. Each parent is
// Hash(left, right). Bit i of the key, least significant first, picks
// the branch at level i, and empty subtrees hash to precomputed
// constants, so only touched paths are materialized.
package merklemap

import (
	"math/big"

	"github.com/attestia/zkattest/field"
)

// DefaultDepth covers the full bit width of a BN254 scalar, giving
// every field element its own leaf.
const DefaultDepth = 254

type node struct {
	left, right *node
	hash        field.Element
}

// Map is not safe for concurrent mutation; callers serialize writes.
type Map struct {
	depth int
	root  *node
	empty []field.Element
}

// New builds an empty map of the given depth. Keys are reduced to
// their low depth bits, so depths below DefaultDepth are only suitable
// where the caller controls the key space (tests, fixed registries).
func New(depth int) *Map {
	if depth <= 0 || depth > DefaultDepth {
		depth = DefaultDepth
	}
	empty := make([]field.Element, depth+1)
	for i := 1; i <= depth; i++ {
		empty[i] = field.Hash(empty[i-1], empty[i-1])
	}
	return &Map{depth: depth, empty: empty}
}

// Depth returns the number of levels between a leaf and the root.
func (m *Map) Depth() int { return m.depth }

// Root returns the element authenticating the whole map. It depends
// only on the key to value mapping, never on insertion order.
func (m *Map) Root() field.Element {
	if m.root == nil {
		return m.empty[m.depth]
	}
	return m.root.hash
}

// Set writes value at key. Setting zero is equivalent to removal.
func (m *Map) Set(key, value field.Element) {
	bits := keyBits(key, m.depth)
	m.root = m.set(m.root, m.depth, bits, value)
}

func (m *Map) set(n *node, height int, bits []uint, value field.Element) *node {
	if n == nil {
		n = &node{hash: m.empty[height]}
	}
	if height == 0 {
		n.hash = value
		return n
	}
	if bits[height-1] == 1 {
		n.right = m.set(n.right, height-1, bits, value)
	} else {
		n.left = m.set(n.left, height-1, bits, value)
	}
	n.hash = field.Hash(m.childHash(n.left, height-1), m.childHash(n.right, height-1))
	return n
}

// Get returns the value at key, zero when the key was never set.
func (m *Map) Get(key field.Element) field.Element {
	bits := keyBits(key, m.depth)
	n := m.root
	for height := m.depth; height > 0 && n != nil; height-- {
		if bits[height-1] == 1 {
			n = n.right
		} else {
			n = n.left
		}
	}
	if n == nil {
		return field.Zero()
	}
	return n.hash
}

// Witness returns the sibling path for key. The path exists for every
// key, set or not, so it serves both inclusion and exclusion proofs.
func (m *Map) Witness(key field.Element) Witness {
	bits := keyBits(key, m.depth)
	siblings := make([]field.Element, m.depth)
	n := m.root
	for height := m.depth; height > 0; height-- {
		var next, sib *node
		if n != nil {
			if bits[height-1] == 1 {
				next, sib = n.right, n.left
			} else {
				next, sib = n.left, n.right
			}
		}
		siblings[height-1] = m.childHash(sib, height-1)
		n = next
	}
	return Witness{Key: key, Siblings: siblings}
}

func (m *Map) childHash(n *node, height int) field.Element {
	if n == nil {
		return m.empty[height]
	}
	return n.hash
}

// keyBits extracts the low depth bits of the key, LSB first. Elements
// are canonical, so the decomposition is unique.
func keyBits(key field.Element, depth int) []uint {
	k := new(big.Int)
	key.BigInt(k)
	bits := make([]uint, depth)
	for i := 0; i < depth; i++ {
		bits[i] = k.Bit(i)
	}
	return bits
}
