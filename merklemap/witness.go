package merklemap

import "github.com/attestia/zkattest/field"

// Witness is the sibling path authenticating one key's value against a
// root. Combined with the claimed value it recomputes the root; it
// reveals nothing about other entries beyond the hashes on the path.
type Witness struct {
	Key      field.Element
	Siblings []field.Element
}

// ComputeRoot folds the claimed leaf value up the path.
func (w Witness) ComputeRoot(value field.Element) field.Element {
	bits := keyBits(w.Key, len(w.Siblings))
	cur := value
	for i := 0; i < len(w.Siblings); i++ {
		if bits[i] == 1 {
			cur = field.Hash(w.Siblings[i], cur)
		} else {
			cur = field.Hash(cur, w.Siblings[i])
		}
	}
	return cur
}

// Verify reports whether value under this witness matches root.
func (w Witness) Verify(root, value field.Element) bool {
	computed := w.ComputeRoot(value)
	return computed.Equal(&root)
}
