package field

// ContentWidth is the byte budget for hashed free text: claim
// statements, document content, extracted values. Text beyond the
// budget does not participate in the hash, so the same document always
// produces the same content hash no matter who truncates upstream.
const ContentWidth = 256

// limbSize keeps every limb strictly below the field modulus.
const limbSize = 31

// Encode maps text onto a fixed number of field elements: the UTF-8
// bytes are truncated to width, zero-padded back to width, and packed
// into 31-byte big-endian limbs. Two texts agreeing on their first
// width bytes encode identically.
func Encode(text string, width int) []Element {
	padded := make([]byte, width)
	copy(padded, text)
	n := (width + limbSize - 1) / limbSize
	out := make([]Element, n)
	for i := 0; i < n; i++ {
		lo := i * limbSize
		hi := lo + limbSize
		if hi > width {
			hi = width
		}
		out[i].SetBytes(padded[lo:hi])
	}
	return out
}

// HashText hashes text at the standard content width.
func HashText(text string) Element {
	return Hash(Encode(text, ContentWidth)...)
}

// HashBytes hashes raw bytes of any length by packing them into
// 31-byte limbs, without the fixed-width truncation HashText applies.
func HashBytes(b []byte) Element {
	n := (len(b) + limbSize - 1) / limbSize
	if n == 0 {
		n = 1
	}
	limbs := make([]Element, n)
	for i := 0; i < n; i++ {
		lo := i * limbSize
		hi := lo + limbSize
		if hi > len(b) {
			hi = len(b)
		}
		limbs[i].SetBytes(b[lo:hi])
	}
	return Hash(limbs...)
}
