package claim

import "github.com/attestia/zkattest/field"

// Claim binds a statement to the document it is about and the verdict
// the prover commits to. A false verdict is a first-class claim: the
// proof then shows the statement was checked and found false.
type Claim struct {
	TextHash field.Element
	Document DocumentFingerprint
	IsValid  bool
}

// New hashes the statement text and binds it to the document.
func New(text string, doc DocumentFingerprint, isValid bool) Claim {
	return Claim{TextHash: field.HashText(text), Document: doc, IsValid: isValid}
}

// Fingerprint is the public commitment a proof opens: statement,
// document and verdict folded into one element.
func (c Claim) Fingerprint() field.Element {
	return field.Hash(c.TextHash, c.Document.Hash(), field.FromBool(c.IsValid))
}
