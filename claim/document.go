package claim

import (
	"time"

	"github.com/attestia/zkattest/field"
)

// DocumentFingerprint commits to one scanned document: the host and
// guest it names, its content, and whether it currently stands. The
// ContentHash is the document's identity everywhere outside this
// struct; the revocation registry and the history ledger key on it.
type DocumentFingerprint struct {
	HostFingerprint       field.Element
	GuestFingerprint      field.Element
	ContentHash           field.Element
	IsSignedAndStamped    bool
	ValidityRemainingDays int64
	IssuanceTimestamp     int64
}

// NewDocumentFingerprint derives the commitment from just-extracted
// values. validUntil and issuedAt may be zero times when the document
// does not carry them; the validity window then reads as expired and
// the issuance as unknown.
func NewDocumentFingerprint(host, guest PersonFingerprint, content string, signedAndStamped bool, validUntil, issuedAt, reference time.Time) DocumentFingerprint {
	var remaining int64
	if !validUntil.IsZero() {
		remaining = daysBetween(reference, validUntil)
		if remaining < 0 {
			remaining = 0
		}
	}
	var issuance int64
	if !issuedAt.IsZero() {
		issuance = issuedAt.Unix()
	}
	return DocumentFingerprint{
		HostFingerprint:       host.Hash(),
		GuestFingerprint:      guest.Hash(),
		ContentHash:           field.HashText(content),
		IsSignedAndStamped:    signedAndStamped,
		ValidityRemainingDays: remaining,
		IssuanceTimestamp:     issuance,
	}
}

// Hash folds the whole fingerprint. This is what a claim binds to, so
// tampering with any field, including the age inside a person
// fingerprint, breaks the chain a proof opens.
func (d DocumentFingerprint) Hash() field.Element {
	return field.Hash(
		d.HostFingerprint,
		d.GuestFingerprint,
		d.ContentHash,
		field.FromBool(d.IsSignedAndStamped),
		field.FromUint64(uint64(d.ValidityRemainingDays)),
		field.FromUint64(uint64(d.IssuanceTimestamp)),
	)
}

// IsValid is the canonical document-validity predicate: signed and
// stamped, with validity remaining.
func (d DocumentFingerprint) IsValid() bool {
	return d.IsSignedAndStamped && d.ValidityRemainingDays > 0
}

// IssuedAfter reports whether the document was issued strictly after
// the given unix second.
func (d DocumentFingerprint) IssuedAfter(threshold int64) bool {
	return d.IssuanceTimestamp > threshold
}
