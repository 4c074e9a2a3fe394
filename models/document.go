package models

// Extracted content of a scanned supporting document. The canonical
// case is an attestation d'hébergement, where a host attests that a
// guest resides at their address, but any document naming a subject
// and a counterparty fits the same shape.

import (
	"time"

	"github.com/attestia/zkattest/claim"
)

// Person is one person named on the document, as extracted.
type Person struct {
	Name      string `json:"name" validate:"required"`
	BirthDate string `json:"birth_date" validate:"required"` // DD/MM/YYYY or YYYY-MM-DD
	Address   string `json:"address,omitempty"`
}

// DocumentInput is the boundary shape every verification starts from.
// It carries raw extracted values; nothing here is persisted, only the
// derived fingerprints are.
type DocumentInput struct {
	Name             string `json:"name,omitempty"` // original file name, display only
	Host             Person `json:"host" validate:"required"`
	Guest            Person `json:"guest" validate:"required"`
	Content          string `json:"content" validate:"required"`
	SignedAndStamped bool   `json:"signed_and_stamped"`
	IssuedAt         string `json:"issued_at,omitempty"`
	ValidUntil       string `json:"valid_until,omitempty"`
}

// Fingerprints bundles the derived commitments for one document.
type Fingerprints struct {
	Host     claim.PersonFingerprint
	Guest    claim.PersonFingerprint
	Document claim.DocumentFingerprint
}

// Fingerprints hashes the input at the given reference date. Dates are
// consumed here; the result carries no raw values.
func (d DocumentInput) Fingerprints(reference time.Time) (Fingerprints, error) {
	host, err := claim.NewPersonFingerprint(d.Host.Name, d.Host.Address, d.Host.BirthDate, reference)
	if err != nil {
		return Fingerprints{}, err
	}
	guest, err := claim.NewPersonFingerprint(d.Guest.Name, d.Guest.Address, d.Guest.BirthDate, reference)
	if err != nil {
		return Fingerprints{}, err
	}
	validUntil, err := optionalDate(d.ValidUntil)
	if err != nil {
		return Fingerprints{}, err
	}
	issuedAt, err := optionalDate(d.IssuedAt)
	if err != nil {
		return Fingerprints{}, err
	}
	doc := claim.NewDocumentFingerprint(host, guest, d.Content, d.SignedAndStamped, validUntil, issuedAt, reference)
	return Fingerprints{Host: host, Guest: guest, Document: doc}, nil
}

func optionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return claim.ParseDate(s)
}

// GetDemoDocument returns a fully populated, signed and currently
// valid attestation for examples and tests.
func GetDemoDocument() DocumentInput {
	return DocumentInput{
		Name: "attestation-hebergement-dupont.pdf",
		Host: Person{
			Name:      "Jean Martin",
			BirthDate: "01/03/1980",
			Address:   "12 rue de la Paix, 75002 Paris",
		},
		Guest: Person{
			Name:      "Marie Dupont",
			BirthDate: "23/09/2000",
			Address:   "12 rue de la Paix, 75002 Paris",
		},
		Content: "Je soussigné Jean Martin, né le 01/03/1980, demeurant au 12 rue de la Paix, " +
			"75002 Paris, atteste sur l'honneur héberger à mon domicile Madame Marie Dupont, " +
			"née le 23/09/2000, depuis le 01/11/2022.",
		SignedAndStamped: true,
		IssuedAt:         "10/01/2023",
		ValidUntil:       "15/08/2023",
	}
}

// GetDemoExpiredDocument returns the same attestation past its
// validity window.
func GetDemoExpiredDocument() DocumentInput {
	doc := GetDemoDocument()
	doc.IssuedAt = "01/06/2022"
	doc.ValidUntil = "01/12/2022"
	return doc
}

// GetDemoUnsignedDocument returns the same attestation without
// signature or stamp.
func GetDemoUnsignedDocument() DocumentInput {
	doc := GetDemoDocument()
	doc.SignedAndStamped = false
	return doc
}
