package claim

import (
	"strings"
	"time"

	"github.com/attestia/zkattest/field"
)

// PersonFingerprint is the hashed identity of one person named on a
// document. The birth date is consumed at construction and only the
// derived age survives.
type PersonFingerprint struct {
	FirstNameHash field.Element
	LastNameHash  field.Element
	AddressHash   field.Element // zero when the document carries no address
	AgeInDays     int64
}

// NewPersonFingerprint hashes the person fields extracted from a
// document. The name splits on whitespace, first token against the
// rest. An empty address keeps the zero sentinel.
func NewPersonFingerprint(name, address, birthDate string, reference time.Time) (PersonFingerprint, error) {
	birth, err := ParseDate(birthDate)
	if err != nil {
		return PersonFingerprint{}, err
	}
	age, err := AgeInDays(birth, reference)
	if err != nil {
		return PersonFingerprint{}, err
	}
	first, last := splitName(name)
	p := PersonFingerprint{
		FirstNameHash: field.HashText(first),
		LastNameHash:  field.HashText(last),
		AgeInDays:     age,
	}
	if strings.TrimSpace(address) != "" {
		p.AddressHash = field.HashText(address)
	}
	return p, nil
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// Hash folds the fingerprint into a single element, the form in which
// it enters the document fingerprint and the circuits.
func (p PersonFingerprint) Hash() field.Element {
	return field.Hash(p.FirstNameHash, p.LastNameHash, p.AddressHash, field.FromUint64(uint64(p.AgeInDays)))
}

// IsAdult reports majority at the exact integer-day threshold.
func (p PersonFingerprint) IsAdult() bool {
	return p.AgeInDays >= AdultAgeDays
}

// AgeInRange reports minYears*365 <= age <= maxYears*365, both bounds
// inclusive.
func (p PersonFingerprint) AgeInRange(minYears, maxYears int) bool {
	return p.AgeInDays >= int64(minYears)*DaysPerYear && p.AgeInDays <= int64(maxYears)*DaysPerYear
}
