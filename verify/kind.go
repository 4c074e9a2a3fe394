// Package verify orchestrates claim verification: it classifies the
// natural-language query, builds the claim, fetches a revocation
// witness, drives the proof system and records the outcome. It owns
// the ProofSystem interface its provers implement.
package verify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ProofKind selects the predicate family a query compiles to.
type ProofKind string

const (
	KindString           ProofKind = "STRING"
	KindDate             ProofKind = "DATE"
	KindAgeRange         ProofKind = "AGE_RANGE"
	KindDocumentValidity ProofKind = "DOCUMENT_VALIDITY"
)

// maxClaimYears caps parsed age bounds so the circuit comparisons stay
// in their fixed bit range. No living person exceeds it.
const maxClaimYears = 150

// Predicate is the machine form of a query: the proof kind plus its
// public parameters.
type Predicate struct {
	Kind     ProofKind
	MinYears int
	MaxYears int
	// After fixes the date comparison direction: false checks the
	// date does not postdate the reference (birth dates), true checks
	// it does (expiry dates).
	After bool
}

var ageRangePattern = regexp.MustCompile(`(\d+)\s*(?:et|à)\s*(\d+)`)

// Classify maps a French verification query onto its predicate.
// Matching is lower-cased substring search, first rule wins; queries
// matching nothing fall back to a plain value-presence claim.
func Classify(query string) Predicate {
	q := strings.ToLower(query)
	hasDate := strings.Contains(q, "date")
	birth := strings.Contains(q, "naissance") || strings.Contains(q, "né")
	majority := strings.Contains(q, "majeur") || strings.Contains(q, "adulte") || strings.Contains(q, "18 ans")

	if (hasDate && birth) || strings.Contains(q, "âge") || majority {
		if majority {
			return Predicate{Kind: KindAgeRange, MinYears: 18, MaxYears: maxClaimYears}
		}
		if m := ageRangePattern.FindStringSubmatch(q); m != nil {
			lo, _ := strconv.Atoi(m[1])
			hi, _ := strconv.Atoi(m[2])
			return Predicate{Kind: KindAgeRange, MinYears: capYears(lo), MaxYears: capYears(hi)}
		}
		return Predicate{Kind: KindDate}
	}
	if hasDate && (strings.Contains(q, "expiration") || strings.Contains(q, "validité") || strings.Contains(q, "expire")) {
		return Predicate{Kind: KindDate, After: true}
	}
	if strings.Contains(q, "valide") || strings.Contains(q, "authentique") || strings.Contains(q, "signé") || strings.Contains(q, "validité") {
		return Predicate{Kind: KindDocumentValidity}
	}
	return Predicate{Kind: KindString}
}

func capYears(y int) int {
	if y > maxClaimYears {
		return maxClaimYears
	}
	if y < 0 {
		return 0
	}
	return y
}

// Statement renders the French affirmation the claim hash commits to.
// It is deterministic in the predicate, the extracted value and the
// reference date.
func (p Predicate) Statement(extractedValue string, reference time.Time) string {
	value := strings.TrimSpace(extractedValue)
	ref := reference.Format("02/01/2006")
	switch p.Kind {
	case KindAgeRange:
		return fmt.Sprintf("L'âge de la personne est compris entre %d et %d ans", p.MinYears, p.MaxYears)
	case KindDate:
		if p.After {
			return fmt.Sprintf("La date %s est postérieure au %s", value, ref)
		}
		return fmt.Sprintf("La date %s est antérieure ou égale au %s", value, ref)
	case KindDocumentValidity:
		return "Le document est signé, tamponné et en cours de validité"
	default:
		return fmt.Sprintf("L'information « %s » figure dans le document", value)
	}
}
