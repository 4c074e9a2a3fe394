package prover

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/attestia/zkattest/circuits/claimbind"
	"github.com/attestia/zkattest/claim"
	"github.com/attestia/zkattest/field"
	"github.com/attestia/zkattest/verify"
)

// buildAssignment turns a proof request into the witness assignment
// for the circuit serving its kind. The request's revocation witness
// must match the circuit's tree depth.
func buildAssignment(req verify.ProofRequest, depth int) (frontend.Circuit, error) {
	core, err := coreAssignment(req, depth)
	if err != nil {
		return nil, err
	}

	switch req.Kind {
	case verify.KindAgeRange:
		return &claimbind.AgeRangeCircuit{
			Core:       core,
			MinAgeDays: int64(req.Predicate.MinYears) * claim.DaysPerYear,
			MaxAgeDays: int64(req.Predicate.MaxYears) * claim.DaysPerYear,
		}, nil
	case verify.KindDate:
		after := 0
		if req.Predicate.After {
			after = 1
		}
		return &claimbind.DateCircuit{
			Core:         core,
			DateDay:      req.DateDay,
			ThresholdDay: req.ThresholdDay,
			After:        after,
		}, nil
	case verify.KindDocumentValidity:
		return &claimbind.DocumentValidityCircuit{Core: core}, nil
	case verify.KindString:
		return &claimbind.ValuePresenceCircuit{Core: core, ValueHash: req.ValueHash}, nil
	default:
		return nil, fmt.Errorf("unknown proof kind %q", req.Kind)
	}
}

func coreAssignment(req verify.ProofRequest, depth int) (claimbind.ClaimCore, error) {
	if len(req.Witness.Siblings) != depth {
		return claimbind.ClaimCore{}, fmt.Errorf("revocation witness depth %d does not match circuit depth %d", len(req.Witness.Siblings), depth)
	}
	siblings := make([]frontend.Variable, depth)
	for i := range req.Witness.Siblings {
		siblings[i] = req.Witness.Siblings[i]
	}
	revoked := 0
	if req.Revoked {
		revoked = 1
	}
	doc := req.Document
	return claimbind.ClaimCore{
		FirstNameHash:         req.Guest.FirstNameHash,
		LastNameHash:          req.Guest.LastNameHash,
		AddressHash:           req.Guest.AddressHash,
		AgeInDays:             req.Guest.AgeInDays,
		HostFingerprint:       doc.HostFingerprint,
		ContentHash:           doc.ContentHash,
		IsSignedAndStamped:    field.FromBool(doc.IsSignedAndStamped),
		ValidityRemainingDays: doc.ValidityRemainingDays,
		IssuanceTimestamp:     doc.IssuanceTimestamp,
		ClaimTextHash:         req.ClaimTextHash,
		IsValid:               field.FromBool(req.IsValid),
		RevocationLeaf:        req.RevocationLeaf,
		Siblings:              siblings,
		ClaimFingerprint:      req.ClaimFingerprint,
		RevocationRoot:        req.RevocationRoot,
		Revoked:               revoked,
	}, nil
}
