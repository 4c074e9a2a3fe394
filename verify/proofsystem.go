package verify

import (
	"context"
	"errors"
	"time"

	"github.com/attestia/zkattest/claim"
	"github.com/attestia/zkattest/field"
	"github.com/attestia/zkattest/merklemap"
)

var (
	// ErrProofSystem marks an internal prover fault, a circuit not
	// compiled or a backend failure. Never retried here; retry policy
	// belongs to the caller.
	ErrProofSystem = errors.New("proof system error")

	// ErrProofTimeout marks a proving run cut short by the caller's
	// deadline. Distinct from a claim proven false, which is a normal
	// outcome, not an error.
	ErrProofTimeout = errors.New("proof generation timed out")
)

// ProofRequest is the full opening of one claim, everything a prover
// needs to re-derive the public fingerprint and constrain the
// predicate against it.
type ProofRequest struct {
	Kind      ProofKind
	Predicate Predicate

	// Claim opening. Guest is the person the predicate speaks about;
	// its hash must appear as Document.GuestFingerprint.
	Guest            claim.PersonFingerprint
	Document         claim.DocumentFingerprint
	ClaimTextHash    field.Element
	IsValid          bool
	ClaimFingerprint field.Element

	// Kind-specific inputs. DateDay and ThresholdDay are day numbers
	// for DATE claims; ValueHash is the hashed extracted value for
	// STRING claims.
	DateDay      int64
	ThresholdDay int64
	ValueHash    field.Element

	// Revocation state for the document's content hash, snapshotted
	// from the registry under one lock.
	RevocationRoot field.Element
	RevocationLeaf field.Element
	Revoked        bool
	Witness        merklemap.Witness
}

// ProofArtifact is a serialized proof together with the circuit that
// produced it.
type ProofArtifact struct {
	Kind        ProofKind
	CircuitName string
	Proof       []byte
	GeneratedAt time.Time
	Duration    time.Duration
}

// ProofSystem generates zero-knowledge proofs for claim openings. The
// gnark-backed implementation lives in the prover package; tests use
// the deterministic stub below.
type ProofSystem interface {
	Prove(ctx context.Context, req ProofRequest) (*ProofArtifact, error)
}
