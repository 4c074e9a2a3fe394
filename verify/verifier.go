package verify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/attestia/zkattest/claim"
	"github.com/attestia/zkattest/field"
	"github.com/attestia/zkattest/history"
	"github.com/attestia/zkattest/models"
	"github.com/attestia/zkattest/revocation"
)

// State names the verification pipeline stages.
type State string

const (
	StateReceived   State = "RECEIVED"
	StateClassified State = "CLASSIFIED"
	StateWitnessed  State = "WITNESSED"
	StateProven     State = "PROVEN"
	StateRecorded   State = "RECORDED"
	StateFailed     State = "FAILED"
)

// Request is one verification: the query, the value extracted for it
// upstream, and the document it is about.
type Request struct {
	Query          string
	ExtractedValue string
	Document       models.DocumentInput
	// Reference fixes the date all age and validity arithmetic is
	// relative to. Zero means the verifier's clock.
	Reference time.Time
}

// Outcome is the discriminated result of a verification. Success
// false means the pipeline failed; a claim proven false still counts
// as success with IsValid false.
type Outcome struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id"`
	State     State  `json:"state"`
	Timestamp int64  `json:"timestamp"`

	ProofKind              ProofKind `json:"proof_kind,omitempty"`
	Statement              string    `json:"statement,omitempty"`
	ClaimFingerprint       string    `json:"claim_fingerprint,omitempty"`
	DocumentFingerprint    string    `json:"document_fingerprint,omitempty"`
	DocumentFingerprintHex string    `json:"document_fingerprint_hex,omitempty"`
	IsValid                bool      `json:"is_valid"`

	IsRevoked      bool   `json:"is_revoked"`
	RevokedAt      int64  `json:"revoked_at,omitempty"`
	RevocationRoot string `json:"revocation_root,omitempty"`

	Proof     []byte `json:"proof,omitempty"`
	ProofHash string `json:"proof_hash,omitempty"`

	Error string `json:"error,omitempty"`
}

// Verifier runs the pipeline RECEIVED, CLASSIFIED, WITNESSED, PROVEN,
// RECORDED. Dependencies are explicit; there are no ambient globals,
// so two verifiers over different stores never interfere.
type Verifier struct {
	registry *revocation.Registry
	ledger   *history.Ledger
	prover   ProofSystem
	log      *slog.Logger
	now      func() time.Time
}

// New wires a verifier. A nil logger falls back to slog.Default.
func New(registry *revocation.Registry, ledger *history.Ledger, prover ProofSystem, log *slog.Logger) *Verifier {
	if log == nil {
		log = slog.Default()
	}
	return &Verifier{
		registry: registry,
		ledger:   ledger,
		prover:   prover,
		log:      log,
		now:      time.Now,
	}
}

// WithClock pins the verifier's clock, for reproducible runs.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

// Verify runs one request through the pipeline. It never panics
// outward; every failure lands in the outcome.
func (v *Verifier) Verify(ctx context.Context, req Request) Outcome {
	id := uuid.New().String()
	log := v.log.With("request_id", id)
	out := Outcome{RequestID: id, State: StateReceived, Timestamp: v.now().Unix()}
	log.Debug("verification received", "query", req.Query)

	reference := req.Reference
	if reference.IsZero() {
		reference = v.now()
	}

	pred := Classify(req.Query)
	out.ProofKind = pred.Kind
	out.State = StateClassified
	log.Debug("query classified", "proof_kind", pred.Kind)

	fps, err := req.Document.Fingerprints(reference)
	if err != nil {
		return v.fail(log, out, err)
	}
	doc := fps.Document

	ev, err := evaluate(pred, req.ExtractedValue, fps, reference)
	if err != nil {
		return v.fail(log, out, err)
	}

	statement := pred.Statement(req.ExtractedValue, reference)
	cl := claim.New(statement, doc, ev.isValid)
	claimFp := cl.Fingerprint()

	out.IsValid = ev.isValid
	out.Statement = statement
	out.ClaimFingerprint = claimFp.String()
	out.DocumentFingerprint = doc.ContentHash.String()
	out.DocumentFingerprintHex = field.ToHex(doc.ContentHash)

	st := v.registry.Status(doc.ContentHash)
	out.State = StateWitnessed
	out.IsRevoked = st.Revoked
	out.RevocationRoot = st.Root.String()
	if st.Revoked {
		out.RevokedAt = st.RevokedAt
		log.Warn("document is revoked", "document_fingerprint", out.DocumentFingerprint, "revoked_at", st.RevokedAt)
	}

	leaf := field.Zero()
	if st.Revoked {
		leaf = field.FromUint64(uint64(st.RevokedAt))
	}
	artifact, err := v.prover.Prove(ctx, ProofRequest{
		Kind:             pred.Kind,
		Predicate:        pred,
		Guest:            fps.Guest,
		Document:         doc,
		ClaimTextHash:    cl.TextHash,
		IsValid:          ev.isValid,
		ClaimFingerprint: claimFp,
		DateDay:          ev.dateDay,
		ThresholdDay:     ev.thresholdDay,
		ValueHash:        ev.valueHash,
		RevocationRoot:   st.Root,
		RevocationLeaf:   leaf,
		Revoked:          st.Revoked,
		Witness:          st.Witness,
	})
	if err != nil {
		return v.fail(log, out, err)
	}
	out.State = StateProven
	out.Proof = artifact.Proof
	sum := sha256.Sum256(artifact.Proof)
	out.ProofHash = hex.EncodeToString(sum[:])
	log.Info("proof generated",
		"circuit", artifact.CircuitName,
		"proof_kind", pred.Kind,
		"is_valid", ev.isValid,
		"duration_ms", artifact.Duration.Milliseconds())

	if _, err := v.ledger.Append(v.now(), doc.ContentHash, claimFp, req.Query, ev.isValid, string(pred.Kind)); err != nil {
		return v.fail(log, out, err)
	}
	out.State = StateRecorded
	out.Success = true
	log.Info("verification recorded",
		"document_fingerprint", out.DocumentFingerprint,
		"claim_fingerprint", out.ClaimFingerprint,
		"is_valid", out.IsValid,
		"is_revoked", out.IsRevoked)
	return out
}

// Revoke marks a document fingerprint revoked, for the administrative
// surface.
func (v *Verifier) Revoke(fingerprint field.Element) error {
	return v.registry.RevokeNow(fingerprint)
}

// RevocationRoot returns the current registry root.
func (v *Verifier) RevocationRoot() field.Element {
	return v.registry.Root()
}

// RevocationStatus reports whether a document fingerprint is revoked
// and the revocation time when it is.
func (v *Verifier) RevocationStatus(fingerprint field.Element) (bool, int64) {
	st := v.registry.Status(fingerprint)
	return st.Revoked, st.RevokedAt
}

// DocumentHistory lists the recorded attempts for a document.
func (v *Verifier) DocumentHistory(fingerprint field.Element) []history.Record {
	return v.ledger.ForDocument(fingerprint)
}

// ClaimHistory lists the recorded attempts for a claim.
func (v *Verifier) ClaimHistory(fingerprint field.Element) []history.Record {
	return v.ledger.ForClaim(fingerprint)
}

func (v *Verifier) fail(log *slog.Logger, out Outcome, err error) Outcome {
	out.State = StateFailed
	out.Success = false
	out.Error = err.Error()
	log.Warn("verification failed", "error", err)
	return out
}

type evaluation struct {
	isValid      bool
	dateDay      int64
	thresholdDay int64
	valueHash    field.Element
}

// evaluate runs the native predicate for the classified kind and
// collects the circuit inputs it implies. The circuits re-check the
// same comparison against the committed verdict.
func evaluate(pred Predicate, extractedValue string, fps models.Fingerprints, reference time.Time) (evaluation, error) {
	var ev evaluation
	switch pred.Kind {
	case KindAgeRange:
		ev.isValid = fps.Guest.AgeInRange(pred.MinYears, pred.MaxYears)
	case KindDate:
		d, err := claim.ParseDate(extractedValue)
		if err != nil {
			return ev, err
		}
		day, err := claim.DayNumber(d)
		if err != nil {
			return ev, err
		}
		threshold, err := claim.DayNumber(reference)
		if err != nil {
			return ev, err
		}
		ev.dateDay, ev.thresholdDay = day, threshold
		if pred.After {
			ev.isValid = day > threshold
		} else {
			ev.isValid = day <= threshold
		}
	case KindDocumentValidity:
		ev.isValid = fps.Document.IsValid()
	default:
		trimmed := strings.TrimSpace(extractedValue)
		ev.isValid = trimmed != ""
		if trimmed != "" {
			ev.valueHash = field.HashText(trimmed)
		}
	}
	return ev, nil
}
