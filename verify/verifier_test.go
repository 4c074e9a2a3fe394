package verify_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attestia/zkattest/history"
	"github.com/attestia/zkattest/models"
	"github.com/attestia/zkattest/revocation"
	"github.com/attestia/zkattest/verify"
)

var testReference = time.Date(2023, time.February, 15, 10, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestVerifier(t *testing.T, ps verify.ProofSystem) (*verify.Verifier, *history.Ledger) {
	t.Helper()
	dir := t.TempDir()
	log := quietLogger()
	registry := revocation.Open(filepath.Join(dir, "revocation.json"), log)
	ledger := history.Open(filepath.Join(dir, "history.json"), log)
	v := verify.New(registry, ledger, ps, log).WithClock(func() time.Time { return testReference })
	return v, ledger
}

func TestVerifyMajorityClaim(t *testing.T) {
	v, ledger := newTestVerifier(t, &verify.StubProofSystem{})

	out := v.Verify(context.Background(), verify.Request{
		Query:          "Quel est l'âge ? Est-ce que la personne est majeure ?",
		ExtractedValue: "23/09/2000",
		Document:       models.GetDemoDocument(),
		Reference:      testReference,
	})

	assert.True(t, out.Success)
	assert.Equal(t, verify.StateRecorded, out.State)
	assert.Equal(t, verify.KindAgeRange, out.ProofKind)
	assert.True(t, out.IsValid)
	assert.False(t, out.IsRevoked)
	assert.NotEmpty(t, out.RequestID)
	assert.NotEmpty(t, out.ClaimFingerprint)
	assert.NotEmpty(t, out.DocumentFingerprint)
	assert.Regexp(t, "^0x[0-9a-f]{64}$", out.DocumentFingerprintHex)
	assert.Len(t, out.ProofHash, 64)
	assert.NotEmpty(t, out.Proof)
	assert.Contains(t, out.Statement, "entre 18 et 150 ans")
	assert.Equal(t, testReference.Unix(), out.Timestamp)

	require.Equal(t, 1, ledger.Len())
	rec := ledger.All()[0]
	assert.Equal(t, out.DocumentFingerprint, rec.DocumentHash)
	assert.Equal(t, out.ClaimFingerprint, rec.InfoHash)
	assert.True(t, rec.Result)
	assert.Equal(t, "AGE_RANGE", rec.ProofType)
	assert.Equal(t, testReference.Unix(), rec.Timestamp)
}

// A claim evaluated false is still a completed verification: the proof
// commits to the false verdict and the attempt lands in the ledger.
func TestVerifyFalseClaimStillRecords(t *testing.T) {
	v, ledger := newTestVerifier(t, &verify.StubProofSystem{})

	out := v.Verify(context.Background(), verify.Request{
		Query:     "Le document est-il signé et valide ?",
		Document:  models.GetDemoExpiredDocument(),
		Reference: testReference,
	})

	assert.True(t, out.Success)
	assert.Equal(t, verify.StateRecorded, out.State)
	assert.Equal(t, verify.KindDocumentValidity, out.ProofKind)
	assert.False(t, out.IsValid)

	require.Equal(t, 1, ledger.Len())
	assert.False(t, ledger.All()[0].Result)
}

func TestVerifyUnsignedDocumentInvalid(t *testing.T) {
	v, _ := newTestVerifier(t, &verify.StubProofSystem{})

	out := v.Verify(context.Background(), verify.Request{
		Query:     "Ce document est-il authentique ?",
		Document:  models.GetDemoUnsignedDocument(),
		Reference: testReference,
	})
	assert.True(t, out.Success)
	assert.False(t, out.IsValid)
}

// Revocation does not block verification, it travels with it: the
// outcome carries the revoked flag and timestamp, and the run still
// completes and is recorded.
func TestVerifyRevokedDocument(t *testing.T) {
	v, ledger := newTestVerifier(t, &verify.StubProofSystem{})

	doc := models.GetDemoDocument()
	fps, err := doc.Fingerprints(testReference)
	require.NoError(t, err)
	require.NoError(t, v.Revoke(fps.Document.ContentHash))

	out := v.Verify(context.Background(), verify.Request{
		Query:          "La personne est-elle majeure ?",
		ExtractedValue: "23/09/2000",
		Document:       doc,
		Reference:      testReference,
	})

	assert.True(t, out.Success)
	assert.Equal(t, verify.StateRecorded, out.State)
	assert.True(t, out.IsRevoked)
	assert.NotZero(t, out.RevokedAt)
	root := v.RevocationRoot()
	assert.Equal(t, root.String(), out.RevocationRoot)
	assert.Equal(t, 1, ledger.Len())
}

func TestVerifyRejectsBadBirthDate(t *testing.T) {
	v, ledger := newTestVerifier(t, &verify.StubProofSystem{})

	doc := models.GetDemoDocument()
	doc.Guest.BirthDate = "not a date"
	out := v.Verify(context.Background(), verify.Request{
		Query:     "La personne est-elle majeure ?",
		Document:  doc,
		Reference: testReference,
	})

	assert.False(t, out.Success)
	assert.Equal(t, verify.StateFailed, out.State)
	assert.NotEmpty(t, out.Error)
	assert.Equal(t, 0, ledger.Len(), "failed runs must not reach the ledger")
}

func TestVerifyRejectsBadExtractedDate(t *testing.T) {
	v, ledger := newTestVerifier(t, &verify.StubProofSystem{})

	out := v.Verify(context.Background(), verify.Request{
		Query:          "Quelle est la date d'expiration ?",
		ExtractedValue: "pas une date",
		Document:       models.GetDemoDocument(),
		Reference:      testReference,
	})

	assert.False(t, out.Success)
	assert.Equal(t, verify.StateFailed, out.State)
	assert.Equal(t, 0, ledger.Len())
}

func TestVerifyProverFailure(t *testing.T) {
	boom := errors.New("constraint system exploded")
	v, ledger := newTestVerifier(t, &verify.StubProofSystem{Err: boom})

	out := v.Verify(context.Background(), verify.Request{
		Query:          "La personne est-elle majeure ?",
		ExtractedValue: "23/09/2000",
		Document:       models.GetDemoDocument(),
		Reference:      testReference,
	})

	assert.False(t, out.Success)
	assert.Equal(t, verify.StateFailed, out.State)
	assert.Contains(t, out.Error, "constraint system exploded")
	assert.Empty(t, out.ProofHash)
	assert.Equal(t, 0, ledger.Len())
}

func TestVerifyProverTimeout(t *testing.T) {
	v, ledger := newTestVerifier(t, &verify.StubProofSystem{Delay: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	out := v.Verify(ctx, verify.Request{
		Query:          "La personne est-elle majeure ?",
		ExtractedValue: "23/09/2000",
		Document:       models.GetDemoDocument(),
		Reference:      testReference,
	})

	assert.False(t, out.Success)
	assert.Equal(t, verify.StateFailed, out.State)
	assert.Contains(t, out.Error, verify.ErrProofTimeout.Error())
	assert.Equal(t, 0, ledger.Len())
}

func TestVerifyLedgerFailureFailsRun(t *testing.T) {
	dir := t.TempDir()
	log := quietLogger()
	registry := revocation.Open(filepath.Join(dir, "revocation.json"), log)

	// Parent is a regular file, so every persist attempt fails.
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o600))
	ledger := history.Open(filepath.Join(blocked, "history.json"), log)

	v := verify.New(registry, ledger, &verify.StubProofSystem{}, log).
		WithClock(func() time.Time { return testReference })

	out := v.Verify(context.Background(), verify.Request{
		Query:          "La personne est-elle majeure ?",
		ExtractedValue: "23/09/2000",
		Document:       models.GetDemoDocument(),
		Reference:      testReference,
	})

	assert.False(t, out.Success)
	assert.Equal(t, verify.StateFailed, out.State)
	assert.Contains(t, out.Error, history.ErrWrite.Error())
	assert.Equal(t, 0, ledger.Len())
}

func TestVerifyDateDirections(t *testing.T) {
	v, _ := newTestVerifier(t, &verify.StubProofSystem{})

	expiry := v.Verify(context.Background(), verify.Request{
		Query:          "Quelle est la date d'expiration ?",
		ExtractedValue: "15/08/2023",
		Document:       models.GetDemoDocument(),
		Reference:      testReference,
	})
	assert.True(t, expiry.Success)
	assert.Equal(t, verify.KindDate, expiry.ProofKind)
	assert.True(t, expiry.IsValid, "expiry after the reference date")

	birth := v.Verify(context.Background(), verify.Request{
		Query:          "Quelle est la date de naissance ?",
		ExtractedValue: "23/09/2000",
		Document:       models.GetDemoDocument(),
		Reference:      testReference,
	})
	assert.True(t, birth.Success)
	assert.True(t, birth.IsValid, "birth date before the reference date")

	future := v.Verify(context.Background(), verify.Request{
		Query:          "Quelle est la date de naissance ?",
		ExtractedValue: "01/01/2024",
		Document:       models.GetDemoDocument(),
		Reference:      testReference,
	})
	assert.True(t, future.Success)
	assert.False(t, future.IsValid, "birth date in the future proves false")
}

func TestVerifyValuePresence(t *testing.T) {
	v, _ := newTestVerifier(t, &verify.StubProofSystem{})

	present := v.Verify(context.Background(), verify.Request{
		Query:          "Quelle est l'adresse ?",
		ExtractedValue: "12 rue de la Paix, 75002 Paris",
		Document:       models.GetDemoDocument(),
		Reference:      testReference,
	})
	assert.True(t, present.Success)
	assert.Equal(t, verify.KindString, present.ProofKind)
	assert.True(t, present.IsValid)
	assert.Contains(t, present.Statement, "12 rue de la Paix")

	absent := v.Verify(context.Background(), verify.Request{
		Query:          "Quel est le numéro de passeport ?",
		ExtractedValue: "   ",
		Document:       models.GetDemoDocument(),
		Reference:      testReference,
	})
	assert.True(t, absent.Success, "an absent value is a provable false claim, not an error")
	assert.False(t, absent.IsValid)
}

// The claim fingerprint depends only on the claim, not on the run:
// verifying the same request twice yields the same fingerprint under
// fresh request ids, and both attempts land in the document history.
func TestVerifyDeterministicFingerprints(t *testing.T) {
	v, _ := newTestVerifier(t, &verify.StubProofSystem{})

	req := verify.Request{
		Query:          "La personne est-elle majeure ?",
		ExtractedValue: "23/09/2000",
		Document:       models.GetDemoDocument(),
		Reference:      testReference,
	}
	first := v.Verify(context.Background(), req)
	second := v.Verify(context.Background(), req)

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.Equal(t, first.ClaimFingerprint, second.ClaimFingerprint)
	assert.Equal(t, first.DocumentFingerprint, second.DocumentFingerprint)
	assert.Equal(t, first.ProofHash, second.ProofHash)
	assert.NotEqual(t, first.RequestID, second.RequestID)

	doc := models.GetDemoDocument()
	fps, err := doc.Fingerprints(testReference)
	require.NoError(t, err)
	assert.Len(t, v.DocumentHistory(fps.Document.ContentHash), 2)
}

func TestVerifyZeroReferenceUsesClock(t *testing.T) {
	v, _ := newTestVerifier(t, &verify.StubProofSystem{})

	pinned := v.Verify(context.Background(), verify.Request{
		Query:          "La personne est-elle majeure ?",
		ExtractedValue: "23/09/2000",
		Document:       models.GetDemoDocument(),
		Reference:      testReference,
	})
	clocked := v.Verify(context.Background(), verify.Request{
		Query:          "La personne est-elle majeure ?",
		ExtractedValue: "23/09/2000",
		Document:       models.GetDemoDocument(),
	})
	assert.Equal(t, pinned.ClaimFingerprint, clocked.ClaimFingerprint)
}
