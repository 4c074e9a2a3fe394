package prover_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/consensys/gnark/frontend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attestia/zkattest/circuits/claimbind"
	"github.com/attestia/zkattest/claim"
	"github.com/attestia/zkattest/field"
	"github.com/attestia/zkattest/merklemap"
	"github.com/attestia/zkattest/models"
	"github.com/attestia/zkattest/prover"
	"github.com/attestia/zkattest/verify"
)

const testDepth = 8

var reference = time.Date(2023, time.February, 15, 0, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCompileAndLoadAll(t *testing.T) {
	dir := t.TempDir()
	log := testLogger()

	require.NoError(t, prover.CompileAll(dir, testDepth, false, log))
	for name := range prover.CircuitList(dir, testDepth) {
		for _, ext := range []string{"ccs", "pk", "vk"} {
			assert.FileExists(t, filepath.Join(dir, fmt.Sprintf("%s-1.%s", name, ext)))
		}
	}

	// A second run reuses the persisted artifacts.
	require.NoError(t, prover.CompileAll(dir, testDepth, false, log))

	reg := prover.NewCircuitRegistry(log)
	require.NoError(t, reg.LoadAll(dir, testDepth))

	c, err := reg.Get("age-range")
	require.NoError(t, err)
	assert.Equal(t, verify.KindAgeRange, c.Kind)
	assert.Equal(t, testDepth, c.Depth)
	assert.Equal(t, uint(1), c.Version)

	byKind, err := reg.ForKind(verify.KindString)
	require.NoError(t, err)
	assert.Equal(t, "value-presence", byKind.Name)

	_, err = reg.Get("no-such-circuit")
	assert.Error(t, err)
	assert.Error(t, reg.Register("age-range", c))
}

func TestLoadAllFailsWithoutArtifacts(t *testing.T) {
	reg := prover.NewCircuitRegistry(testLogger())
	require.Error(t, reg.LoadAll(t.TempDir(), testDepth))
}

// demoRequest opens an age range claim over the demo document against
// the given revocation tree, exactly as the verifier would.
func demoRequest(t *testing.T, tree *merklemap.Map) verify.ProofRequest {
	t.Helper()
	fps, err := models.GetDemoDocument().Fingerprints(reference)
	require.NoError(t, err)
	doc := fps.Document

	pred := verify.Predicate{Kind: verify.KindAgeRange, MinYears: 18, MaxYears: 150}
	isValid := fps.Guest.AgeInRange(pred.MinYears, pred.MaxYears)
	cl := claim.New(pred.Statement("23/09/2000", reference), doc, isValid)

	leaf := tree.Get(doc.ContentHash)
	return verify.ProofRequest{
		Kind:             pred.Kind,
		Predicate:        pred,
		Guest:            fps.Guest,
		Document:         doc,
		ClaimTextHash:    cl.TextHash,
		IsValid:          isValid,
		ClaimFingerprint: cl.Fingerprint(),
		RevocationRoot:   tree.Root(),
		RevocationLeaf:   leaf,
		Revoked:          !leaf.IsZero(),
		Witness:          tree.Witness(doc.ContentHash),
	}
}

func TestGnarkProofSystem(t *testing.T) {
	dir := t.TempDir()
	log := testLogger()
	require.NoError(t, prover.CompileAll(dir, testDepth, false, log))
	reg := prover.NewCircuitRegistry(log)
	require.NoError(t, reg.LoadAll(dir, testDepth))
	ps := prover.NewGnarkProofSystem(reg, log)

	tree := merklemap.New(testDepth)
	req := demoRequest(t, tree)

	artifact, err := ps.Prove(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "age-range", artifact.CircuitName)
	assert.Equal(t, verify.KindAgeRange, artifact.Kind)
	assert.NotEmpty(t, artifact.Proof)

	// The serialized proof verifies against the public inputs alone.
	circuit, err := reg.Get("age-range")
	require.NoError(t, err)
	public := &claimbind.AgeRangeCircuit{
		Core: claimbind.ClaimCore{
			Siblings:         make([]frontend.Variable, testDepth),
			ClaimFingerprint: req.ClaimFingerprint,
			RevocationRoot:   req.RevocationRoot,
			Revoked:          0,
		},
		MinAgeDays: int64(req.Predicate.MinYears) * claim.DaysPerYear,
		MaxAgeDays: int64(req.Predicate.MaxYears) * claim.DaysPerYear,
	}
	require.NoError(t, circuit.Verify(artifact.Proof, public))

	// Flipping a public input must break verification.
	tampered := *public
	tampered.Core.Revoked = 1
	require.Error(t, circuit.Verify(artifact.Proof, &tampered))
}

func TestGnarkProofSystemFailures(t *testing.T) {
	dir := t.TempDir()
	log := testLogger()
	require.NoError(t, prover.CompileAll(dir, testDepth, false, log))
	reg := prover.NewCircuitRegistry(log)
	require.NoError(t, reg.LoadAll(dir, testDepth))
	ps := prover.NewGnarkProofSystem(reg, log)

	tree := merklemap.New(testDepth)
	req := demoRequest(t, tree)

	// An opening that does not match its fingerprint cannot prove.
	bad := req
	bad.ClaimFingerprint = field.FromUint64(1)
	_, err := ps.Prove(context.Background(), bad)
	require.ErrorIs(t, err, verify.ErrProofSystem)

	// A witness from a tree of the wrong depth is rejected up front.
	wide := merklemap.New(2 * testDepth)
	_, err = ps.Prove(context.Background(), demoRequest(t, wide))
	require.ErrorIs(t, err, verify.ErrProofSystem)

	// A cancelled context abandons the run.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ps.Prove(ctx, req)
	require.ErrorIs(t, err, verify.ErrProofTimeout)
}

// The gnark prover satisfies the verifier end to end: revoked state
// flows from the tree through the public inputs.
func TestGnarkProofSystemRevokedDocument(t *testing.T) {
	dir := t.TempDir()
	log := testLogger()
	require.NoError(t, prover.CompileAll(dir, testDepth, false, log))
	reg := prover.NewCircuitRegistry(log)
	require.NoError(t, reg.LoadAll(dir, testDepth))
	ps := prover.NewGnarkProofSystem(reg, log)

	fps, err := models.GetDemoDocument().Fingerprints(reference)
	require.NoError(t, err)

	tree := merklemap.New(testDepth)
	tree.Set(fps.Document.ContentHash, field.FromUint64(1677628800))

	req := demoRequest(t, tree)
	require.True(t, req.Revoked)

	artifact, err := ps.Prove(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, artifact.Proof)
}
