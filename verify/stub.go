package verify

import (
	"context"
	"crypto/sha256"
	"time"
)

// StubProofSystem is the deterministic ProofSystem double. It emits a
// digest of the public inputs instead of a Groth16 proof, so pipelines
// run without compiled circuit artifacts: unit tests, and serve mode
// with proving disabled.
type StubProofSystem struct {
	// Err, when set, is returned from every Prove call.
	Err error
	// Delay stretches each call, honoring context cancellation, so
	// timeout paths can be exercised.
	Delay time.Duration
}

func (s *StubProofSystem) Prove(ctx context.Context, req ProofRequest) (*ProofArtifact, error) {
	start := time.Now()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ErrProofTimeout
		case <-time.After(s.Delay):
		}
	}

	h := sha256.New()
	h.Write([]byte(req.Kind))
	h.Write(req.ClaimFingerprint.Marshal())
	h.Write(req.RevocationRoot.Marshal())
	if req.IsValid {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}

	return &ProofArtifact{
		Kind:        req.Kind,
		CircuitName: "stub",
		Proof:       h.Sum(nil),
		GeneratedAt: start,
		Duration:    time.Since(start),
	}, nil
}
