package prover

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/attestia/zkattest/verify"
)

// GnarkProofSystem proves claim openings with the compiled Groth16
// circuits. Proving runs in its own goroutine so the caller's context
// bounds the wait; an abandoned run finishes in the background and its
// result is dropped.
type GnarkProofSystem struct {
	registry *CircuitRegistry
	log      *slog.Logger
}

// NewGnarkProofSystem wires the proof system to a loaded registry.
func NewGnarkProofSystem(registry *CircuitRegistry, log *slog.Logger) *GnarkProofSystem {
	if log == nil {
		log = slog.Default()
	}
	return &GnarkProofSystem{registry: registry, log: log}
}

func (s *GnarkProofSystem) Prove(ctx context.Context, req verify.ProofRequest) (*verify.ProofArtifact, error) {
	start := time.Now()

	circuit, err := s.registry.ForKind(req.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verify.ErrProofSystem, err)
	}
	assignment, err := buildAssignment(req, circuit.Depth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verify.ErrProofSystem, err)
	}

	type result struct {
		proof []byte
		err   error
	}
	done := make(chan result, 1)
	go func() {
		proof, err := circuit.Prove(assignment)
		done <- result{proof: proof, err: err}
	}()

	select {
	case <-ctx.Done():
		s.log.Warn("proving abandoned", "circuit", circuit.Name, "after", time.Since(start), "error", ctx.Err())
		return nil, fmt.Errorf("%w: %v", verify.ErrProofTimeout, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("%w: %v", verify.ErrProofSystem, r.err)
		}
		s.log.Debug("proof generated", "circuit", circuit.Name, "duration_ms", time.Since(start).Milliseconds())
		return &verify.ProofArtifact{
			Kind:        req.Kind,
			CircuitName: circuit.Name,
			Proof:       r.proof,
			GeneratedAt: start,
			Duration:    time.Since(start),
		}, nil
	}
}
