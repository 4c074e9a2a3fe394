// Package prover manages the compiled claim circuits and implements
// the proof system the verifier drives. Circuits are compiled once,
// persisted next to their keys, and loaded into a registry at startup.
package prover

import (
	"bytes"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"

	"github.com/attestia/zkattest/verify"
)

// Circuit is one compiled claim circuit with its constraint system and
// key pair.
type Circuit struct {
	Name    string
	Version uint
	Kind    verify.ProofKind
	// Depth is the revocation tree depth the circuit was compiled
	// for. Witnesses of any other depth cannot be assigned.
	Depth int

	CS           constraint.ConstraintSystem
	ProvingKey   groth16.ProvingKey
	VerifyingKey groth16.VerifyingKey
}

// Prove generates a serialized Groth16 proof for the assignment.
func (c *Circuit) Prove(assignment frontend.Circuit) ([]byte, error) {
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("witness creation failed: %v", err)
	}

	proof, err := groth16.Prove(c.CS, c.ProvingKey, witness)
	if err != nil {
		return nil, fmt.Errorf("proof creation failed: %v", err)
	}

	var proofBuf bytes.Buffer
	if _, err := proof.WriteTo(&proofBuf); err != nil {
		return nil, fmt.Errorf("proof serialization failed: %v", err)
	}
	return proofBuf.Bytes(), nil
}

// Verify checks a serialized proof against the public part of the
// assignment.
func (c *Circuit) Verify(proofBytes []byte, assignment frontend.Circuit) error {
	public, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("public witness creation failed: %v", err)
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("failed to parse the proof: %w", err)
	}

	if err := groth16.Verify(proof, c.VerifyingKey, public); err != nil {
		return fmt.Errorf("proof verification failed: %v", err)
	}
	return nil
}
