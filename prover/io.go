package prover

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/attestia/zkattest/common"
)

// SetupAndSave compiles the circuit, runs the Groth16 setup and writes
// the constraint system and both keys to their paths.
func SetupAndSave(template frontend.Circuit, ccsPath, pkPath, vkPath string, log *slog.Logger) error {
	log.Info("compiling circuit")
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, template)
	if err != nil {
		return err
	}
	log.Info("circuit compiled", "constraints", ccs.GetNbConstraints())

	ccsFile, err := os.Create(ccsPath)
	if err != nil {
		return err
	}
	defer ccsFile.Close()
	if _, err := ccs.WriteTo(ccsFile); err != nil {
		return err
	}

	log.Info("running setup")
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return err
	}

	pkFile, err := os.Create(pkPath)
	if err != nil {
		return err
	}
	defer pkFile.Close()
	if _, err := pk.WriteTo(pkFile); err != nil {
		return err
	}

	vkFile, err := os.Create(vkPath)
	if err != nil {
		return err
	}
	defer vkFile.Close()
	if _, err := vk.WriteTo(vkFile); err != nil {
		return err
	}

	log.Info("setup completed and saved", "ccs", ccsPath)
	return nil
}

// LoadSetup reads a previously saved constraint system and key pair.
func LoadSetup(ccsPath, pkPath, vkPath string) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	ccsFile, err := os.Open(ccsPath)
	if err != nil {
		return nil, nil, nil, err
	}
	defer ccsFile.Close()

	ccs := groth16.NewCS(ecc.BN254)
	if _, err := ccs.ReadFrom(ccsFile); err != nil {
		return nil, nil, nil, err
	}

	pkFile, err := os.Open(pkPath)
	if err != nil {
		return nil, nil, nil, err
	}
	defer pkFile.Close()

	pk := groth16.NewProvingKey(ecc.BN254)
	if _, err := pk.ReadFrom(pkFile); err != nil {
		return nil, nil, nil, err
	}

	vkFile, err := os.Open(vkPath)
	if err != nil {
		return nil, nil, nil, err
	}
	defer vkFile.Close()

	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(vkFile); err != nil {
		return nil, nil, nil, err
	}

	return ccs, pk, vk, nil
}

// InitCircuit loads the persisted setup when all three artifacts exist
// and forceCompile is off, and compiles from scratch otherwise.
func InitCircuit(ccsPath, pkPath, vkPath string, forceCompile bool, template frontend.Circuit, log *slog.Logger) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	for _, p := range []string{ccsPath, pkPath, vkPath} {
		if err := common.ValidatePath(p); err != nil {
			return nil, nil, nil, err
		}
	}
	if err := common.EnsureDirectories(ccsPath, pkPath, vkPath); err != nil {
		return nil, nil, nil, err
	}

	haveAll := common.FileExists(ccsPath) && common.FileExists(pkPath) && common.FileExists(vkPath)
	if haveAll && !forceCompile {
		log.Info("loading pre-compiled setup", "ccs", ccsPath)
		return LoadSetup(ccsPath, pkPath, vkPath)
	}

	if err := SetupAndSave(template, ccsPath, pkPath, vkPath, log); err != nil {
		// A failed compile must not leave partial artifacts behind.
		for _, p := range []string{ccsPath, pkPath, vkPath} {
			if rmErr := common.SafeRemove(p); rmErr != nil {
				log.Warn("failed to remove partial artifact", "path", p, "error", rmErr)
			}
		}
		return nil, nil, nil, fmt.Errorf("circuit setup failed: %w", err)
	}
	return LoadSetup(ccsPath, pkPath, vkPath)
}
