package zkattest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/attestia/zkattest/certificate"
	"github.com/attestia/zkattest/field"
	"github.com/attestia/zkattest/history"
	"github.com/attestia/zkattest/merklemap"
	"github.com/attestia/zkattest/models"
	"github.com/attestia/zkattest/prover"
	"github.com/attestia/zkattest/revocation"
	"github.com/attestia/zkattest/verify"
)

type verifyConfig struct {
	query       string
	value       string
	file        string
	demo        bool
	dataDir     string
	circuitsDir string
	stub        bool
	certificate bool
	confidence  float64
}

func NewVerifyCmd() *cobra.Command {
	cfg := &verifyConfig{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a claim about a document from the command line",
		Long: `Run one verification locally: classify the query, evaluate the claim,
generate the proof and record the outcome, without starting the server.`,
		Example: `  # Verify against the built-in demo attestation
  zkattest verify --demo -q "Est-ce que la personne hébergée est majeure ?" --stub-prover

  # Verify an extracted document
  zkattest verify -i document.json -q "Le document est-il valide ?" --circuits-dir ./setup

  # Date queries carry the extracted date
  zkattest verify --demo -q "Quelle est la date de naissance ?" --value 23/09/2000 --stub-prover

  # Print the certificate as well
  zkattest verify --demo -q "Est-ce que la personne hébergée est majeure ?" --stub-prover --certificate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.query, "query", "q", "", "Verification query, in French")
	cmd.Flags().StringVar(&cfg.value, "value", "", "Value extracted for the query (dates, free text)")
	cmd.Flags().StringVarP(&cfg.file, "input", "i", "", "JSON file with the extracted document")
	cmd.Flags().BoolVar(&cfg.demo, "demo", false, "Use the built-in demo attestation")
	cmd.Flags().StringVar(&cfg.dataDir, "data-dir", envOr("ZKATTEST_DATA_DIR", "./data"), "Directory for the revocation registry and history ledger")
	cmd.Flags().StringVarP(&cfg.circuitsDir, "circuits-dir", "d", envOr("ZKATTEST_CIRCUITS_DIR", "./setup"), "Directory containing compiled circuits")
	cmd.Flags().BoolVar(&cfg.stub, "stub-prover", false, "Replace Groth16 proving with a digest stub")
	cmd.Flags().BoolVar(&cfg.certificate, "certificate", false, "Print the verification certificate")
	cmd.Flags().Float64Var(&cfg.confidence, "confidence", 0.99, "Extraction confidence reported on the certificate")

	return cmd
}

func runVerify(cfg *verifyConfig) error {
	if cfg.query == "" {
		return fmt.Errorf("--query is required")
	}

	var doc models.DocumentInput
	switch {
	case cfg.demo:
		doc = models.GetDemoDocument()
	case cfg.file != "":
		raw, err := os.ReadFile(cfg.file)
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to parse document: %w", err)
		}
	default:
		return fmt.Errorf("either --input or --demo is required")
	}

	logger := cliLogger()
	if err := os.MkdirAll(cfg.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	registry := revocation.Open(filepath.Join(cfg.dataDir, "revocations.json"), logger)
	ledger := history.Open(filepath.Join(cfg.dataDir, "history.json"), logger)

	var proofSystem verify.ProofSystem
	if cfg.stub {
		proofSystem = &verify.StubProofSystem{}
	} else {
		reg := prover.NewCircuitRegistry(logger)
		if err := reg.LoadAll(cfg.circuitsDir, merklemap.DefaultDepth); err != nil {
			return fmt.Errorf("failed to load circuits (run compile first, or pass --stub-prover): %w", err)
		}
		proofSystem = prover.NewGnarkProofSystem(reg, logger)
	}

	verifier := verify.New(registry, ledger, proofSystem, logger)
	out := verifier.Verify(context.Background(), verify.Request{
		Query:          cfg.query,
		ExtractedValue: cfg.value,
		Document:       doc,
	})

	buf, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(buf))

	if !out.Success {
		return fmt.Errorf("verification failed: %s", out.Error)
	}

	if cfg.certificate {
		fingerprint, err := field.FromDecimalString(out.DocumentFingerprint)
		if err != nil {
			return err
		}
		cert := certificate.Build(verify.Request{Query: cfg.query, Document: doc}, out,
			verifier.DocumentHistory(fingerprint), cfg.confidence, time.Now())
		cbuf, err := json.MarshalIndent(cert, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(cbuf))
	}
	return nil
}

// cliLogger logs to stderr so command output on stdout stays parseable.
func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
