package zkattest

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/attestia/zkattest/field"
	"github.com/attestia/zkattest/revocation"
)

type revokeConfig struct {
	dataDir string
}

func NewRevokeCmd() *cobra.Command {
	cfg := &revokeConfig{}

	cmd := &cobra.Command{
		Use:   "revoke <fingerprint>",
		Short: "Revoke a document fingerprint",
		Long: `Mark a document fingerprint revoked in the local registry. The
fingerprint is the decimal document_fingerprint a verification reports.
Proofs about the document keep working; they expose the revocation.`,
		Example: `  zkattest revoke 17635927033352257840915034986635238441928690017725014771276809854036`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRevoke(cfg, args[0])
		},
	}

	cmd.Flags().StringVar(&cfg.dataDir, "data-dir", envOr("ZKATTEST_DATA_DIR", "./data"), "Directory for the revocation registry")

	return cmd
}

func runRevoke(cfg *revokeConfig, raw string) error {
	fingerprint, err := field.FromDecimalString(raw)
	if err != nil {
		return fmt.Errorf("not a valid fingerprint: %w", err)
	}

	registry := revocation.Open(filepath.Join(cfg.dataDir, "revocations.json"), cliLogger())
	if err := registry.RevokeNow(fingerprint); err != nil {
		return err
	}

	fmt.Printf("revoked:  %s\n", fingerprint.String())
	root := registry.Root()
	fmt.Printf("new root: %s\n", root.String())
	return nil
}
