package zkattest

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/attestia/zkattest/field"
	"github.com/attestia/zkattest/history"
)

type historyConfig struct {
	dataDir string
	byClaim bool
}

func NewHistoryCmd() *cobra.Command {
	cfg := &historyConfig{}

	cmd := &cobra.Command{
		Use:   "history [fingerprint]",
		Short: "Print recorded verification attempts",
		Long: `Print the verification history: all of it, or the attempts for one
document fingerprint, or with --claim for one claim fingerprint.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cfg, args)
		},
	}

	cmd.Flags().StringVar(&cfg.dataDir, "data-dir", envOr("ZKATTEST_DATA_DIR", "./data"), "Directory for the history ledger")
	cmd.Flags().BoolVar(&cfg.byClaim, "claim", false, "Treat the fingerprint as a claim fingerprint")

	return cmd
}

func runHistory(cfg *historyConfig, args []string) error {
	ledger := history.Open(filepath.Join(cfg.dataDir, "history.json"), cliLogger())

	var records []history.Record
	switch {
	case len(args) == 0:
		records = ledger.All()
	case cfg.byClaim:
		fingerprint, err := field.FromDecimalString(args[0])
		if err != nil {
			return fmt.Errorf("not a valid fingerprint: %w", err)
		}
		records = ledger.ForClaim(fingerprint)
	default:
		fingerprint, err := field.FromDecimalString(args[0])
		if err != nil {
			return fmt.Errorf("not a valid fingerprint: %w", err)
		}
		records = ledger.ForDocument(fingerprint)
	}

	if len(records) == 0 {
		fmt.Println("no records")
		return nil
	}
	buf, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(buf))
	return nil
}
