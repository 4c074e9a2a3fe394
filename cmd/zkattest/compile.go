package zkattest

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/attestia/zkattest/merklemap"
	"github.com/attestia/zkattest/prover"
)

type compileConfig struct {
	outputDir string
	circuits  []string
	depth     int
	force     bool
}

func NewCompileCmd() *cobra.Command {
	cfg := &compileConfig{}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile circuits and generate setup files",
		Long: `Compile the claim binding circuits and generate constraint systems,
proving keys and verification keys. Compiling at the full registry depth
takes a while; serve expects artifacts compiled at the default depth.`,
		Example: `  # Compile all circuits
  zkattest compile -o ./setup

  # Compile specific circuits
  zkattest compile -o ./setup -c age-range,document-validity`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.outputDir, "output", "o", "./setup", "Output directory for compiled circuits")
	cmd.Flags().StringSliceVarP(&cfg.circuits, "circuits", "c", []string{}, "Specific circuits to compile (comma-separated, empty = all)")
	cmd.Flags().IntVar(&cfg.depth, "depth", merklemap.DefaultDepth, "Revocation tree depth baked into the circuits")
	cmd.Flags().BoolVarP(&cfg.force, "force", "f", false, "Overwrite existing files")

	return cmd
}

func runCompile(cfg *compileConfig) error {
	// Create output directory
	if err := os.MkdirAll(cfg.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	log := cliLogger()
	list := prover.CircuitList(cfg.outputDir, cfg.depth)

	circuitsToCompile := cfg.circuits
	if len(circuitsToCompile) == 0 {
		for name := range list {
			circuitsToCompile = append(circuitsToCompile, name)
		}
		sort.Strings(circuitsToCompile)
	}

	fmt.Printf("\n==== Compiling %d circuits to %s ====\n", len(circuitsToCompile), cfg.outputDir)

	for _, name := range circuitsToCompile {
		info, ok := list[name]
		if !ok {
			fmt.Printf("Circuit %s not found, skipping\n", name)
			continue
		}

		start := time.Now()
		fmt.Printf("Compiling %s...\n", name)

		if err := info.Compile(cfg.force, log); err != nil {
			fmt.Printf("[X] Failed to compile %s: %v\n", name, err)
			continue
		}

		elapsed := time.Since(start)
		fmt.Printf("[OK] Compiled %s in %s\n", name, elapsed.Round(time.Second))
	}

	fmt.Println("\n==== Compilation complete ====")
	return nil
}
