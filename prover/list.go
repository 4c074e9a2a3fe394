package prover

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/consensys/gnark/frontend"

	"github.com/attestia/zkattest/circuits/claimbind"
	"github.com/attestia/zkattest/verify"
)

// CircuitInfo describes one claim circuit: its identity, the proof
// kind it serves, and where its compiled artifacts live.
type CircuitInfo struct {
	Circuit     frontend.Circuit
	Dir         string
	Name        string
	Version     uint
	Kind        verify.ProofKind
	Depth       int
	Description string
}

func (ci CircuitInfo) paths() (ccs, pk, vk string) {
	ccs = filepath.Join(ci.Dir, fmt.Sprintf("%s-%d.ccs", ci.Name, ci.Version))
	pk = filepath.Join(ci.Dir, fmt.Sprintf("%s-%d.pk", ci.Name, ci.Version))
	vk = filepath.Join(ci.Dir, fmt.Sprintf("%s-%d.vk", ci.Name, ci.Version))
	return
}

// CircuitList enumerates the claim circuits at the given artifact
// directory and revocation tree depth. The depth must match the
// registry tree the witnesses come from.
func CircuitList(dir string, depth int) map[string]CircuitInfo {
	return map[string]CircuitInfo{
		"age-range": {
			Circuit:     claimbind.NewAgeRange(depth),
			Dir:         dir,
			Name:        "age-range",
			Version:     1,
			Kind:        verify.KindAgeRange,
			Depth:       depth,
			Description: "guest age lies within a public inclusive day range",
		},
		"date-threshold": {
			Circuit:     claimbind.NewDate(depth),
			Dir:         dir,
			Name:        "date-threshold",
			Version:     1,
			Kind:        verify.KindDate,
			Depth:       depth,
			Description: "a date lies before or after a public threshold day",
		},
		"document-validity": {
			Circuit:     claimbind.NewDocumentValidity(depth),
			Dir:         dir,
			Name:        "document-validity",
			Version:     1,
			Kind:        verify.KindDocumentValidity,
			Depth:       depth,
			Description: "the document is signed, stamped and inside its validity window",
		},
		"value-presence": {
			Circuit:     claimbind.NewValuePresence(depth),
			Dir:         dir,
			Name:        "value-presence",
			Version:     1,
			Kind:        verify.KindString,
			Depth:       depth,
			Description: "a value was extracted for the claim",
		},
	}
}

// Compile compiles the circuit and stores its artifacts under its
// directory. Existing artifacts are reused unless force is set.
func (ci CircuitInfo) Compile(force bool, log *slog.Logger) error {
	ccsPath, pkPath, vkPath := ci.paths()
	_, _, _, err := InitCircuit(ccsPath, pkPath, vkPath, force, ci.Circuit, log.With("circuit", ci.Name))
	return err
}

// CompileAll compiles every claim circuit into dir.
func CompileAll(dir string, depth int, force bool, log *slog.Logger) error {
	for _, ci := range CircuitList(dir, depth) {
		if err := ci.Compile(force, log); err != nil {
			return fmt.Errorf("compiling %s: %w", ci.Name, err)
		}
	}
	return nil
}
