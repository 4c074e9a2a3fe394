package prover

import (
	"fmt"
	"log/slog"

	"github.com/attestia/zkattest/verify"
)

// CircuitRegistry stores loaded circuits by name. It is populated at
// startup and read-only afterwards, so lookups need no locking.
type CircuitRegistry struct {
	Circuits map[string]*Circuit
	log      *slog.Logger
}

// NewCircuitRegistry creates an empty registry.
func NewCircuitRegistry(log *slog.Logger) *CircuitRegistry {
	if log == nil {
		log = slog.Default()
	}
	return &CircuitRegistry{
		Circuits: make(map[string]*Circuit),
		log:      log,
	}
}

// LoadAll loads every claim circuit's artifacts from dir. Missing
// artifacts fail the whole load; serve mode either has a complete
// circuit set or falls back to the stub prover explicitly.
func (cr *CircuitRegistry) LoadAll(dir string, depth int) error {
	for _, ci := range CircuitList(dir, depth) {
		if err := cr.LoadCircuit(ci); err != nil {
			return err
		}
	}
	return nil
}

// LoadCircuit loads one circuit's persisted setup and registers it.
func (cr *CircuitRegistry) LoadCircuit(ci CircuitInfo) error {
	ccsPath, pkPath, vkPath := ci.paths()

	cs, pk, vk, err := LoadSetup(ccsPath, pkPath, vkPath)
	if err != nil {
		return fmt.Errorf("failed to load circuit %s: %w", ci.Name, err)
	}
	cr.log.Info("circuit loaded", "circuit", ci.Name, "version", ci.Version, "depth", ci.Depth)

	return cr.Register(ci.Name, &Circuit{
		Name:         ci.Name,
		Version:      ci.Version,
		Kind:         ci.Kind,
		Depth:        ci.Depth,
		CS:           cs,
		ProvingKey:   pk,
		VerifyingKey: vk,
	})
}

// Get returns a circuit by name.
func (cr *CircuitRegistry) Get(name string) (*Circuit, error) {
	if c, ok := cr.Circuits[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("circuit %s not found", name)
}

// ForKind returns the circuit serving the given proof kind.
func (cr *CircuitRegistry) ForKind(kind verify.ProofKind) (*Circuit, error) {
	for _, c := range cr.Circuits {
		if c.Kind == kind {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no circuit registered for proof kind %s", kind)
}

// Register registers a circuit under a unique name.
func (cr *CircuitRegistry) Register(name string, circuit *Circuit) error {
	if _, ok := cr.Circuits[name]; ok {
		return fmt.Errorf("circuit with name %s already exists", name)
	}
	cr.Circuits[name] = circuit
	return nil
}
