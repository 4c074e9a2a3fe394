package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/attestia/zkattest/history"
	"github.com/attestia/zkattest/merklemap"
	"github.com/attestia/zkattest/prover"
	"github.com/attestia/zkattest/revocation"
	"github.com/attestia/zkattest/server/api"
	"github.com/attestia/zkattest/verify"
)

type ServeConfig struct {
	// Server settings
	Host string
	Port int

	// Circuit settings
	CircuitsDir string
	// StubProver replaces Groth16 proving with the digest stub, so the
	// pipeline runs without compiled circuit artifacts.
	StubProver bool

	// Storage settings
	DataDir string

	// Performance settings
	MaxRequestSize  int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	ProveTimeout    time.Duration

	// Security settings
	EnableCORS  bool
	CorsOrigins []string

	// Observability
	EnablePprof bool
	LogLevel    string
	LogFormat   string // "json" or "text"

	// TLS settings
	EnableTLS bool
	CertFile  string
	KeyFile   string
}

func Run(cfg *ServeConfig) error {
	// Validate configuration
	if err := validateServeConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Setup structured logging
	logger := SetupLogger(cfg.LogLevel, cfg.LogFormat)

	// Open the persistent stores
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	registry := revocation.Open(filepath.Join(cfg.DataDir, "revocations.json"), logger)
	ledger := history.Open(filepath.Join(cfg.DataDir, "history.json"), logger)

	// Pick the proof system
	var proofSystem verify.ProofSystem
	var circuitRegistry *prover.CircuitRegistry
	if cfg.StubProver {
		logger.Warn("stub proof system enabled, responses carry digests instead of Groth16 proofs")
		proofSystem = &verify.StubProofSystem{}
	} else {
		circuitRegistry = prover.NewCircuitRegistry(logger)
		if err := circuitRegistry.LoadAll(cfg.CircuitsDir, merklemap.DefaultDepth); err != nil {
			return fmt.Errorf("failed to load circuits (run compile first): %w", err)
		}
		proofSystem = prover.NewGnarkProofSystem(circuitRegistry, logger)
	}

	verifier := verify.New(registry, ledger, proofSystem, logger)

	// Create server
	server := api.NewServer(api.Config{
		Verifier:     verifier,
		Registry:     circuitRegistry,
		Circuits:     prover.CircuitList(cfg.CircuitsDir, merklemap.DefaultDepth),
		ProveTimeout: cfg.ProveTimeout,
		Log:          logger,
	})

	// Setup router with middleware
	r := setupRouter(server, cfg, logger)

	// Configure HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", addr, "tls", cfg.EnableTLS)

		var err error
		if cfg.EnableTLS {
			err = httpServer.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	logger.Info("Shutting down server gracefully...")
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func validateServeConfig(cfg *ServeConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}

	if cfg.DataDir == "" {
		return fmt.Errorf("data directory not set")
	}

	if cfg.EnableTLS {
		if cfg.CertFile == "" || cfg.KeyFile == "" {
			return fmt.Errorf("TLS enabled but cert-file or key-file not provided")
		}
		if _, err := os.Stat(cfg.CertFile); err != nil {
			return fmt.Errorf("cert file not found: %s", cfg.CertFile)
		}
		if _, err := os.Stat(cfg.KeyFile); err != nil {
			return fmt.Errorf("key file not found: %s", cfg.KeyFile)
		}
	}

	if !cfg.StubProver {
		if _, err := os.Stat(cfg.CircuitsDir); err != nil {
			return fmt.Errorf("circuits directory not found: %s", cfg.CircuitsDir)
		}
	}

	return nil
}
