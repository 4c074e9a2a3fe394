package zkattest

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/attestia/zkattest/server"
)

func NewServeCmd() *cobra.Command {
	// A .env file under the working directory seeds the environment in
	// development; missing is fine.
	_ = godotenv.Load()

	cfg := &server.ServeConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the verification API server",
		Long: `Start the HTTP API server for verifying document claims, managing the
revocation registry and reading verification history. Flag defaults can be
set through ZKATTEST_* environment variables or a .env file.`,
		Example: `  # Start with the stub prover, no compiled circuits needed
  zkattest serve --stub-prover

  # Start with compiled circuits
  zkattest serve --circuits-dir ./setup --data-dir ./data

  # Production deployment with TLS
  zkattest serve --host 0.0.0.0 --port 443 --enable-tls \
    --cert-file /etc/ssl/cert.pem --key-file /etc/ssl/key.pem`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Run(cfg)
		},
	}

	// Server flags
	cmd.Flags().StringVar(&cfg.Host, "host", envOr("ZKATTEST_HOST", "localhost"), "Host to bind to")
	cmd.Flags().IntVarP(&cfg.Port, "port", "p", envIntOr("ZKATTEST_PORT", 8080), "Port to listen on")

	// Circuit flags
	cmd.Flags().StringVarP(&cfg.CircuitsDir, "circuits-dir", "d", envOr("ZKATTEST_CIRCUITS_DIR", "./setup"), "Directory containing compiled circuits")
	cmd.Flags().BoolVar(&cfg.StubProver, "stub-prover", false, "Replace Groth16 proving with a digest stub (no circuit artifacts needed)")

	// Storage flags
	cmd.Flags().StringVar(&cfg.DataDir, "data-dir", envOr("ZKATTEST_DATA_DIR", "./data"), "Directory for the revocation registry and history ledger")

	// Performance flags
	cmd.Flags().Int64Var(&cfg.MaxRequestSize, "max-request-size", 10*1024*1024, "Maximum request body size in bytes")
	cmd.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", 15*time.Second, "HTTP read timeout")
	cmd.Flags().DurationVar(&cfg.WriteTimeout, "write-timeout", 120*time.Second, "HTTP write timeout (proof generation can be slow)")
	cmd.Flags().DurationVar(&cfg.IdleTimeout, "idle-timeout", 120*time.Second, "HTTP idle timeout")
	cmd.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")
	cmd.Flags().DurationVar(&cfg.ProveTimeout, "prove-timeout", 90*time.Second, "Proof generation timeout per request")

	// Security flags
	cmd.Flags().BoolVar(&cfg.EnableCORS, "enable-cors", true, "Enable CORS middleware")
	cmd.Flags().StringSliceVar(&cfg.CorsOrigins, "cors-origins", []string{"*"}, "Allowed CORS origins")

	// Observability flags
	cmd.Flags().BoolVar(&cfg.EnablePprof, "enable-pprof", false, "Enable pprof endpoints (debug only)")
	cmd.Flags().StringVar(&cfg.LogLevel, "log-level", envOr("ZKATTEST_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&cfg.LogFormat, "log-format", envOr("ZKATTEST_LOG_FORMAT", "text"), "Log format (text, json)")

	// TLS flags
	cmd.Flags().BoolVar(&cfg.EnableTLS, "enable-tls", false, "Enable TLS/HTTPS")
	cmd.Flags().StringVar(&cfg.CertFile, "cert-file", "", "TLS certificate file")
	cmd.Flags().StringVar(&cfg.KeyFile, "key-file", "", "TLS private key file")

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
