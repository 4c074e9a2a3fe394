package main

import (
	"github.com/attestia/zkattest/cmd/zkattest"
	"github.com/spf13/cobra"
)

// Init the cmd
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zkattest",
		Short: "Zero-Knowledge Document Claim Verification",
		Long:  `Tools and an API for proving claims about scanned documents with zero-knowledge proofs`,
	}

	rootCmd.AddCommand(
		zkattest.NewServeCmd(),
		zkattest.NewCompileCmd(),
		zkattest.NewVerifyCmd(),
		zkattest.NewRevokeCmd(),
		zkattest.NewHistoryCmd(),
		NewVersionCmd(),
	)

	return rootCmd
}
