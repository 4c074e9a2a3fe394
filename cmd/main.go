package main

import (
	"fmt"
	"os"
)

// zkattest - CLI tool and API service for verifying claims about
// scanned supporting documents without exposing the documents
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
