// Faultdx diagnoses equipment faults from free-text symptom descriptions.
//
// The binary serves the diagnosis HTTP API and offers terminal commands for
// interactive sessions, one-shot similarity ranking and knowledge base
// validation.
//
// Usage:
//
//	# Serve the API with defaults (0.0.0.0:5000, ./base_conocimiento.json)
//	faultdx serve
//
//	# Configure via file and environment
//	FAULTDX_SERVER__PORT=8080 faultdx serve --config faultdx.yaml
//
//	# Interactive session in the terminal
//	faultdx diagnose --knowledge base_hidrolavadora.json
//
//	# Check a knowledge base before deploying it
//	faultdx validate base_hidrolavadora.yaml
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var (
	configPath    string
	knowledgePath string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "faultdx",
		Short: "Fault diagnosis engine",
		Long: `faultdx isolates the most probable fault of a machine from a free-text
description, asking the fewest yes/no questions it can, or ranks the known
faults by textual similarity in one shot.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&knowledgePath, "knowledge", "", "knowledge base file (overrides knowledge.path)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newDiagnoseCmd())
	root.AddCommand(newMatchCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "faultdx by Fyrsmith Labs\n")
	fmt.Fprintf(w, "Version:    %s\n", version)
	fmt.Fprintf(w, "Commit:     %s\n", gitCommit)
	fmt.Fprintf(w, "Build Date: %s\n", buildDate)
}
