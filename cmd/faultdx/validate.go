package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a knowledge base and report coverage gaps",
		Long: `Loads the knowledge base (the argument, --knowledge, or knowledge.path) and
prints its version and coverage. Exits non-zero listing every problem when the
file is invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := knowledgePath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				path = cfg.Knowledge.Path
			}
			return validateKnowledge(path, cmd.OutOrStdout())
		},
	}
}

func validateKnowledge(path string, out io.Writer) error {
	base, err := knowledge.Load(path)
	if err != nil {
		var verr *knowledge.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(out, "%s is invalid:\n", path)
			for _, p := range verr.Problems {
				fmt.Fprintf(out, "  - %s: %s\n", p.Path, p.Message)
			}
		}
		return err
	}

	s := base.Summary()
	fmt.Fprintf(out, "%s is valid\n", path)
	fmt.Fprintf(out, "Version:    %s\n", s.Version)
	fmt.Fprintf(out, "Faults:     %d\n", s.Faults)
	fmt.Fprintf(out, "Attributes: %d\n", s.Attributes)
	fmt.Fprintf(out, "Keywords:   %d\n", s.Keywords)
	fmt.Fprintf(out, "Questions:  %d\n", s.Questions)
	printGaps(out, "Attributes without a question", attrNames(s.WithoutQuestion))
	printGaps(out, "Attributes without keywords", attrNames(s.WithoutKeywords))
	printGaps(out, "Faults without attributes", s.FaultsWithoutAttributes)
	return nil
}

func printGaps(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "%s (%d): %s\n", title, len(items), strings.Join(items, ", "))
}

func attrNames(attrs []knowledge.Attribute) []string {
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = string(a)
	}
	return out
}
