package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/faultdx/internal/troubleshoot"
)

func newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <description>",
		Short: "Rank known faults by similarity to a description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(quietLogging(cfg.Logging), nil)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			svc, err := newLocalService(cfg, logger)
			if err != nil {
				return err
			}
			return printMatches(cmd.Context(), svc, strings.Join(args, " "), cmd.OutOrStdout())
		},
	}
}

func printMatches(ctx context.Context, svc *troubleshoot.Service, description string, out io.Writer) error {
	report, err := svc.RankBySimilarity(ctx, description)
	if err != nil {
		return err
	}
	if len(report.Matches) == 0 {
		fmt.Fprintln(out, report.Message)
		return nil
	}
	for i, m := range report.Matches {
		fmt.Fprintf(out, "%d. %s (%.2f)\n", i+1, m.Fault.Name, m.Score)
		if len(m.Fault.Solutions) > 0 {
			fmt.Fprintf(out, "   Solución: %s\n", strings.Join(m.Fault.Solutions, "; "))
		}
	}
	return nil
}
