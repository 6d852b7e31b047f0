package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/viant/digestius/service"
)

func summarizeCmd() *cobra.Command {
	var f corpusFlags
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a proposal corpus into tier artifacts",
		Example: `  digestius summarize --type eip --input ./EIPS --output ./ethereum
  digestius summarize --config config.yaml --all --db ~/digestius/digests.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			maybeDebugSleep("summarize", f.debugSleep)
			return runSummarize(ctx, cmd, &f)
		},
	}
	f.register(cmd)
	return cmd
}

func runSummarize(ctx context.Context, cmd *cobra.Command, f *corpusFlags) error {
	specs, cfg, err := f.resolve(cmd)
	if err != nil {
		return fmt.Errorf("resolve corpora: %w", err)
	}
	svc, err := f.newService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("service init: %w", err)
	}
	defer func() { _ = svc.Close() }()

	reports, err := svc.Summarize(ctx, service.SummarizeRequest{
		Corpora:  specs,
		Logf:     log.Printf,
		Progress: progressPrinter(f.progress),
	})
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, report := range reports {
		for _, artifact := range report.Result.Artifacts {
			st := artifact.Stats
			fmt.Fprintf(out, "%s %s/%s summarized=%d skipped=%d failed=%d tokens=%d\n",
				report.Corpus, artifact.Kind, artifact.Tier.Name, st.Summarized, st.Skipped, st.Failed, st.Tokens)
		}
		for _, location := range report.Written {
			fmt.Fprintf(out, "wrote %s\n", location)
		}
	}
	return nil
}
