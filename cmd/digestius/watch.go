package main

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/digestius/service"
)

func watchCmd() *cobra.Command {
	var f corpusFlags
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Summarize a local corpus and resummarize it on changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			maybeDebugSleep("watch", f.debugSleep)

			specs, cfg, err := f.resolve(cmd)
			if err != nil {
				return fmt.Errorf("resolve corpora: %w", err)
			}
			svc, err := f.newService(ctx, cfg)
			if err != nil {
				return fmt.Errorf("service init: %w", err)
			}
			defer func() { _ = svc.Close() }()
			return svc.Watch(ctx, service.WatchRequest{
				Corpora:  specs,
				Debounce: debounce,
				Logf:     log.Printf,
				Progress: progressPrinter(f.progress),
			})
		},
	}
	f.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", service.DefaultDebounce, "wait for more changes before resummarizing")
	return cmd
}
