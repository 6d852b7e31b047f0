package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/digestius/httpapi"
	"github.com/viant/digestius/metrics"
	"github.com/viant/digestius/service"
)

const defaultAddr = "127.0.0.1:6071"

func serveCmd() *cobra.Command {
	var (
		db          string
		dbDriver    string
		addr        string
		configPath  string
		metricsFile string
		debugSleep  int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored digests over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			maybeDebugSleep("serve", debugSleep)

			if configPath != "" {
				cfg, err := service.LoadConfig(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if db == "" {
					db, dbDriver = cfg.Store.DSN, cfg.Store.Driver
				}
				if addr == "" {
					addr = cfg.HTTP.Addr
				}
				if metricsFile == "" {
					metricsFile = cfg.MetricsFile
				}
			}
			if db == "" {
				return fmt.Errorf("serve: --db or config store.dsn is required")
			}
			if addr == "" {
				addr = defaultAddr
			}
			st, err := openStore(ctx, dbDriver, db)
			if err != nil {
				return fmt.Errorf("serve: open store: %w", err)
			}
			defer func() { _ = st.Close() }()

			router := httpapi.NewRouter(httpapi.NewHandler(st, log.Printf), metrics.ServeHandler(metricsFile))
			server := httpapi.NewServer(addr, router)
			errCh := make(chan error, 1)
			go func() {
				log.Printf("digestius listening on %s", server.Addr)
				errCh <- server.ListenAndServe()
			}()
			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&db, "db", "", "digest store dsn (required unless config has store.dsn)")
	flags.StringVar(&dbDriver, "db-driver", "", "digest store driver (auto-detect if empty)")
	flags.StringVar(&addr, "addr", "", "listen address (default from config or "+defaultAddr+")")
	flags.StringVar(&configPath, "config", "", "config yaml (optional)")
	flags.StringVar(&metricsFile, "metrics-file", "", "prometheus textfile written by summarize/watch to expose on /metrics")
	flags.IntVar(&debugSleep, "debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	return cmd
}
