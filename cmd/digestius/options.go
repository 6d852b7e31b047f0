package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/digestius/metrics"
	"github.com/viant/digestius/service"
	"github.com/viant/digestius/store"
)

// corpusFlags are shared by summarize and watch.
type corpusFlags struct {
	input             string
	kind              string
	output            string
	tiers             string
	corpus            string
	configPath        string
	all               bool
	include           string
	exclude           string
	maxSize           int64
	workers           int
	db                string
	dbDriver          string
	metricsFile       string
	progress          bool
	extensions        string
	defaultExclusions bool
	debugSleep        int
}

func (f *corpusFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.input, "input", "", "corpus location: local path or URL (required without --config)")
	flags.StringVar(&f.kind, "type", "eip", "proposal type: eip|erc")
	flags.StringVar(&f.output, "output", "", "artifact output location (path or URL)")
	flags.StringVar(&f.tiers, "tiers", "", "comma-separated tiers (default short,medium,long)")
	flags.StringVar(&f.corpus, "corpus", "", "corpus name (selects a config corpus with --config)")
	flags.StringVar(&f.configPath, "config", "", "config yaml with corpora (optional)")
	flags.BoolVar(&f.all, "all", false, "process all corpora in config (requires --config)")
	flags.StringVar(&f.include, "include", "", "comma-separated include patterns")
	flags.StringVar(&f.exclude, "exclude", "", "comma-separated exclude patterns")
	flags.Int64Var(&f.maxSize, "max-size", 0, "max file size in bytes")
	flags.StringVar(&f.extensions, "extensions", "", "comma-separated text extensions (default .md,.markdown,.txt)")
	flags.BoolVar(&f.defaultExclusions, "default-exclusions", false, "skip .git/, .github/, vendor/, node_modules/ and backup files")
	flags.IntVar(&f.workers, "workers", 0, "documents summarized concurrently per tier (default 1)")
	flags.StringVar(&f.db, "db", "", "digest store dsn (optional, sqlite path, postgres:// or mysql dsn)")
	flags.StringVar(&f.dbDriver, "db-driver", "", "digest store driver (auto-detect if empty)")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "write prometheus textfile metrics after each run")
	flags.BoolVar(&f.progress, "progress", false, "show summarize progress")
	flags.IntVar(&f.debugSleep, "debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
}

func (f *corpusFlags) resolve(cmd *cobra.Command) ([]service.CorpusSpec, *service.Config, error) {
	return service.ResolveCorpora(service.ResolveCorporaRequest{
		Corpus:            f.corpus,
		Path:              f.input,
		Type:              f.kindFlag(cmd),
		Output:            f.output,
		Tiers:             service.ParseCSV(f.tiers),
		ConfigPath:        f.configPath,
		All:               f.all,
		Include:           service.ParseCSV(f.include),
		Exclude:           service.ParseCSV(f.exclude),
		MaxSizeBytes:      f.maxSize,
		Extensions:        service.ParseCSV(f.extensions),
		DefaultExclusions: f.defaultExclusions,
	})
}

// kindFlag leaves the config type in charge unless --type was given explicitly.
func (f *corpusFlags) kindFlag(cmd *cobra.Command) string {
	if f.configPath != "" && !cmd.Flags().Changed("type") {
		return ""
	}
	return f.kind
}

// newService builds a service from flags, falling back to config values.
func (f *corpusFlags) newService(ctx context.Context, cfg *service.Config) (*service.Service, error) {
	var opts []service.Option
	workers := f.workers
	metricsFile := f.metricsFile
	dsn, driver := f.db, f.dbDriver
	if cfg != nil {
		if workers == 0 {
			workers = cfg.Workers
		}
		if metricsFile == "" {
			metricsFile = cfg.MetricsFile
		}
		if dsn == "" {
			dsn, driver = cfg.Store.DSN, cfg.Store.Driver
		}
	}
	if workers > 0 {
		opts = append(opts, service.WithWorkers(workers))
	}
	if metricsFile != "" {
		opts = append(opts, service.WithMetrics(metrics.New()), service.WithMetricsFile(metricsFile))
	}
	if dsn != "" {
		st, err := openStore(ctx, driver, dsn)
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithStore(st))
	}
	return service.NewService(opts...)
}

func openStore(ctx context.Context, driver, dsn string) (*store.Store, error) {
	plainPath := !strings.HasPrefix(dsn, "file:") && dsn != ":memory:"
	if d, ok := store.DetectDriver(dsn); plainPath && ((ok && d == store.DriverSQLite) || driver == store.DriverSQLite) {
		if dir := filepath.Dir(dsn); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store dir: %w", err)
			}
		}
	}
	st, err := store.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := st.Init(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	log.Printf("store driver=%s", st.Driver())
	return st, nil
}
