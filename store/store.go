package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store persists digests so they can be served without rereading a corpus
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to dsn, detecting the driver when empty
func Open(driver, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("store dsn required")
	}
	if driver == "" {
		detected, ok := DetectDriver(dsn)
		if !ok {
			return nil, fmt.Errorf("unable to detect store driver from dsn")
		}
		driver = detected
	}
	switch driver {
	case DriverSQLite:
		dsn = EnsurePragmas(dsn, true, BusyTimeoutMS)
	case DriverMySQL:
		dsn = mysqlDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	return &Store{db: db, driver: driver}, nil
}

// Driver returns the sql driver name
func (s *Store) Driver() string {
	return s.driver
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates tables when missing
func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS digest_run (
			run_id VARCHAR(64) PRIMARY KEY,
			corpus VARCHAR(255) NOT NULL,
			kind VARCHAR(16) NOT NULL,
			root TEXT NOT NULL,
			tiers VARCHAR(255) NOT NULL,
			documents INTEGER NOT NULL DEFAULT 0,
			changed INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			started_at BIGINT NOT NULL,
			finished_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS digest_tier (
			corpus VARCHAR(255) NOT NULL,
			kind VARCHAR(16) NOT NULL,
			tier VARCHAR(32) NOT NULL,
			run_id VARCHAR(64) NOT NULL,
			records INTEGER NOT NULL DEFAULT 0,
			tokens INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY(corpus, kind, tier)
		)`,
		`CREATE TABLE IF NOT EXISTS digest_record (
			corpus VARCHAR(255) NOT NULL,
			kind VARCHAR(16) NOT NULL,
			tier VARCHAR(32) NOT NULL,
			ordinal INTEGER NOT NULL,
			run_id VARCHAR(64) NOT NULL,
			path VARCHAR(1024) NOT NULL,
			identifier VARCHAR(255) NOT NULL,
			title TEXT NOT NULL,
			status VARCHAR(64) NOT NULL,
			content_hash VARCHAR(32) NOT NULL,
			tokens INTEGER NOT NULL DEFAULT 0,
			failed BOOLEAN NOT NULL DEFAULT FALSE,
			body TEXT NOT NULL,
			PRIMARY KEY(corpus, kind, tier, ordinal)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init store: %w", err)
		}
	}
	return nil
}

// SaveRun records run and replaces the stored digests the run corpus holds for every tier present in digests
func (s *Store) SaveRun(ctx context.Context, run Run, digests []Digest) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	row := runRow{
		ID:         run.ID,
		Corpus:     run.Corpus,
		Kind:       run.Kind,
		Root:       run.Root,
		Tiers:      strings.Join(run.Tiers, ","),
		Documents:  run.Documents,
		Changed:    run.Changed,
		Failed:     run.Failed,
		StartedAt:  run.StartedAt.UnixMilli(),
		FinishedAt: run.FinishedAt.UnixMilli(),
	}
	if _, err = tx.NamedExecContext(ctx, `INSERT INTO digest_run (run_id, corpus, kind, root, tiers, documents, changed, failed, started_at, finished_at)
		VALUES (:run_id, :corpus, :kind, :root, :tiers, :documents, :changed, :failed, :started_at, :finished_at)`, row); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}

	byTier := map[string][]Digest{}
	for _, tier := range run.Tiers {
		byTier[tier] = nil
	}
	for _, digest := range digests {
		byTier[digest.Tier] = append(byTier[digest.Tier], digest)
	}
	tiers := make([]string, 0, len(byTier))
	for tier := range byTier {
		tiers = append(tiers, tier)
	}
	sort.Strings(tiers)
	for _, tier := range tiers {
		if err = s.replaceTier(ctx, tx, run, tier, byTier[tier]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) replaceTier(ctx context.Context, tx *sqlx.Tx, run Run, tier string, digests []Digest) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM digest_record WHERE corpus = ? AND kind = ? AND tier = ?`), run.Corpus, run.Kind, tier); err != nil {
		return fmt.Errorf("clear %s/%s/%s digests: %w", run.Corpus, run.Kind, tier, err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM digest_tier WHERE corpus = ? AND kind = ? AND tier = ?`), run.Corpus, run.Kind, tier); err != nil {
		return fmt.Errorf("clear %s/%s/%s tier: %w", run.Corpus, run.Kind, tier, err)
	}
	tokens := 0
	for i, digest := range digests {
		digest.RunID = run.ID
		digest.Corpus = run.Corpus
		digest.Kind = run.Kind
		digest.Tier = tier
		digest.Ordinal = i
		tokens += digest.Tokens
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO digest_record (corpus, kind, tier, ordinal, run_id, path, identifier, title, status, content_hash, tokens, failed, body)
			VALUES (:corpus, :kind, :tier, :ordinal, :run_id, :path, :identifier, :title, :status, :content_hash, :tokens, :failed, :body)`, digest); err != nil {
			return fmt.Errorf("save digest %s: %w", digest.Path, err)
		}
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO digest_tier (corpus, kind, tier, run_id, records, tokens) VALUES (?, ?, ?, ?, ?, ?)`),
		run.Corpus, run.Kind, tier, run.ID, len(digests), tokens); err != nil {
		return fmt.Errorf("save %s/%s/%s tier: %w", run.Corpus, run.Kind, tier, err)
	}
	return nil
}

// Corpora returns the corpora holding stored digests of kind and tier
func (s *Store) Corpora(ctx context.Context, kind, tier string) ([]string, error) {
	var corpora []string
	err := s.db.SelectContext(ctx, &corpora, s.db.Rebind(`SELECT corpus FROM digest_tier WHERE kind = ? AND tier = ? ORDER BY corpus`), kind, tier)
	if err != nil {
		return nil, err
	}
	return corpora, nil
}

// resolveCorpus returns corpus, or the only corpus holding kind and tier when corpus is empty
func (s *Store) resolveCorpus(ctx context.Context, corpus, kind, tier string) (string, error) {
	corpora, err := s.Corpora(ctx, kind, tier)
	if err != nil {
		return "", err
	}
	if corpus != "" {
		for _, candidate := range corpora {
			if candidate == corpus {
				return corpus, nil
			}
		}
		return "", fmt.Errorf("%w: %s/%s/%s", ErrNotFound, corpus, kind, tier)
	}
	switch len(corpora) {
	case 0:
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, kind, tier)
	case 1:
		return corpora[0], nil
	}
	return "", fmt.Errorf("%w: %s/%s is stored for corpora %s", ErrAmbiguous, kind, tier, strings.Join(corpora, ", "))
}

// Digests returns the stored digests of a corpus tier in artifact order.
// An empty corpus selects the only corpus storing kind and tier.
func (s *Store) Digests(ctx context.Context, corpus, kind, tier string) ([]Digest, error) {
	corpus, err := s.resolveCorpus(ctx, corpus, kind, tier)
	if err != nil {
		return nil, err
	}
	var digests []Digest
	err = s.db.SelectContext(ctx, &digests, s.db.Rebind(`SELECT run_id, corpus, kind, tier, ordinal, path, identifier, title, status, content_hash, tokens, failed, body
		FROM digest_record WHERE corpus = ? AND kind = ? AND tier = ? ORDER BY ordinal`), corpus, kind, tier)
	if err != nil {
		return nil, err
	}
	return digests, nil
}

// Artifact rebuilds the artifact text of a corpus tier from stored digests
func (s *Store) Artifact(ctx context.Context, corpus, kind, tier string) (string, error) {
	digests, err := s.Digests(ctx, corpus, kind, tier)
	if err != nil {
		return "", err
	}
	bodies := make([]string, 0, len(digests))
	for _, digest := range digests {
		bodies = append(bodies, digest.Body)
	}
	return strings.Join(bodies, "\n\n"), nil
}

// Digest returns the stored digest of proposal id at tier
func (s *Store) Digest(ctx context.Context, corpus, kind, tier, id string) (*Digest, error) {
	corpus, err := s.resolveCorpus(ctx, corpus, kind, tier)
	if err != nil {
		return nil, err
	}
	var digest Digest
	err = s.db.GetContext(ctx, &digest, s.db.Rebind(`SELECT run_id, corpus, kind, tier, ordinal, path, identifier, title, status, content_hash, tokens, failed, body
		FROM digest_record WHERE corpus = ? AND kind = ? AND tier = ? AND identifier = ? ORDER BY ordinal LIMIT 1`), corpus, kind, tier, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s/%s/%s", ErrNotFound, corpus, kind, tier, id)
		}
		return nil, err
	}
	return &digest, nil
}

// Runs returns the most recent runs first
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []runRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`SELECT run_id, corpus, kind, root, tiers, documents, changed, failed, started_at, finished_at
		FROM digest_run ORDER BY started_at DESC, run_id LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	runs := make([]Run, 0, len(rows))
	for _, row := range rows {
		run := Run{
			ID:         row.ID,
			Corpus:     row.Corpus,
			Kind:       row.Kind,
			Root:       row.Root,
			Documents:  row.Documents,
			Changed:    row.Changed,
			Failed:     row.Failed,
			StartedAt:  time.UnixMilli(row.StartedAt).UTC(),
			FinishedAt: time.UnixMilli(row.FinishedAt).UTC(),
		}
		if row.Tiers != "" {
			run.Tiers = strings.Split(row.Tiers, ",")
		}
		runs = append(runs, run)
	}
	return runs, nil
}
