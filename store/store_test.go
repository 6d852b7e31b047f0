package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", filepath.Join(t.TempDir(), "digests.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Init(context.Background()))
	return s
}

func TestDetectDriver(t *testing.T) {
	cases := []struct {
		dsn    string
		driver string
		ok     bool
	}{
		{dsn: "postgres://u:p@localhost/db", driver: DriverPostgres, ok: true},
		{dsn: "postgresql://localhost/db", driver: DriverPostgres, ok: true},
		{dsn: "mysql://u:p@tcp(localhost:3306)/db", driver: DriverMySQL, ok: true},
		{dsn: "u:p@tcp(localhost:3306)/db", driver: DriverMySQL, ok: true},
		{dsn: "/tmp/digests.db", driver: DriverSQLite, ok: true},
		{dsn: "file:digests.sqlite", driver: DriverSQLite, ok: true},
		{dsn: ":memory:", driver: DriverSQLite, ok: true},
		{dsn: "", ok: false},
		{dsn: "whatever", ok: false},
	}
	for _, tc := range cases {
		driver, ok := DetectDriver(tc.dsn)
		assert.Equal(t, tc.ok, ok, tc.dsn)
		assert.Equal(t, tc.driver, driver, tc.dsn)
	}
}

func TestEnsurePragmas(t *testing.T) {
	assert.Equal(t, "/tmp/a.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", EnsurePragmas("/tmp/a.db", true, 5000))
	assert.Equal(t, "/tmp/a.db?_pragma=busy_timeout(10)&_pragma=journal_mode(WAL)", EnsurePragmas("/tmp/a.db?_pragma=busy_timeout(10)", true, 5000))
	assert.Equal(t, ":memory:", EnsurePragmas(":memory:", true, 5000))
}

func TestOpen_Unsupported(t *testing.T) {
	_, err := Open("", "whatever")
	assert.Error(t, err)
	_, err = Open("oracle", "x.db")
	assert.Error(t, err)
	_, err = Open("", " ")
	assert.Error(t, err)
}

func sampleDigests(tier string, ids ...string) []Digest {
	var out []Digest
	for _, id := range ids {
		out = append(out, Digest{Tier: tier, Path: "eip-" + id + ".md", Identifier: id, Title: "T" + id, Status: "Draft", ContentHash: "00ff", Tokens: 5, Body: "=== EIP-" + id + " ===\n"})
	}
	return out
}

func TestStore_SaveRunAndArtifact(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	run := Run{ID: "r1", Corpus: "ethereum", Kind: "eip", Root: "file:///eips", Tiers: []string{"short", "long"}, Documents: 2, StartedAt: started, FinishedAt: started.Add(time.Second)}
	digests := append(sampleDigests("short", "2", "1"), sampleDigests("long", "2", "1")...)
	digests[1].Failed = true
	require.NoError(t, s.SaveRun(ctx, run, digests))

	text, err := s.Artifact(ctx, "ethereum", "eip", "short")
	require.NoError(t, err)
	assert.Equal(t, "=== EIP-2 ===\n\n\n=== EIP-1 ===\n", text)

	digest, err := s.Digest(ctx, "", "eip", "short", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, digest.Ordinal)
	assert.True(t, digest.Failed)
	assert.Equal(t, "r1", digest.RunID)
	assert.Equal(t, "ethereum", digest.Corpus)

	_, err = s.Digest(ctx, "ethereum", "eip", "short", "404")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Artifact(ctx, "", "eip", "medium")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Artifact(ctx, "", "erc", "short")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Artifact(ctx, "archive", "eip", "short")
	assert.ErrorIs(t, err, ErrNotFound)

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, []string{"short", "long"}, runs[0].Tiers)
	assert.Equal(t, started, runs[0].StartedAt)
}

func TestStore_SaveRun_ReplacesTier(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	now := time.Now()
	require.NoError(t, s.SaveRun(ctx, Run{ID: "r1", Kind: "eip", Tiers: []string{"short"}, StartedAt: now, FinishedAt: now}, sampleDigests("short", "1", "2", "3")))
	require.NoError(t, s.SaveRun(ctx, Run{ID: "r2", Kind: "eip", Tiers: []string{"short"}, StartedAt: now.Add(time.Minute), FinishedAt: now.Add(time.Minute)}, sampleDigests("short", "4")))

	digests, err := s.Digests(ctx, "", "eip", "short")
	require.NoError(t, err)
	require.Len(t, digests, 1)
	assert.Equal(t, "4", digests[0].Identifier)
	assert.Equal(t, "r2", digests[0].RunID)

	runs, err := s.Runs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "r2", runs[0].ID)
}

func TestStore_SaveRun_EmptyTier(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	now := time.Now()
	require.NoError(t, s.SaveRun(ctx, Run{ID: "r1", Kind: "erc", Tiers: []string{"medium"}, StartedAt: now, FinishedAt: now}, nil))
	text, err := s.Artifact(ctx, "", "erc", "medium")
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestStore_SaveRun_DuplicateRunRollsBack(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	now := time.Now()
	require.NoError(t, s.SaveRun(ctx, Run{ID: "r1", Kind: "eip", Tiers: []string{"short"}, StartedAt: now, FinishedAt: now}, sampleDigests("short", "1")))
	err := s.SaveRun(ctx, Run{ID: "r1", Kind: "eip", Tiers: []string{"short"}, StartedAt: now, FinishedAt: now}, sampleDigests("short", "2", "3"))
	require.Error(t, err)
	digests, err := s.Digests(ctx, "", "eip", "short")
	require.NoError(t, err)
	require.Len(t, digests, 1)
	assert.Equal(t, "1", digests[0].Identifier)
}

func TestStore_SaveRun_CorporaOfSameKind(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	now := time.Now()
	require.NoError(t, s.SaveRun(ctx, Run{ID: "r1", Corpus: "main", Kind: "eip", Tiers: []string{"short"}, StartedAt: now, FinishedAt: now}, sampleDigests("short", "1", "2")))
	require.NoError(t, s.SaveRun(ctx, Run{ID: "r2", Corpus: "archive", Kind: "eip", Tiers: []string{"short"}, StartedAt: now, FinishedAt: now}, sampleDigests("short", "3")))

	text, err := s.Artifact(ctx, "main", "eip", "short")
	require.NoError(t, err)
	assert.Equal(t, "=== EIP-1 ===\n\n\n=== EIP-2 ===\n", text)
	text, err = s.Artifact(ctx, "archive", "eip", "short")
	require.NoError(t, err)
	assert.Equal(t, "=== EIP-3 ===\n", text)

	digest, err := s.Digest(ctx, "main", "eip", "short", "1")
	require.NoError(t, err)
	assert.Equal(t, "r1", digest.RunID)
	_, err = s.Digest(ctx, "archive", "eip", "short", "1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Artifact(ctx, "", "eip", "short")
	assert.ErrorIs(t, err, ErrAmbiguous)
	_, err = s.Digest(ctx, "", "eip", "short", "1")
	assert.ErrorIs(t, err, ErrAmbiguous)

	corpora, err := s.Corpora(ctx, "eip", "short")
	require.NoError(t, err)
	assert.Equal(t, []string{"archive", "main"}, corpora)
}
