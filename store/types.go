package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no digest matches a lookup
var ErrNotFound = errors.New("digest not found")

// ErrAmbiguous is returned when a lookup without a corpus matches several corpora
var ErrAmbiguous = errors.New("digest lookup matches several corpora")

// Run describes one summarization pass over a corpus
type Run struct {
	ID         string    `json:"id"`
	Corpus     string    `json:"corpus"`
	Kind       string    `json:"kind"`
	Root       string    `json:"root"`
	Tiers      []string  `json:"tiers"`
	Documents  int       `json:"documents"`
	Changed    int       `json:"changed"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Digest is one stored record of a tier artifact
type Digest struct {
	RunID       string `db:"run_id" json:"runId"`
	Corpus      string `db:"corpus" json:"corpus"`
	Kind        string `db:"kind" json:"kind"`
	Tier        string `db:"tier" json:"tier"`
	Ordinal     int    `db:"ordinal" json:"ordinal"`
	Path        string `db:"path" json:"path"`
	Identifier  string `db:"identifier" json:"identifier"`
	Title       string `db:"title" json:"title"`
	Status      string `db:"status" json:"status"`
	ContentHash string `db:"content_hash" json:"contentHash"`
	Tokens      int    `db:"tokens" json:"tokens"`
	Failed      bool   `db:"failed" json:"failed"`
	Body        string `db:"body" json:"body"`
}

type runRow struct {
	ID         string `db:"run_id"`
	Corpus     string `db:"corpus"`
	Kind       string `db:"kind"`
	Root       string `db:"root"`
	Tiers      string `db:"tiers"`
	Documents  int    `db:"documents"`
	Changed    int    `db:"changed"`
	Failed     int    `db:"failed"`
	StartedAt  int64  `db:"started_at"`
	FinishedAt int64  `db:"finished_at"`
}
