// Package corpus walks a proposal corpus and aggregates per tier digests.
//
// Candidates are text documents whose file name contains the proposal kind
// marker. Each candidate is read once and reused by every tier; documents
// with status "moved" are skipped, failed documents become error records,
// and records keep corpus discovery order (sorted relative path) even when
// a tier is summarized by several workers.
package corpus
