// Package summary renders the fixed-format digest record of a proposal.
//
// A record is a header block (identifier, title, type and category, status,
// created date, requires) followed by one block per non-empty section, in the
// order SUMMARY, SPECIFICATION, MOTIVATION, RATIONALE. Each section gets a
// quarter of the tier budget regardless of how many sections are present.
package summary
