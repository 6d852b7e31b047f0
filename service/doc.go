// Package service ties corpus processing, digest storage and metrics into
// reusable operations (summarize, watch) so other programs can produce
// proposal digests without shelling out to the CLI.
package service
