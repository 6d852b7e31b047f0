package summary

import "fmt"

// Record is the digest of one document at one tier.
type Record struct {
	Path       string
	Identifier string
	Title      string
	Status     string
	Text       string
	Tokens     int   // Estimated tokens across truncated sections
	Err        error // Set for error placeholder records
}

// Failed reports whether the record is an error placeholder
func (r *Record) Failed() bool {
	return r.Err != nil
}

// ErrorRecord creates the placeholder emitted in place of a failed digest.
func ErrorRecord(path, identifier string, err error) *Record {
	if identifier == "" {
		identifier = unknown
	}
	return &Record{
		Path:       path,
		Identifier: identifier,
		Text:       fmt.Sprintf("ERROR processing %s: %v\n", identifier, err),
		Err:        err,
	}
}
