package document

// Entry represents a read document with its change detection state
type Entry struct {
	ID       string    // Corpus relative path
	Hash     uint64    // Hash of the content for change detection
	Document *Document // Nil when reading failed
	Err      error     // Read failure, reported once per tier
}

// Failed reports whether the document could not be read.
func (e *Entry) Failed() bool {
	return e.Err != nil || e.Document == nil
}
