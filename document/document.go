package document

// Document is a proposal file read from a corpus. It is immutable once read.
type Document struct {
	Path    string // Corpus relative path
	Content string
}
