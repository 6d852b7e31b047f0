// Package metadata decodes the header block of a proposal document.
//
// A header is a YAML mapping between two --- lines at the very start of the
// document. Decoding never fails from the caller's point of view: Parse
// collapses missing and malformed headers into empty metadata, while Decode
// keeps the distinction for callers that need it.
package metadata
