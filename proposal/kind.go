package proposal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedKind is returned for proposal types other than primary and derived.
var ErrUnsupportedKind = errors.New("unsupported proposal type")

// Kind selects a proposal family. The derived family shares the primary
// numbering space, so its documents may only carry the primary id field.
type Kind int

const (
	KindUnknown Kind = iota
	// KindPrimary are core proposals (EIP).
	KindPrimary
	// KindDerived are application level proposals split off the primary family (ERC).
	KindDerived
)

type kindInfo struct {
	name     string
	marker   string
	idField  string
	fallback string
	prefix   string
}

var kinds = map[Kind]kindInfo{
	KindPrimary: {name: "eip", marker: "eip-", idField: "eip", prefix: "EIP"},
	KindDerived: {name: "erc", marker: "erc-", idField: "erc", fallback: "eip", prefix: "ERC"},
}

// ParseKind resolves a proposal type selector, accepting both the family
// name (eip, erc) and the role name (primary, derived).
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "eip", "primary":
		return KindPrimary, nil
	case "erc", "derived":
		return KindDerived, nil
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnsupportedKind, value)
}

// String returns the family name used in artifact names.
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return "unknown"
}

// Marker returns the lower-case file name substring identifying candidate documents.
func (k Kind) Marker() string {
	return kinds[k].marker
}

// IDField returns the type-specific identifier field.
func (k Kind) IDField() string {
	return kinds[k].idField
}

// FallbackIDField returns the field aliased into IDField when that one is absent.
func (k Kind) FallbackIDField() string {
	return kinds[k].fallback
}

// Prefix returns the record header prefix.
func (k Kind) Prefix() string {
	return kinds[k].prefix
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}
