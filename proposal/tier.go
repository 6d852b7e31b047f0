package proposal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTier is returned when a tier name is not one of short, medium, long.
var ErrUnknownTier = errors.New("unknown tier")

// Tier is a named approximate-token budget.
type Tier struct {
	Name      string
	MaxTokens int
}

var tiers = []Tier{
	{Name: "short", MaxTokens: 128},
	{Name: "medium", MaxTokens: 256},
	{Name: "long", MaxTokens: 512},
}

// Tiers returns all tiers in processing order.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// TierByName returns the tier with the given (case-insensitive) name.
func TierByName(name string) (Tier, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range tiers {
		if t.Name == name {
			return t, nil
		}
	}
	return Tier{}, fmt.Errorf("%w: %q", ErrUnknownTier, name)
}

// ParseTiers resolves a tier selection. The result keeps the fixed tier
// order regardless of input order; an empty selection means all tiers.
func ParseTiers(names []string) ([]Tier, error) {
	if len(names) == 0 {
		return Tiers(), nil
	}
	selected := map[string]bool{}
	for _, name := range names {
		t, err := TierByName(name)
		if err != nil {
			return nil, err
		}
		selected[t.Name] = true
	}
	var out []Tier
	for _, t := range tiers {
		if selected[t.Name] {
			out = append(out, t)
		}
	}
	return out, nil
}
