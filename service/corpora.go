package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/viant/digestius/proposal"
)

// ParseCSV splits comma-separated values into a slice.
func ParseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ResolveCorpora resolves corpus specs from flags or a config file.
// Flag values override config values when both are set.
func ResolveCorpora(req ResolveCorporaRequest) ([]CorpusSpec, *Config, error) {
	if req.All && req.ConfigPath == "" {
		return nil, nil, fmt.Errorf("--all requires --config")
	}
	if req.ConfigPath != "" {
		cfg, err := LoadConfig(req.ConfigPath)
		if err != nil {
			return nil, nil, err
		}
		var names []string
		if req.All {
			for name, c := range cfg.Corpora {
				if strings.TrimSpace(name) == "" || strings.TrimSpace(c.Path) == "" {
					continue
				}
				names = append(names, name)
			}
			sort.Strings(names)
			if len(names) == 0 {
				return nil, nil, fmt.Errorf("config has no corpora")
			}
		} else {
			if req.Corpus == "" {
				return nil, nil, fmt.Errorf("corpus is required without --all")
			}
			if c, ok := cfg.Corpora[req.Corpus]; !ok || strings.TrimSpace(c.Path) == "" {
				return nil, nil, fmt.Errorf("corpus %q not found in config", req.Corpus)
			}
			names = []string{req.Corpus}
		}
		var out []CorpusSpec
		for _, name := range names {
			c := cfg.Corpora[name]
			spec, err := newCorpusSpec(name, override(req.Path, c.Path, req.All), override(req.Type, c.Type, false),
				override(req.Output, c.Output, req.All), overrideList(req.Tiers, c.Tiers))
			if err != nil {
				return nil, nil, err
			}
			spec.Include = overrideList(req.Include, c.Include)
			spec.Exclude = overrideList(req.Exclude, c.Exclude)
			spec.MaxSizeBytes = c.MaxSizeBytes
			spec.Extensions = overrideList(req.Extensions, c.Extensions)
			spec.DefaultExclusions = c.DefaultExclusions || req.DefaultExclusions
			if req.MaxSizeBytes > 0 {
				spec.MaxSizeBytes = req.MaxSizeBytes
			}
			out = append(out, spec)
		}
		return out, cfg, nil
	}
	if strings.TrimSpace(req.Path) == "" {
		return nil, nil, fmt.Errorf("input path is required")
	}
	name := req.Corpus
	if name == "" {
		name = req.Type
	}
	spec, err := newCorpusSpec(name, req.Path, req.Type, req.Output, req.Tiers)
	if err != nil {
		return nil, nil, err
	}
	spec.Include = req.Include
	spec.Exclude = req.Exclude
	spec.MaxSizeBytes = req.MaxSizeBytes
	spec.Extensions = req.Extensions
	spec.DefaultExclusions = req.DefaultExclusions
	return []CorpusSpec{spec}, nil, nil
}

func newCorpusSpec(name, path, kindName, output string, tierNames []string) (CorpusSpec, error) {
	kind, err := proposal.ParseKind(kindName)
	if err != nil {
		return CorpusSpec{}, fmt.Errorf("corpus %q: %w", name, err)
	}
	tiers, err := proposal.ParseTiers(tierNames)
	if err != nil {
		return CorpusSpec{}, fmt.Errorf("corpus %q: %w", name, err)
	}
	if name == "" {
		name = kind.String()
	}
	return CorpusSpec{Name: name, Path: path, Kind: kind, Output: output, Tiers: tiers}, nil
}

// override prefers the flag value, except for per corpus locations when all corpora are selected.
func override(flag, configured string, perCorpus bool) string {
	if flag != "" && !perCorpus {
		return flag
	}
	return configured
}

func overrideList(flag, configured []string) []string {
	if len(flag) > 0 {
		return flag
	}
	return configured
}
