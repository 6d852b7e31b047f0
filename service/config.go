package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/scy/cred/secret"
	"gopkg.in/yaml.v3"
)

// Config defines corpus mappings for batch operations.
type Config struct {
	Store       StoreConfig             `yaml:"store"`
	Corpora     map[string]CorpusConfig `yaml:"corpora"`
	HTTP        HTTPConfig              `yaml:"http"`
	Workers     int                     `yaml:"workers"`
	MetricsFile string                  `yaml:"metricsFile"`
}

// StoreConfig defines digest store settings.
type StoreConfig struct {
	DSN    string `yaml:"dsn"`
	Driver string `yaml:"driver"`
	Secret string `yaml:"secret,omitempty"`
}

// CorpusConfig defines per-corpus settings.
type CorpusConfig struct {
	Path         string   `yaml:"path"`
	Type         string   `yaml:"type"`
	Output       string   `yaml:"output"`
	Tiers        []string `yaml:"tiers"`
	Include      []string `yaml:"include"`
	Exclude      []string `yaml:"exclude"`
	MaxSizeBytes int64    `yaml:"max_size_bytes"`
	Extensions   []string `yaml:"extensions"`
	// DefaultExclusions skips .git/, vendor/, node_modules/ and similar trees.
	DefaultExclusions bool `yaml:"default_exclusions"`
}

// HTTPConfig defines digest API settings.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LoadConfig reads a yaml config, expanding ~ paths and store secrets.
func LoadConfig(path string) (*Config, error) {
	path, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Store.DSN != "" {
		if cfg.Store.DSN, err = expandStoreDSN(cfg.Store.DSN, cfg.Store.Driver); err != nil {
			return nil, err
		}
	}
	if cfg.Store.Secret != "" {
		if cfg.Store.DSN, err = ExpandDSNWithSecret(context.Background(), cfg.Store.DSN, cfg.Store.Secret); err != nil {
			return nil, err
		}
	}
	for name, c := range cfg.Corpora {
		if c.Path, err = expandUserPath(c.Path); err != nil {
			return nil, err
		}
		if c.Output, err = expandUserPath(c.Output); err != nil {
			return nil, err
		}
		cfg.Corpora[name] = c
	}
	if cfg.MetricsFile, err = expandUserPath(cfg.MetricsFile); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func expandUserPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed[0] != '~' {
		if strings.HasPrefix(trimmed, "file://~") {
			expanded, err := expandUserPath(strings.TrimPrefix(trimmed, "file://"))
			if err != nil {
				return "", err
			}
			return "file://" + filepath.ToSlash(expanded), nil
		}
		return path, nil
	}
	if trimmed != "~" && !strings.HasPrefix(trimmed, "~/") {
		return "", fmt.Errorf("config: unsupported ~user path: %s", path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if trimmed == "~" {
		return home, nil
	}
	return filepath.Join(home, trimmed[2:]), nil
}

func expandStoreDSN(dsn, driver string) (string, error) {
	if dsn == "" {
		return dsn, nil
	}
	// Expand user path only for sqlite-like DSNs or plain paths.
	if driver == "sqlite" || dsn[0] == '~' || dsn[0] == '/' || strings.HasPrefix(dsn, "file:") {
		return expandUserPath(dsn)
	}
	return dsn, nil
}

// ExpandDSNWithSecret loads a secret and expands placeholders in the DSN.
func ExpandDSNWithSecret(ctx context.Context, dsn, secretRef string) (string, error) {
	secretRef = strings.TrimSpace(secretRef)
	if secretRef == "" {
		return dsn, nil
	}
	if strings.TrimSpace(dsn) == "" {
		return "", fmt.Errorf("secret %q provided but dsn is empty", secretRef)
	}
	svc := secret.New()
	sec, err := svc.Lookup(ctx, secret.Resource(secretRef))
	if err != nil {
		return "", err
	}
	return sec.Expand(dsn), nil
}
