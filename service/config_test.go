package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/viant/digestius/proposal"
)

const testConfig = `store:
  dsn: ~/digestius/digests.db
corpora:
  ethereum:
    path: ~/EIPS
    type: eip
    output: ./ethereum
    tiers: [short, long]
  ercs:
    path: /data/ERCS
    type: erc
    exclude: ["drafts/"]
    default_exclusions: true
    extensions: [md, rst]
http:
  addr: ":8080"
workers: 4
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	cfg, err := LoadConfig(writeConfig(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.DSN != filepath.Join(home, "digestius/digests.db") {
		t.Fatalf("dsn not expanded: %s", cfg.Store.DSN)
	}
	if cfg.Corpora["ethereum"].Path != filepath.Join(home, "EIPS") {
		t.Fatalf("path not expanded: %s", cfg.Corpora["ethereum"].Path)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.Workers != 4 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestResolveCorpora(t *testing.T) {
	path := writeConfig(t)
	specs, _, err := ResolveCorpora(ResolveCorporaRequest{ConfigPath: path, All: true})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(specs) != 2 || specs[0].Name != "ercs" || specs[1].Name != "ethereum" {
		t.Fatalf("unexpected specs: %+v", specs)
	}
	if specs[0].Kind != proposal.KindDerived || len(specs[0].Tiers) != 3 || specs[0].Exclude[0] != "drafts/" || !specs[0].DefaultExclusions || len(specs[0].Extensions) != 2 {
		t.Fatalf("unexpected ercs spec: %+v", specs[0])
	}
	if len(specs[1].Tiers) != 2 || specs[1].Tiers[1].Name != "long" || specs[1].DefaultExclusions {
		t.Fatalf("unexpected tiers: %+v", specs[1].Tiers)
	}

	specs, _, err = ResolveCorpora(ResolveCorporaRequest{ConfigPath: path, Corpus: "ethereum", Output: "/tmp/out", Tiers: []string{"medium"}})
	if err != nil {
		t.Fatalf("resolve one: %v", err)
	}
	if specs[0].Output != "/tmp/out" || specs[0].Tiers[0].Name != "medium" {
		t.Fatalf("flags should override config: %+v", specs[0])
	}

	if _, _, err = ResolveCorpora(ResolveCorporaRequest{ConfigPath: path, Corpus: "missing"}); err == nil {
		t.Fatalf("expected missing corpus error")
	}
	if _, _, err = ResolveCorpora(ResolveCorporaRequest{All: true}); err == nil {
		t.Fatalf("expected --all without config error")
	}
}

func TestResolveCorpora_Flags(t *testing.T) {
	specs, cfg, err := ResolveCorpora(ResolveCorporaRequest{Path: "./EIPS", Type: "erc", Output: "./out"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg != nil || specs[0].Name != "erc" || specs[0].Kind != proposal.KindDerived {
		t.Fatalf("unexpected spec: %+v", specs[0])
	}
	if _, _, err := ResolveCorpora(ResolveCorporaRequest{Path: "./EIPS", Type: "bip"}); err == nil {
		t.Fatalf("expected unsupported type error")
	}
	if _, _, err := ResolveCorpora(ResolveCorporaRequest{Type: "eip"}); err == nil {
		t.Fatalf("expected missing path error")
	}
	if _, _, err := ResolveCorpora(ResolveCorporaRequest{Path: "./EIPS", Type: "eip", Tiers: []string{"huge"}}); err == nil {
		t.Fatalf("expected unknown tier error")
	}
}

func TestParseCSV(t *testing.T) {
	got := ParseCSV(" short, ,long ")
	if len(got) != 2 || got[0] != "short" || got[1] != "long" {
		t.Fatalf("unexpected: %v", got)
	}
	if ParseCSV("") != nil {
		t.Fatalf("expected nil")
	}
}
