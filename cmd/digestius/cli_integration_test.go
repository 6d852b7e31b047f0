package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/viant/digestius/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLIFlow_Summarize(t *testing.T) {
	input := t.TempDir()
	content := "---\neip: 7\ntitle: Seven\nstatus: Final\ncreated: 2015-10-27\nrequires: [1, 2]\n---\n## Abstract\nSeven abstract.\n\n## Motivation\nWhy seven.\n"
	if err := os.WriteFile(filepath.Join(input, "eip-7.md"), []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	output := filepath.Join(t.TempDir(), "ethereum")
	db := filepath.Join(t.TempDir(), "state", "digests.db")

	out, err := execute(t, "summarize", "--type", "eip", "--input", input, "--output", output, "--tiers", "short", "--db", db)
	if err != nil {
		t.Fatalf("summarize: %v\n%s", err, out)
	}
	if !strings.Contains(out, "eip/short summarized=1") {
		t.Fatalf("unexpected output: %s", out)
	}
	data, err := os.ReadFile(filepath.Join(output, "eip_summaries_short.txt"))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	expected := "=== EIP-7 ===\nTITLE: Seven\nTYPE: Unknown \nSTATUS: Final\nCREATED: 2015-10-27\nREQUIRES: 1, 2\n\nSUMMARY:\nSeven abstract.\n\nMOTIVATION:\nWhy seven.\n"
	if string(data) != expected {
		t.Fatalf("artifact mismatch:\n%q\n%q", string(data), expected)
	}
	if _, err := os.Stat(filepath.Join(output, "eip_summaries_long.txt")); !os.IsNotExist(err) {
		t.Fatalf("long tier should not be written")
	}

	st, err := store.Open("", db)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	stored, err := st.Artifact(context.Background(), "", "eip", "short")
	if err != nil {
		t.Fatalf("stored artifact: %v", err)
	}
	if stored != expected {
		t.Fatalf("stored artifact mismatch: %q", stored)
	}
}

func TestCLIFlow_Errors(t *testing.T) {
	if _, err := execute(t, "summarize", "--type", "bip", "--input", t.TempDir()); err == nil {
		t.Fatalf("expected unsupported type error")
	}
	if _, err := execute(t, "summarize", "--type", "eip"); err == nil {
		t.Fatalf("expected missing input error")
	}
	if _, err := execute(t, "serve"); err == nil {
		t.Fatalf("expected missing db error")
	}
}

func TestCLIVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "digestius version "+Version) {
		t.Fatalf("unexpected version output: %s", out)
	}
}
