package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseReadArgsBasic(t *testing.T) {
	var stderr bytes.Buffer
	ra, err := parseReadArgs([]string{"--offset", "3", "--limit", "10", "f.txt"}, &stderr)
	if err != nil {
		t.Fatalf("parseReadArgs error: %v", err)
	}
	if ra.path != "f.txt" || ra.offset != 3 || ra.limit != 10 {
		t.Fatalf("unexpected readArgs: %+v", ra)
	}
}

func TestParseReadArgsMissingPath(t *testing.T) {
	var stderr bytes.Buffer
	if _, err := parseReadArgs([]string{"--offset", "3"}, &stderr); err == nil {
		t.Fatal("expected error for missing <path>")
	}
}

func TestParseEditArgsRequiresOneSource(t *testing.T) {
	var stderr bytes.Buffer
	if _, err := parseEditArgs([]string{"f.txt"}, &stderr); err == nil {
		t.Fatal("expected error when neither --edits nor --edits-stdin is given")
	}
}

func TestParseEditArgsRejectsBothSources(t *testing.T) {
	var stderr bytes.Buffer
	if _, err := parseEditArgs([]string{"--edits", "[]", "--edits-stdin", "f.txt"}, &stderr); err == nil {
		t.Fatal("expected error when both --edits and --edits-stdin are given")
	}
}

func TestParseEditArgsBasic(t *testing.T) {
	var stderr bytes.Buffer
	ea, err := parseEditArgs([]string{"--edits", `[{"op":"append","lines":["x"]}]`, "--dry-run", "--json", "f.txt"}, &stderr)
	if err != nil {
		t.Fatalf("parseEditArgs error: %v", err)
	}
	if ea.path != "f.txt" || !ea.dryRun || !ea.jsonOut || ea.fromStdin {
		t.Fatalf("unexpected editArgs: %+v", ea)
	}
}

func TestErrKindNames(t *testing.T) {
	if errKind(nil) != "unexpected" {
		t.Fatalf("expected nil error to map to \"unexpected\", got %q", errKind(nil))
	}
}

func TestRunReadEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("a\nb\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	var stdout, stderr bytes.Buffer
	code := run([]string{"read", path}, nil, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), ":a\n") || !strings.Contains(stdout.String(), ":b\n") {
		t.Fatalf("unexpected read output: %q", stdout.String())
	}
}

func TestRunEditEndToEndAndExitCode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("a\nb\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	var stdout, stderr bytes.Buffer
	code := run([]string{"edit", path, "--edits", `[{"op":"append","lines":["c"]}]`}, nil, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Edit applied successfully") {
		t.Fatalf("unexpected message: %q", stdout.String())
	}
	got, _ := os.ReadFile(path)
	if string(got) != "a\nb\nc\n" {
		t.Fatalf("unexpected file contents: %q", got)
	}
}

func TestRunEditHashMismatchExitsThree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("a\nb\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	var stdout, stderr bytes.Buffer
	code := run([]string{"edit", path, "--edits", `[{"op":"replace","pos":"1#ZZ","lines":["X"]}]`}, nil, &stdout, &stderr)
	if code != 3 {
		t.Fatalf("expected exit 3, got %d", code)
	}
	if !strings.Contains(stderr.String(), "ERROR(hash-mismatch):") {
		t.Fatalf("expected a hash-mismatch prefix, got %q", stderr.String())
	}
}

func TestRunUnknownCommandExitsTwo(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"bogus"}, nil, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
}
