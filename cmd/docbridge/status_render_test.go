package main

import (
	"fmt"
	"strings"
	"testing"

	"docbridge/internal/deps"
	"docbridge/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("markitdown", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "markitdown:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("markitdown", statusOK, "Ready", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestStatusFromCheck(t *testing.T) {
	if statusFromCheck(true) != statusOK || statusFromCheck(false) != statusError {
		t.Fatal("statusFromCheck mapping mismatch")
	}
}

func TestConverterLine(t *testing.T) {
	ready := converterLine(deps.Status{Available: true, Version: "markitdown 0.1.2", Command: "/usr/bin/markitdown"}, false)
	if !strings.Contains(ready, "[OK] Ready (markitdown 0.1.2) command: /usr/bin/markitdown") {
		t.Fatalf("unexpected ready line %q", ready)
	}
	missing := converterLine(deps.Status{}, false)
	if !strings.Contains(missing, "[ERROR] not available") || !strings.Contains(missing, "pip install") {
		t.Fatalf("unexpected missing line %q", missing)
	}
}

func TestCheckLines(t *testing.T) {
	results := []preflight.Result{
		{Name: "Staging directory", Passed: true, Detail: "/tmp/staging"},
		{Name: "Log directory", Passed: false, Detail: "not writable"},
	}
	lines := checkLines(nil, results, deps.Status{}, false)
	if !strings.HasPrefix(lines[0], "== Preflight ==") {
		t.Fatalf("expected section header first, got %q", lines[0])
	}
	if !strings.Contains(lines[2], "[OK] /tmp/staging") {
		t.Fatalf("expected passing check, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "[ERROR] not writable") {
		t.Fatalf("expected failing check, got %q", lines[3])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("truncate long = %q", got)
	}
}
