package main

import (
	"fmt"
	"strings"
	"testing"

	"mintforge/internal/batch"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Minted", statusError, "0 of 3", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Minted:", "[ERROR] 0 of 3")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Minted", statusOK, "3 of 3", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestProgressLineMarksNewFailures(t *testing.T) {
	ok := progressLine(batch.Progress{Current: 1, Total: 2, Stage: batch.StageDone, Status: "Minted A (1/2)"}, 0, false)
	if !strings.Contains(ok, "[OK] Minted A (1/2)") || !strings.Contains(ok, "1/2:") {
		t.Fatalf("unexpected ok line %q", ok)
	}
	failed := progressLine(batch.Progress{Current: 2, Total: 2, Stage: batch.StageDone, Failed: 1, Status: "Failed B (2/2): mint_failed"}, 0, false)
	if !strings.Contains(failed, "[ERROR]") {
		t.Fatalf("expected error line, got %q", failed)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader("Batch x", false)
	if lines[0] != "== Batch x ==" || lines[1] != strings.Repeat("-", len(lines[0])) {
		t.Fatalf("unexpected header %q", lines)
	}
}
