package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mintforge/internal/assets"
	"mintforge/internal/batch"
	"mintforge/internal/config"
	"mintforge/internal/manifest"
	"mintforge/internal/metadata"
)

func writeReport(path string, summary *batch.Summary) error {
	path, err := config.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("resolve report path: %w", err)
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// retryRows returns the manifest rows that did not mint: failures, rows
// without an asset, and rows a cancelled run never reached. Orphaned mints are
// excluded since their tokens exist.
//
// Rows keep their original data but are renumbered when the retry manifest is
// read back, so each one is pinned to the asset it was paired with and, when
// its name came from the collection fallback, to that name.
func retryRows(in *batchInput, collection batch.CollectionRef, summary *batch.Summary) []manifest.Row {
	retry := make(map[int]bool)
	for _, r := range summary.Failures() {
		if !r.Orphaned {
			retry[r.RowIndex] = true
		}
	}
	for _, idx := range summary.SkippedRows {
		retry[idx] = true
	}
	attempted := make(map[int]bool, len(summary.Results))
	for _, r := range summary.Results {
		attempted[r.RowIndex] = true
	}
	paired := make(map[int]assets.File, len(in.plan.Pairs))
	for _, pair := range in.plan.Pairs {
		paired[pair.Row.Index] = pair.Asset
	}

	var out []manifest.Row
	for _, row := range in.rows {
		asset, matched := paired[row.Index]
		// Rows never reached because the run was cancelled.
		unreached := summary.Cancelled && matched && !attempted[row.Index]
		if !retry[row.Index] && !unreached {
			continue
		}
		out = append(out, pinRow(row, asset, matched, collection.Name))
	}
	return out
}

func pinRow(row manifest.Row, asset assets.File, matched bool, collectionName string) manifest.Row {
	pinned := row
	if row.Get(manifest.FieldName) == "" && strings.TrimSpace(collectionName) != "" {
		pinned = pinned.With(manifest.FieldName, metadata.Synthesize(row, asset, collectionName).Name)
	}
	if matched {
		pinned = pinned.With(manifest.FieldFilename, asset.Name)
	}
	return pinned
}

func writeRetryManifest(path string, rows []manifest.Row) error {
	path, err := config.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("resolve retry manifest path: %w", err)
	}
	var buf bytes.Buffer
	if err := manifest.WriteRows(&buf, rows); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create retry manifest directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write retry manifest: %w", err)
	}
	return nil
}
