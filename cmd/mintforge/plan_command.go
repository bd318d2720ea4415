package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mintforge/internal/assets"
	"mintforge/internal/config"
	"mintforge/internal/correlate"
	"mintforge/internal/manifest"
)

// batchInput is a loaded drop directory ready for execution.
type batchInput struct {
	bundle assets.Bundle
	rows   []manifest.Row
	plan   correlate.Result
}

func loadBatchInput(cfg *config.Config, dir, manifestPath string) (*batchInput, error) {
	dir, err := config.ExpandPath(strings.TrimSpace(dir))
	if err != nil {
		return nil, fmt.Errorf("resolve asset directory: %w", err)
	}
	if manifestPath != "" {
		if manifestPath, err = config.ExpandPath(manifestPath); err != nil {
			return nil, fmt.Errorf("resolve manifest path: %w", err)
		}
	}
	bundle, err := assets.LoadDir(dir, manifestPath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(bundle.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	rows, err := manifest.Read(file, manifest.Options{Encoding: cfg.Manifest.Encoding})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", bundle.ManifestPath, err)
	}
	return &batchInput{
		bundle: bundle,
		rows:   rows,
		plan:   correlate.Correlate(rows, bundle.Files),
	}, nil
}

type planRow struct {
	Row   int    `json:"row"`
	Name  string `json:"name"`
	Asset string `json:"asset,omitempty"`
	Rule  string `json:"rule,omitempty"`
}

type planView struct {
	Manifest     string    `json:"manifest"`
	Rows         int       `json:"rows"`
	Matched      []planRow `json:"matched"`
	Unmatched    []planRow `json:"unmatched"`
	UnusedAssets []string  `json:"unused_assets"`
	NonImages    []string  `json:"non_image_assets,omitempty"`
}

func buildPlanView(in *batchInput) planView {
	view := planView{
		Manifest:     in.bundle.ManifestPath,
		Rows:         len(in.rows),
		Matched:      make([]planRow, 0, len(in.plan.Pairs)),
		Unmatched:    make([]planRow, 0, len(in.plan.Unmatched)),
		UnusedAssets: []string{},
	}
	for _, pair := range in.plan.Pairs {
		view.Matched = append(view.Matched, planRow{
			Row:   pair.Row.Index,
			Name:  pair.Row.Label(),
			Asset: pair.Asset.Name,
			Rule:  string(pair.Rule),
		})
	}
	for _, row := range in.plan.Unmatched {
		view.Unmatched = append(view.Unmatched, planRow{Row: row.Index, Name: row.Label()})
	}
	for _, f := range in.plan.UnusedAssets(in.bundle.Files) {
		view.UnusedAssets = append(view.UnusedAssets, f.Name)
	}
	for _, f := range in.bundle.Files {
		if !f.IsImage() {
			view.NonImages = append(view.NonImages, f.Name)
		}
	}
	return view
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var manifestPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "plan <asset-dir>",
		Short: "Show how manifest rows pair with assets without minting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			in, err := loadBatchInput(cfg, args[0], manifestPath)
			if err != nil {
				return err
			}
			view := buildPlanView(in)
			if jsonOutput {
				return writeJSON(cmd, view)
			}
			printPlan(cmd, view)
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Manifest CSV (defaults to the only .csv in the directory)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func printPlan(cmd *cobra.Command, view planView) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	rows := make([][]string, 0, len(view.Matched)+len(view.Unmatched))
	for _, r := range view.Matched {
		rows = append(rows, []string{strconv.Itoa(r.Row), r.Name, r.Asset, r.Rule})
	}
	for _, r := range view.Unmatched {
		rows = append(rows, []string{strconv.Itoa(r.Row), r.Name, "(no match)", "skipped"})
	}
	sortPlanRows(rows)
	fmt.Fprintln(out, renderTable([]string{"Row", "Name", "Asset", "Rule"}, rows, []columnAlignment{alignRight}))

	fmt.Fprintln(out, renderStatusLine("Matched", statusOK, fmt.Sprintf("%d of %d rows", len(view.Matched), view.Rows), colorize))
	if len(view.Unmatched) > 0 {
		fmt.Fprintln(out, renderStatusLine("Skipped", statusWarn, fmt.Sprintf("%d rows have no matching image", len(view.Unmatched)), colorize))
	}
	if len(view.UnusedAssets) > 0 {
		fmt.Fprintln(out, renderStatusLine("Unused", statusWarn, strings.Join(view.UnusedAssets, ", "), colorize))
	}
	if len(view.NonImages) > 0 {
		fmt.Fprintln(out, renderStatusLine("Ignored", statusInfo, strings.Join(view.NonImages, ", "), colorize))
	}
}

func sortPlanRows(rows [][]string) {
	slices.SortStableFunc(rows, func(a, b []string) int {
		return rowNumber(a) - rowNumber(b)
	})
}

func rowNumber(row []string) int {
	n, _ := strconv.Atoi(row[0])
	return n
}
