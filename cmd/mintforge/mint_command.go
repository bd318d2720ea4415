package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mintforge/internal/batch"
	"mintforge/internal/mintlock"
	"mintforge/internal/notifications"
)

func newMintCommand(ctx *commandContext) *cobra.Command {
	var (
		collection   batch.CollectionRef
		manifestPath string
		reportPath   string
		retryPath    string
		workers      int
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "mint <asset-dir>",
		Short: "Mint every manifest row in a drop directory",
		Long: "Pairs each manifest row with an image in <asset-dir> and pushes the items\n" +
			"through upload, mint, and record one at a time. Failed items do not stop the\n" +
			"batch; use --retry-manifest to collect them for another run.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if err := collection.Validate(); err != nil {
				return err
			}

			in, err := loadBatchInput(cfg, args[0], manifestPath)
			if err != nil {
				return err
			}
			lock, err := mintlock.Acquire(cfg.LockDir(), collection.ChainID, collection.ContractAddress)
			if err != nil {
				return err
			}
			defer lock.Release()

			svc, closeServices, err := buildServices(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeServices()

			opts := batch.OptionsFromConfig(cfg)
			if workers > 0 {
				opts.Workers = workers
			}
			opts.Logger = logger
			opts.Notifier = notifications.NewService(cfg)
			if !jsonOutput {
				opts.Observer = progressPrinter(cmd)
			}

			executor, err := batch.NewExecutor(svc, opts)
			if err != nil {
				return err
			}
			summary, runErr := executor.Run(cmd.Context(), collection, in.plan)
			if summary == nil {
				return runErr
			}

			if reportPath != "" {
				if err := writeReport(reportPath, summary); err != nil {
					return err
				}
			}
			retry := retryRows(in, collection, summary)
			if retryPath != "" && len(retry) > 0 {
				if err := writeRetryManifest(retryPath, retry); err != nil {
					return err
				}
			}

			if jsonOutput {
				if err := writeJSON(cmd, summary); err != nil {
					return err
				}
			} else {
				printSummary(cmd, summary, retryPath, len(retry))
			}

			if runErr != nil {
				return runErr
			}
			if summary.Attempted == 0 && summary.Skipped > 0 {
				return errors.New("no manifest rows matched an image; nothing to mint (run `mintforge plan` to inspect)")
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d items failed", summary.Failed, summary.Attempted)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&collection.ID, "collection-id", "", "Collection identifier used by the record service")
	flags.StringVar(&collection.Name, "collection-name", "", "Collection display name (used for unnamed rows)")
	flags.Int64Var(&collection.ChainID, "chain-id", 0, "Chain id of the deployed contract")
	flags.StringVar(&collection.ContractAddress, "contract", "", "Deployed contract address")
	flags.StringVar(&collection.OwnerAddress, "owner", "", "Owner address recorded with each token")
	flags.StringVarP(&manifestPath, "manifest", "m", "", "Manifest CSV (defaults to the only .csv in the directory)")
	flags.StringVar(&reportPath, "report", "", "Write the JSON summary to this path")
	flags.StringVar(&retryPath, "retry-manifest", "", "Write failed and skipped rows to this CSV")
	flags.IntVar(&workers, "workers", 0, "Override workflow.workers")
	flags.BoolVar(&jsonOutput, "json", false, "Output the summary as JSON")
	_ = cmd.MarkFlagRequired("collection-id")
	_ = cmd.MarkFlagRequired("chain-id")
	_ = cmd.MarkFlagRequired("contract")
	return cmd
}

func progressPrinter(cmd *cobra.Command) batch.Observer {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	lastFailed := 0
	return func(p batch.Progress) {
		if p.Stage != batch.StageDone {
			return
		}
		fmt.Fprintln(out, progressLine(p, lastFailed, colorize))
		lastFailed = p.Failed
	}
}

func printSummary(cmd *cobra.Command, summary *batch.Summary, retryPath string, retryCount int) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Batch "+summary.BatchID, colorize) {
		fmt.Fprintln(out, line)
	}

	if failures := summary.Failures(); len(failures) > 0 {
		rows := make([][]string, 0, len(failures))
		for _, f := range failures {
			kind := string(f.Kind)
			if f.Orphaned {
				kind += " (orphaned)"
			}
			rows = append(rows, []string{strconv.Itoa(f.RowIndex), f.Name, kind, f.Error, f.TransactionID})
		}
		fmt.Fprintln(out, renderTable([]string{"Row", "Name", "Error", "Detail", "Transaction"}, rows, []columnAlignment{alignRight}))
	}

	mintedKind := statusOK
	if summary.Succeeded == 0 {
		mintedKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Minted", mintedKind, fmt.Sprintf("%d of %d", summary.Succeeded, summary.Total), colorize))
	if summary.Failed > 0 {
		fmt.Fprintln(out, renderStatusLine("Failed", statusError, strconv.Itoa(summary.Failed), colorize))
	}
	if summary.Skipped > 0 {
		fmt.Fprintln(out, renderStatusLine("Skipped", statusWarn, joinInts(summary.SkippedRows), colorize))
	}
	if summary.Orphaned > 0 {
		fmt.Fprintln(out, renderStatusLine("Orphaned", statusError,
			fmt.Sprintf("%d minted without a record; reconcile manually", summary.Orphaned), colorize))
	}
	if summary.Cancelled {
		fmt.Fprintln(out, renderStatusLine("Cancelled", statusWarn,
			fmt.Sprintf("%d items not attempted", summary.Total-summary.Attempted), colorize))
	}
	if retryPath != "" && retryCount > 0 {
		fmt.Fprintln(out, renderStatusLine("Retry", statusInfo, fmt.Sprintf("%d rows written to %s", retryCount, retryPath), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, summary.Duration.Round(time.Millisecond).String(), colorize))
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "rows " + strings.Join(parts, ", ")
}
