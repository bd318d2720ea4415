package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"mintforge/internal/records"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect the local record store",
	}
	recordsCmd.AddCommand(newRecordsListCommand(ctx))
	return recordsCmd
}

func newRecordsListCommand(ctx *commandContext) *cobra.Command {
	var filter records.Filter
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List minted records saved by the sqlite backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.RecordsDBPath()
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				if jsonOutput {
					return writeJSON(cmd, []records.Record{})
				}
				fmt.Fprintln(cmd.OutOrStdout(), "No local records (set records.backend = \"sqlite\" to keep them)")
				return nil
			}

			store, err := records.OpenPath(path)
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if jsonOutput {
				if list == nil {
					list = []records.Record{}
				}
				return writeJSON(cmd, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No records match")
				return nil
			}

			rows := make([][]string, 0, len(list))
			for _, rec := range list {
				rows = append(rows, []string{
					rec.CreatedAt.Local().Format("2006-01-02 15:04"),
					rec.CollectionID,
					strconv.Itoa(rec.RowIndex),
					rec.Name,
					rec.TransactionID,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Created", "Collection", "Row", "Name", "Transaction"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.CollectionID, "collection", "", "Only records for this collection id")
	cmd.Flags().StringVar(&filter.BatchID, "batch", "", "Only records from this batch id")
	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "Maximum records to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
