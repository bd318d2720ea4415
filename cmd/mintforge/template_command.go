package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mintforge/internal/config"
	"mintforge/internal/manifest"
)

func newTemplateCommand() *cobra.Command {
	var traits []string
	var rows int
	var outputPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "template",
		Short:       "Write a starter manifest CSV",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var buf bytes.Buffer
			if err := manifest.WriteTemplate(&buf, traits, rows); err != nil {
				return err
			}

			target := strings.TrimSpace(outputPath)
			if target == "" || target == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			target, err := config.ExpandPath(target)
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("manifest already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check output path: %w", err)
				}
			}
			if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write template: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote manifest template to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&traits, "trait", nil, "Trait column to include (repeatable; trait_ prefix optional)")
	cmd.Flags().IntVar(&rows, "rows", 3, "Number of sample rows")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (stdout when empty)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	return cmd
}
