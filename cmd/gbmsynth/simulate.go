package main

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gbmsynth/internal/export"
	"gbmsynth/internal/gbm"
)

func newSimulateCmd() *cobra.Command {
	var (
		sf     simFlags
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate one set of GBM paths",
		Long: `Simulate M GBM paths of n steps and write them as csv (rows are time
steps, columns are paths) or jsonl (one JSON array per path).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			paths, err := gbm.SimulateSeed(sf.params, sf.seed)
			if err != nil {
				return err
			}

			if out == "-" {
				return export.WritePaths(cmd.OutOrStdout(), f, paths)
			}
			if err := export.SaveFile(out, f, paths); err != nil {
				return fmt.Errorf("save %s: %w", out, err)
			}
			log.Info().Str("file", out).Int("rows", paths.Rows()).Int("paths", paths.Cols()).Msg("paths written")
			return nil
		},
	}
	sf.bind(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "output format (csv, jsonl)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	var sf simFlags

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Simulate and print terminal statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := gbm.SimulateSeed(sf.params, sf.seed)
			if err != nil {
				return err
			}

			report := struct {
				gbm.Summary
				ExpectedLogRet float64 `json:"expected_log_return"`
			}{gbm.Summarize(paths), sf.params.ExpectedLogReturn()}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	sf.bind(cmd)
	return cmd
}
