package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gbmsynth/internal/chunk"
	"gbmsynth/internal/export"
	"gbmsynth/internal/store"
)

func openStore(root string) (*store.Store, error) {
	if root == "" {
		return store.Open()
	}
	return store.New(root), nil
}

func newInitCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty chunk store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStore(root)
			if err != nil {
				return err
			}
			if err := s.Init(); err != nil {
				return err
			}
			log.Info().Str("root", s.Root).Msg("store initialised")
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "directory holding the store (default: working directory)")
	return cmd
}

func newCatCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "cat REF|HASH",
		Short: "Print the samples behind a ref or a chunk object",
		Long: `Print stored samples as "path,timestamp,value" lines.

The argument is first looked up as a ref (for example gbm-3); otherwise it is
treated as an object hash or unique hash prefix and that single chunk is
printed with path 0.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(root)
			if err != nil {
				return err
			}
			if !s.Exists() {
				return fmt.Errorf("no store at %s", s.Root)
			}
			w := cmd.OutOrStdout()

			paths, err := export.ReadRefPaths(s, args[0])
			if err == nil {
				for j, path := range paths {
					for k, v := range path {
						fmt.Fprintf(w, "%d,%d,%g\n", j, k+1, v)
					}
				}
				return nil
			}
			if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrInvalidName) && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			hash, err := s.Resolve(args[0])
			if err != nil {
				return err
			}
			data, err := s.Get(hash)
			if err != nil {
				return err
			}
			samples, err := chunk.Samples(data)
			if err != nil {
				return fmt.Errorf("object %s: %w", hash, err)
			}
			for _, smp := range samples {
				fmt.Fprintf(w, "0,%d,%g\n", smp.T, smp.V)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "directory holding the store (default: working directory)")
	return cmd
}
