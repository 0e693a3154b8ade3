package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"repomanage/internal/codec"
	"repomanage/internal/logger"
	"repomanage/internal/repository"
	"repomanage/internal/service"
)

// withStoreService opens the store for the duration of fn
func (a *app) withStoreService(fn func(*service.StoreService) error) error {
	store, err := openStore(a.cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(service.NewStoreService(store, service.NewEventBus()))
}

func newExportCmd(a *app) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of every record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := codec.ByFormat(format)
			if err != nil {
				return err
			}

			return a.withStoreService(func(svc *service.StoreService) error {
				snap, err := svc.Export(cmd.Context())
				if err != nil {
					return err
				}

				var w io.Writer = cmd.OutOrStdout()
				if output != "" && output != "-" {
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("failed to create %s: %w", output, err)
					}
					defer f.Close()
					w = f
				}
				if err := c.Export(snap, w); err != nil {
					return err
				}

				logger.Named("cli").Info("snapshot exported",
					zap.Int("repos", len(snap.Repos)),
					zap.Int("languages", len(snap.Languages)),
					zap.Uint64("next_id", snap.NextID),
				)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "snapshot format (json|yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Restore records from a snapshot",
		Long: `Restore records from a snapshot, keeping their ids and stamps.

Records with the same id are replaced. The id counter is raised past every
imported id and is never lowered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := codec.ByFormat(format)
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			snap, err := c.Parse(r)
			if err != nil {
				return err
			}

			return a.withStoreService(func(svc *service.StoreService) error {
				res, err := svc.Import(cmd.Context(), snap)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d languages and %d repos, next id %d\n",
					res.Languages, res.Repos, res.NextID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "snapshot format (json|yaml)")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the id counter and region sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStoreService(func(svc *service.StoreService) error {
				stats, err := svc.Stats(cmd.Context())
				if err != nil {
					return err
				}
				return writeStats(cmd.OutOrStdout(), stats)
			})
		},
	}
}

func writeStats(w io.Writer, stats *repository.Stats) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(stats); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	return enc.Close()
}
