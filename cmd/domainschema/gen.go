package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/syssam/domainschema/compiler/gen"
)

func newGenCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen FILES...",
		Short: "Generate Go model structs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			return a.gen(cmd.Context(), cmd.OutOrStdout(), files)
		},
	}
	cmd.Flags().StringP("out", "o", "models", "output directory")
	cmd.Flags().StringP("package", "p", "models", "package name of the generated files")
	cmd.Flags().Bool("uuid-ids", false, "map ID fields to uuid.UUID")
	cmd.Flags().Int("workers", 4, "number of files written concurrently")
	return cmd
}

func (a *app) gen(ctx context.Context, stdout io.Writer, files []string) error {
	_, roots, err := a.load(ctx, files)
	if err != nil {
		return err
	}
	g, err := gen.NewGenerator(
		gen.WithPackage(a.cfg.Package),
		gen.WithUUIDIDs(a.cfg.UUIDIDs),
		gen.WithWorkers(a.cfg.Workers),
		gen.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	out := a.cfg.Out
	if out == "" || out == "-" {
		out = a.cfg.Package
	}
	paths, err := g.Write(ctx, out, roots...)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(stdout, p)
	}
	return nil
}
