package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/domainschema/compiler/load"
	"github.com/syssam/domainschema/graph"
	"github.com/syssam/domainschema/schema"
)

func newNormalizeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize FILES...",
		Short: "Print the normalized form of schema documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			return a.normalize(cmd.Context(), cmd.OutOrStdout(), files)
		},
	}
	cmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	return cmd
}

// normalize writes every schema reachable from the roots of files, each
// once, in the document format.
func (a *app) normalize(ctx context.Context, stdout io.Writer, files []string) error {
	g, err := a.graph(ctx, files)
	if err != nil {
		return err
	}
	schemas := make([]*schema.Schema, len(g.Nodes))
	for i, n := range g.Nodes {
		schemas[i] = n.Schema
	}
	out, err := load.Marshal(schemas...)
	if err != nil {
		return err
	}
	return a.write(stdout, out)
}

// graph loads files and returns the graph of their roots.
func (a *app) graph(ctx context.Context, files []string) (*graph.Graph, error) {
	cat, roots, err := a.load(ctx, files)
	if err != nil {
		return nil, err
	}
	schemas, err := cat.Normalize(names(roots)...)
	if err != nil {
		return nil, err
	}
	return graph.New(schemas...)
}

// write writes out to the --out file, or to stdout when unset.
func (a *app) write(stdout io.Writer, out []byte) error {
	if a.cfg.Out == "" || a.cfg.Out == "-" {
		_, err := stdout.Write(out)
		return err
	}
	if err := os.WriteFile(a.cfg.Out, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.logger.Info("wrote file", "path", a.cfg.Out, "bytes", len(out))
	return nil
}
