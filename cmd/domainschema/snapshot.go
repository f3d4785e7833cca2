package main

import (
	"bytes"
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/syssam/domainschema/graph"
)

func newSnapshotCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot FILES...",
		Short: "Write a snapshot of the schema graph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			return a.snapshot(cmd.Context(), cmd.OutOrStdout(), files)
		},
	}
	cmd.Flags().StringP("format", "f", "yaml", "snapshot format: json, yaml or msgpack")
	cmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) snapshot(ctx context.Context, stdout io.Writer, files []string) error {
	format, err := graph.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}
	g, err := a.graph(ctx, files)
	if err != nil {
		return err
	}
	if c := g.Cycle(); c != nil {
		a.logger.Debug("schema graph has cycles", "cycle", c)
	}
	var buf bytes.Buffer
	if err := graph.Encode(&buf, g.Snapshot(), format); err != nil {
		return err
	}
	return a.write(stdout, buf.Bytes())
}
