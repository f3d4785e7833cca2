package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/domainschema/compiler/load"
	"github.com/syssam/domainschema/schema"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v      *viper.Viper
	file   string
	cfg    *config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{v: newViper()}
	cmd := &cobra.Command{
		Use:           "domainschema",
		Short:         "Normalize schema documents and generate code from them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(a.v, a.file, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(a.logger)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&a.file, "config", "", "config file (default ./domainschema.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringSliceP("type", "t", nil, "definition names to use as roots (default all)")
	cmd.AddCommand(
		newNormalizeCommand(a),
		newGraphQLCommand(a),
		newSQLCommand(a),
		newGenCommand(a),
		newSnapshotCommand(a),
		newWatchCommand(a),
	)
	return cmd
}

// load parses files and returns the catalog along with the root
// definitions: the --type names, or every definition that is neither
// transient nor excluded.
func (a *app) load(ctx context.Context, files []string) (*load.Catalog, []schema.Definition, error) {
	cat, err := load.ParseFiles(ctx, files...)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug("loaded definitions", "files", len(files), "definitions", cat.Len())
	if len(a.cfg.Types) > 0 {
		roots := make([]schema.Definition, 0, len(a.cfg.Types))
		for _, name := range a.cfg.Types {
			d, ok := cat.Lookup(name)
			if !ok {
				return nil, nil, &load.ReferenceError{Name: name}
			}
			roots = append(roots, d)
		}
		return cat, roots, nil
	}
	var roots []schema.Definition
	for _, d := range cat.Documents() {
		if m := d.Meta(); !m.Transient && !m.Exclude {
			roots = append(roots, d)
		}
	}
	if len(roots) == 0 {
		return nil, nil, fmt.Errorf("no root definitions in %v", files)
	}
	return cat, roots, nil
}

// names returns the names of defs.
func names(defs []schema.Definition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Meta().Name)
	}
	return slices.Clip(out)
}
