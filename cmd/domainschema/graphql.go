package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/syssam/domainschema/contrib/graphql"
)

func newGraphQLCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphql FILES...",
		Short: "Generate GraphQL type definitions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			return a.graphql(cmd.Context(), cmd.OutOrStdout(), files)
		},
	}
	cmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	cmd.Flags().String("gqlgen", "", "gqlgen.yml file to update with the schema path and model bindings")
	cmd.Flags().String("model", "", "Go package the gqlgen models are bound to")
	return cmd
}

func (a *app) graphql(ctx context.Context, stdout io.Writer, files []string) error {
	_, roots, err := a.load(ctx, files)
	if err != nil {
		return err
	}
	g, err := graphql.NewGenerator(graphql.WithLogger(a.logger))
	if err != nil {
		return err
	}
	doc, err := g.Document(roots...)
	if err != nil {
		return err
	}
	if err := a.write(stdout, []byte(graphql.Format(doc))); err != nil {
		return err
	}
	if a.cfg.GQLGen == "" {
		return nil
	}
	var schemaPath string
	if a.cfg.Out != "" && a.cfg.Out != "-" {
		schemaPath = a.cfg.Out
		if rel, err := filepath.Rel(filepath.Dir(a.cfg.GQLGen), a.cfg.Out); err == nil {
			schemaPath = rel
		}
	}
	if err := graphql.WriteGQLGenConfig(a.cfg.GQLGen, schemaPath, a.cfg.Model, doc); err != nil {
		return err
	}
	a.logger.Info("updated gqlgen config", "path", a.cfg.GQLGen, "types", len(graphql.Types(doc)))
	return nil
}
