// Command domainschema normalizes schema documents and generates GraphQL
// types, SQL tables and Go models from them.
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(1)
	}
}
