package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dukex/nodegraph/pkg/cmd"
	"github.com/dukex/nodegraph/pkg/log"
	cli "github.com/urfave/cli/v3"
)

func TypesCommand() *cli.Command {
	return &cli.Command{
		Name:  "types",
		Usage: "List registered node types",
		Action: func(_ context.Context, command *cli.Command) error {
			reg, err := cmd.NewRegistry(log.WithModule("types"), command.String("plugins-path"))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(command.Root().Writer, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "TYPE\tNAME\tDESCRIPTION")

			for _, factory := range reg.Factories() {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", factory.ID(), factory.Name(), factory.Description())
			}

			return w.Flush()
		},
	}
}
