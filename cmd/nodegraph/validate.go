package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dukex/nodegraph/pkg/cmd"
	"github.com/dukex/nodegraph/pkg/graph"
	"github.com/dukex/nodegraph/pkg/log"
	cli "github.com/urfave/cli/v3"
)

var errGraphNotClean = errors.New("graph loaded with findings")

func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a graph file and report what would not load",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail when any node is skipped, any property is off-schema or any connection dangles",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			if command.Args().Len() != 1 {
				return errors.New("validate expects exactly one graph file")
			}

			logger := log.WithModule("validate")

			doc, err := readDocument(command.Args().First())
			if err != nil {
				return err
			}

			reg, err := cmd.NewRegistry(logger, command.String("plugins-path"))
			if err != nil {
				return err
			}

			report, err := graph.New(logger).Deserialize(ctx, reg, *doc)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(command.Root().Writer)
			encoder.SetIndent("", "  ")

			if err := encoder.Encode(report); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			if command.Bool("strict") && !report.Clean() {
				return errGraphNotClean
			}

			return nil
		},
	}
}
