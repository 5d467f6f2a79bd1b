package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dukex/nodegraph/pkg/graph"
	"github.com/dukex/nodegraph/pkg/log"
	"github.com/dukex/nodegraph/pkg/models"
	cli "github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  "nodegraph",
		Usage:                 "Build, validate and execute node graphs",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "plugins-path",
				Usage:   "Path to the directory containing node plugins",
				Value:   "",
				Sources: cli.EnvVars("PLUGINS_PATH"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.SetupWithWriter(command.Root().ErrWriter, command.String("log-level"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			RunCommand(),
			ValidateCommand(),
			TypesCommand(),
			ServeCommand(),
		},
	}
}

// readDocument parses a graph file, picking the format from its extension.
func readDocument(path string) (*models.SerializedGraph, error) {
	data, err := os.ReadFile(path) //nolint:gosec // reading the user supplied graph is the point
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	doc, err := graph.ParseDocument(data, graph.FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return doc, nil
}
