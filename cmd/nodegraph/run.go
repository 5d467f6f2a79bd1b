package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/dukex/nodegraph/pkg/cmd"
	"github.com/dukex/nodegraph/pkg/executor"
	"github.com/dukex/nodegraph/pkg/log"
	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/otelhelper"
	"github.com/dukex/nodegraph/pkg/services"
	"github.com/dukex/nodegraph/pkg/web"
	cli "github.com/urfave/cli/v3"
)

func RunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Aliases:   []string{"r"},
		Usage:     "Execute a graph file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "start",
				Usage: "Start node id (defaults to the first node in the file)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Record and print the per-node execution log",
			},
			&cli.StringFlag{
				Name:  "propagation",
				Usage: "Value sent along connections (first, per-connection)",
				Value: executor.PropagateFirstOutput.String(),
				Validator: func(value string) error {
					_, err := executor.ParsePropagationMode(value)

					return err
				},
			},
			&cli.StringFlag{
				Name:  "schedule",
				Usage: "Cron expression; run the graph on this schedule until interrupted",
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Where execution events go (none, gochannel, kafka)",
				Value:   "none",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringSliceFlag{
				Name:    "kafka-brokers",
				Usage:   "Kafka brokers for the kafka event bus",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export OpenTelemetry traces over OTLP/HTTP",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			if command.Args().Len() != 1 {
				return errors.New("run expects exactly one graph file")
			}

			logger := log.WithModule("run")

			doc, err := readDocument(command.Args().First())
			if err != nil {
				return err
			}

			propagation, err := executor.ParsePropagationMode(command.String("propagation"))
			if err != nil {
				return err
			}

			reg, err := cmd.NewRegistry(logger, command.String("plugins-path"))
			if err != nil {
				return err
			}

			opts, cleanup, err := runnerOptions(ctx, logger, command)
			if err != nil {
				return err
			}
			defer cleanup()

			runner := services.NewRunner(reg, logger, opts...)

			req := services.ExecuteRequest{
				StartNode:   command.String("start"),
				Debug:       command.Bool("debug"),
				Propagation: propagation,
			}

			if spec := command.String("schedule"); spec != "" {
				ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				return runScheduled(ctx, logger, spec, func(ctx context.Context) {
					response, err := runner.Run(ctx, "", *doc, req)
					if err != nil {
						logger.ErrorContext(ctx, "Scheduled run failed", "error", err)

						return
					}

					logger.InfoContext(ctx, "Scheduled run finished",
						"run_id", response.Result.RunID,
						"executed", len(response.Result.Executed),
						"partial", response.Result.Partial(),
					)
				})
			}

			return runOnce(ctx, command.Root().Writer, runner, *doc, req)
		},
	}
}

func runOnce(ctx context.Context, w io.Writer, runner *services.Runner, doc models.SerializedGraph, req services.ExecuteRequest) error {
	response, err := runner.Run(ctx, "", doc, req)
	if response == nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if encodeErr := encoder.Encode(web.NewExecuteGraphResponse(response)); encodeErr != nil {
		return fmt.Errorf("failed to write result: %w", encodeErr)
	}

	return err
}

// runnerOptions wires the event bus and tracer selected by flags. cleanup
// releases both.
func runnerOptions(ctx context.Context, logger *slog.Logger, command *cli.Command) ([]services.RunnerOption, func(), error) {
	var (
		opts    []services.RunnerOption
		closers []func()
	)

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	eventBus, err := cmd.NewEventBus(command.String("event-bus"), command.StringSlice("kafka-brokers"), logger)
	if err != nil {
		return nil, nil, err
	}

	if eventBus != nil {
		if err := watchEvents(ctx, eventBus, logger); err != nil {
			_ = eventBus.Close()

			return nil, nil, err
		}

		opts = append(opts, services.WithPublisher(eventBus))
		closers = append(closers, func() {
			if err := eventBus.Close(); err != nil {
				logger.Error("Failed to close event bus", "error", err)
			}
		})
	}

	if command.Bool("tracing") {
		tracer, shutdown, err := otelhelper.NewTracer(ctx, "nodegraph")
		if err != nil {
			cleanup()

			return nil, nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}

		opts = append(opts, services.WithTracer(tracer))
		closers = append(closers, func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("Failed to shutdown tracer provider", "error", err)
			}
		})
	}

	return opts, cleanup, nil
}
