package main

import (
	"context"
	"fmt"

	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/infracollect/dataprobe/internal/inspect"
	"github.com/urfave/cli/v3"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Load the CSV dataset of an archive and print inspection reports",
		Flags: append(ingestFlags(), &cli.StringSliceFlag{
			Name:  "strategy",
			Usage: fmt.Sprintf("Inspection to run, in order (can be repeated, default: %v)", inspect.DefaultKinds()),
		}),
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "archive",
				UsageText: "The zip archive holding one CSV file",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			registry := engine.NewRegistry(getLogger(ctx).Named("registry"))
			inspect.Register(registry)

			kinds := command.StringSlice("strategy")
			if len(kinds) == 0 {
				kinds = inspect.DefaultKinds()
			}

			// Resolve every strategy before touching the archive
			strategies := make([]engine.Strategy, 0, len(kinds))
			for _, kind := range kinds {
				strategy, err := registry.CreateStrategy(kind)
				if err != nil {
					return err
				}
				strategies = append(strategies, strategy)
			}

			df, err := ingestArchive(ctx, command, registry)
			if err != nil {
				return err
			}

			inspector, err := engine.NewInspector(strategies[0], engine.WithOutput(command.Root().Writer))
			if err != nil {
				return err
			}

			for _, strategy := range strategies {
				inspector.SetStrategy(strategy)
				if err := inspector.Execute(df); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
