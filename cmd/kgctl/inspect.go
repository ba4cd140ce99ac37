package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/analytics"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/graphstate"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/search"
)

var graphFlags = []cli.Flag{
	&cli.StringFlag{Name: "graph", Required: true, Usage: "canonical JSON graph file"},
	&cli.StringFlag{Name: "backend", Value: "memory"},
	&cli.BoolFlag{Name: "strict", Usage: "reject unknown entity fields on load"},
}

// loadGraph builds a State, loads path into it, and hands back the live
// engine for read-only inspection. Reused by every inspect subcommand
// rather than going through graphstate's singleton-server lifecycle,
// since each CLI invocation is its own short-lived process.
func loadGraph(ctx context.Context, c *cli.Command) (engine.Engine, error) {
	state := graphstate.New(c.String("backend"), zap.NewNop()).WithStrict(c.Bool("strict"))
	if err := state.Load(ctx, c.String("graph")); err != nil {
		return nil, err
	}
	return state.RequireGraph(ctx)
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Read-only queries over a canonical JSON graph file",
		Commands: []*cli.Command{
			inspectStatsCommand(),
			inspectEntityCommand(),
			inspectNeighborsCommand(),
			inspectPathCommand(),
			inspectBlastRadiusCommand(),
			inspectCentralityCommand(),
			inspectSearchCommand(),
		},
	}
}

func inspectStatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print entity/relationship counts by type",
		Flags: graphFlags,
		Action: func(ctx context.Context, c *cli.Command) error {
			eng, err := loadGraph(ctx, c)
			if err != nil {
				return err
			}
			stats, err := eng.Stats(ctx)
			if err != nil {
				return err
			}
			printStats(stats)
			return nil
		},
	}
}

func inspectEntityCommand() *cli.Command {
	return &cli.Command{
		Name:  "entity",
		Usage: "Look up one entity by id",
		Flags: append(append([]cli.Flag{}, graphFlags...), &cli.StringFlag{Name: "id", Required: true}),
		Action: func(ctx context.Context, c *cli.Command) error {
			eng, err := loadGraph(ctx, c)
			if err != nil {
				return err
			}
			entity, err := eng.GetEntity(ctx, c.String("id"))
			if err != nil {
				return err
			}
			printEntity(entity)
			return nil
		},
	}
}

func inspectNeighborsCommand() *cli.Command {
	return &cli.Command{
		Name:  "neighbors",
		Usage: "List entities adjacent to an id",
		Flags: append(append([]cli.Flag{}, graphFlags...),
			&cli.StringFlag{Name: "id", Required: true},
			&cli.StringFlag{Name: "direction", Value: "both", Usage: "out, in, or both"},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			eng, err := loadGraph(ctx, c)
			if err != nil {
				return err
			}
			neighbors, err := eng.Neighbors(ctx, c.String("id"), engine.Direction(c.String("direction")), nil)
			if err != nil {
				return err
			}
			printEntities(neighbors)
			return nil
		},
	}
}

func inspectPathCommand() *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: "Shortest path between two entity ids",
		Flags: append(append([]cli.Flag{}, graphFlags...),
			&cli.StringFlag{Name: "from", Required: true},
			&cli.StringFlag{Name: "to", Required: true},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			eng, err := loadGraph(ctx, c)
			if err != nil {
				return err
			}
			path, err := analytics.ShortestPath(ctx, eng, c.String("from"), c.String("to"))
			if err != nil {
				return err
			}
			return printJSON(path)
		},
	}
}

func inspectBlastRadiusCommand() *cli.Command {
	return &cli.Command{
		Name:  "blast-radius",
		Usage: "Entities reachable from an id within a depth, grouped by hop",
		Flags: append(append([]cli.Flag{}, graphFlags...),
			&cli.StringFlag{Name: "id", Required: true},
			&cli.IntFlag{Name: "max-depth", Value: 3},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			eng, err := loadGraph(ctx, c)
			if err != nil {
				return err
			}
			byDepth, err := analytics.BlastRadius(ctx, eng, c.String("id"), int(c.Int("max-depth")))
			if err != nil {
				return err
			}
			for depth, entities := range byDepth {
				fmt.Printf("-- depth %d --\n", depth)
				printEntities(entities)
			}
			return nil
		},
	}
}

func inspectCentralityCommand() *cli.Command {
	return &cli.Command{
		Name:  "centrality",
		Usage: "Top-N entities by a graph centrality measure",
		Flags: append(append([]cli.Flag{}, graphFlags...),
			&cli.StringFlag{Name: "measure", Value: "degree", Usage: "degree, betweenness, pagerank, most-connected"},
			&cli.IntFlag{Name: "top", Value: 10},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			eng, err := loadGraph(ctx, c)
			if err != nil {
				return err
			}
			topN := int(c.Int("top"))
			var scored []analytics.Scored
			switch c.String("measure") {
			case "degree":
				scored, err = analytics.DegreeCentrality(ctx, eng, topN)
			case "betweenness":
				scored, err = analytics.BetweennessCentrality(ctx, eng, topN)
			case "pagerank":
				scored, _, err = analytics.PageRank(ctx, eng, topN)
			case "most-connected":
				scored, err = analytics.MostConnected(ctx, eng, topN)
			default:
				return fmt.Errorf("inspect centrality: unknown measure %q", c.String("measure"))
			}
			if err != nil {
				return err
			}
			printScored(scored)
			return nil
		},
	}
}

func inspectSearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Fuzzy-match entities by name",
		Flags: append(append([]cli.Flag{}, graphFlags...),
			&cli.StringFlag{Name: "q", Required: true},
			&cli.StringFlag{Name: "type", Usage: "restrict to one entity type"},
			&cli.IntFlag{Name: "top", Value: 10},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			eng, err := loadGraph(ctx, c)
			if err != nil {
				return err
			}
			hits, err := search.Find(ctx, eng, c.String("q"), domain.EntityType(c.String("type")), int(c.Int("top")))
			if err != nil {
				return err
			}
			printHits(hits)
			return nil
		},
	}
}
