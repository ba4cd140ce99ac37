package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/exportimport"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/generate"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/quality"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/scaling"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/weave"
)

// runPipeline drives generation, weaving, and quality assessment over a
// fresh engine for profile, returning the engine for the caller to export
// or persist and the quality report for the caller to print or enforce.
func runPipeline(ctx context.Context, backend string, profile generate.OrgProfile) (engine.Engine, quality.Report, error) {
	eng, err := engine.New(backend)
	if err != nil {
		return nil, quality.Report{}, err
	}

	gc := generate.NewGenerationContext(ctx, eng, profile)
	if _, err := generate.Run(gc); err != nil {
		return nil, quality.Report{}, fmt.Errorf("generate: %w", err)
	}

	wc := weave.NewContext(ctx, eng, gc.AllByKind(), profile.Seed, gc.Now)
	if _, err := weave.WeaveAll(wc); err != nil {
		return nil, quality.Report{}, fmt.Errorf("weave: %w", err)
	}

	report, err := quality.Assess(ctx, gc.AllByKind())
	if err != nil {
		return nil, quality.Report{}, fmt.Errorf("quality: %w", err)
	}
	return eng, report, nil
}

func profileFromFlags(c *cli.Command) (generate.OrgProfile, error) {
	profile := generate.OrgProfile{
		Name:          c.String("name"),
		Industry:      c.String("industry"),
		EmployeeCount: int(c.Int("employees")),
		Seed:          c.Int("seed"),
		LocationCount: int(c.Int("locations")),
	}
	if raw := c.String("contractor-fraction"); raw != "" {
		frac, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return profile, fmt.Errorf("generate org: invalid --contractor-fraction %q: %w", raw, err)
		}
		profile.ContractorFraction = frac
	}
	if path := c.String("coefficients-file"); path != "" {
		overrides, err := scaling.LoadOverridesFile(path)
		if err != nil {
			return profile, err
		}
		profile.Overrides = overrides
	}
	return profile, nil
}

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Generate a small in-memory demo organization and print a summary",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "industry", Value: "technology"},
			&cli.IntFlag{Name: "employees", Value: 100},
			&cli.IntFlag{Name: "seed", Value: 1},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			profile := generate.OrgProfile{
				Name:          "Demo Org",
				Industry:      c.String("industry"),
				EmployeeCount: int(c.Int("employees")),
				Seed:          c.Int("seed"),
			}
			eng, report, err := runPipeline(ctx, "memory", profile)
			if err != nil {
				return err
			}
			stats, err := eng.Stats(ctx)
			if err != nil {
				return err
			}
			printStats(stats)
			printQualityReport(report)
			return nil
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generation pipeline commands",
		Commands: []*cli.Command{
			generateOrgCommand(),
		},
	}
}

func generateOrgCommand() *cli.Command {
	return &cli.Command{
		Name:  "org",
		Usage: "Generate a synthetic organization and write it to a canonical JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Value: "Generated Org"},
			&cli.StringFlag{Name: "industry", Value: "technology", Usage: "technology, financial_services, healthcare, ..."},
			&cli.IntFlag{Name: "employees", Value: 1000, Required: true},
			&cli.IntFlag{Name: "seed", Value: 1},
			&cli.IntFlag{Name: "locations", Value: 0, Usage: "0 derives the count from employee count and industry"},
			&cli.StringFlag{Name: "contractor-fraction", Usage: "0 < f < 1, unset uses the default 0.1"},
			&cli.StringFlag{Name: "coefficients-file", Usage: "YAML scaling coefficient overrides"},
			&cli.StringFlag{Name: "backend", Value: "memory", Usage: "memory or sqlite"},
			&cli.StringFlag{Name: "out", Required: true, Usage: "output canonical JSON path"},
			&cli.BoolFlag{Name: "enforce-quality", Usage: "fail the run if the quality report is not acceptable"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			profile, err := profileFromFlags(c)
			if err != nil {
				return err
			}
			start := time.Now()
			eng, report, err := runPipeline(ctx, c.String("backend"), profile)
			if err != nil {
				return err
			}
			if c.Bool("enforce-quality") && !report.IsAcceptable() {
				return fmt.Errorf("generate org: quality report not acceptable: overall=%.4f", report.Overall)
			}

			doc, err := exportimport.Export(ctx, eng)
			if err != nil {
				return err
			}
			data, err := exportimport.Marshal(doc)
			if err != nil {
				return err
			}
			if err := os.WriteFile(c.String("out"), data, 0o644); err != nil {
				return err
			}

			printQualityReport(report)
			fmt.Printf("generated %d entities / %d relationships in %s, wrote %s\n",
				len(doc.Entities), len(doc.Relationships), time.Since(start).Round(time.Millisecond), c.String("out"))
			return nil
		},
	}
}
