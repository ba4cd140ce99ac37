package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/exportimport"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/generate"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/quality"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/weave"
)

// benchmarkEmployeeLadder is the fixed set of employee counts every
// benchmark run exercises, replacing the original reporter's free-form
// scale list with a reproducible, comparable-across-runs fixture.
var benchmarkEmployeeLadder = []int{100, 1000, 5000, 20000}

// benchmarkStageReport is one rung of the ladder's timing/shape/quality
// summary, the unit the YAML report is built from.
type benchmarkStageReport struct {
	EmployeeCount     int     `yaml:"employee_count"`
	EntityCount       int     `yaml:"entity_count"`
	RelationshipCount int     `yaml:"relationship_count"`
	QualityOverall    float64 `yaml:"quality_overall"`
	GenerateMillis    int64   `yaml:"generate_millis"`
	WeaveMillis       int64   `yaml:"weave_millis"`
	AssessMillis      int64   `yaml:"assess_millis"`
	TotalMillis       int64   `yaml:"total_millis"`
}

type benchmarkReport struct {
	Industry string                 `yaml:"industry"`
	Backend  string                 `yaml:"backend"`
	Seed     int64                  `yaml:"seed"`
	Stages   []benchmarkStageReport `yaml:"stages"`
}

func benchmarkCommand() *cli.Command {
	return &cli.Command{
		Name:  "benchmark",
		Usage: "Run the generation pipeline at a fixed employee-count ladder and report timings as YAML",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "industry", Value: "technology"},
			&cli.StringFlag{Name: "backend", Value: "memory"},
			&cli.IntFlag{Name: "seed", Value: 1},
			&cli.StringFlag{Name: "out", Required: true, Usage: "YAML report output path"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			report := benchmarkReport{
				Industry: c.String("industry"),
				Backend:  c.String("backend"),
				Seed:     c.Int("seed"),
			}

			for _, employees := range benchmarkEmployeeLadder {
				profile := generate.OrgProfile{
					Name:          fmt.Sprintf("Benchmark-%d", employees),
					Industry:      c.String("industry"),
					EmployeeCount: employees,
					Seed:          c.Int("seed"),
				}

				total := time.Now()
				eng, err := engine.New(c.String("backend"))
				if err != nil {
					return err
				}

				genStart := time.Now()
				gc := generate.NewGenerationContext(ctx, eng, profile)
				if _, err := generate.Run(gc); err != nil {
					return fmt.Errorf("benchmark: generate at %d employees: %w", employees, err)
				}
				genElapsed := time.Since(genStart)

				weaveStart := time.Now()
				wc := weave.NewContext(ctx, eng, gc.AllByKind(), profile.Seed, gc.Now)
				weaveResult, err := weave.WeaveAll(wc)
				if err != nil {
					return fmt.Errorf("benchmark: weave at %d employees: %w", employees, err)
				}
				weaveElapsed := time.Since(weaveStart)

				assessStart := time.Now()
				qr, err := quality.Assess(ctx, gc.AllByKind())
				if err != nil {
					return fmt.Errorf("benchmark: assess at %d employees: %w", employees, err)
				}
				assessElapsed := time.Since(assessStart)

				doc, err := exportimport.Export(ctx, eng)
				if err != nil {
					return err
				}

				stage := benchmarkStageReport{
					EmployeeCount:     employees,
					EntityCount:       len(doc.Entities),
					RelationshipCount: weaveResult.RelationshipCount,
					QualityOverall:    qr.Overall,
					GenerateMillis:    genElapsed.Milliseconds(),
					WeaveMillis:       weaveElapsed.Milliseconds(),
					AssessMillis:      assessElapsed.Milliseconds(),
					TotalMillis:       time.Since(total).Milliseconds(),
				}
				report.Stages = append(report.Stages, stage)
				fmt.Printf("employees=%d entities=%d relationships=%d quality=%.4f total=%dms\n",
					stage.EmployeeCount, stage.EntityCount, stage.RelationshipCount, stage.QualityOverall, stage.TotalMillis)
			}

			data, err := yaml.Marshal(report)
			if err != nil {
				return err
			}
			return os.WriteFile(c.String("out"), data, 0o644)
		},
	}
}
