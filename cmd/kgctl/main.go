// Command kgctl drives generation, inspection, import/export, and serving
// of a digital-twin graph from a single binary: a root cli.Command whose
// Commands slice fans out into one builder function per verb, each
// returning its own *cli.Command with Flags and an Action closure.
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	_ "github.com/thehipsterciso/hc-enterprise-kg/internal/engine/memory"
	_ "github.com/thehipsterciso/hc-enterprise-kg/internal/engine/sqlstore"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "kgctl",
		Usage: "Digital twin graph generator, inspector, and ATP/REST server",
		Commands: []*cli.Command{
			demoCommand(),
			generateCommand(),
			inspectCommand(),
			importCommand(),
			exportCommand(),
			serveCommand(),
			benchmarkCommand(),
			callCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}
