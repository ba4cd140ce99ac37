package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/atp"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/config"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/graphstate"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/httpapi"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/logging"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/tools"
)

// serveCommand wires config, logging, graphstate, the tool dispatcher, and
// exactly one transport adapter (ATP over stdio, ATP over a unix socket, or
// REST) into a single long-running process.
func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the graph over ATP (stdio or unix socket) or REST",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "graph", Usage: "overrides GRAPH_DEFAULT_PATH"},
			&cli.StringFlag{Name: "backend", Usage: "overrides GRAPH_BACKEND"},
			&cli.BoolFlag{Name: "strict", Usage: "overrides GRAPH_STRICT"},
			&cli.BoolFlag{Name: "atp-stdio", Usage: "serve ATP over the process's own stdio"},
			&cli.StringFlag{Name: "atp-socket", Usage: "serve ATP over a unix socket at this path, overriding ATP_SOCKET_PATH"},
			&cli.BoolFlag{Name: "http", Usage: "serve REST over HTTP"},
			&cli.StringFlag{Name: "http-addr", Usage: "overrides HTTP_BIND_ADDR"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := config.Load()
			logger, err := logging.New(cfg.Env, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			backend := cfg.GraphBackend
			if c.String("backend") != "" {
				backend = c.String("backend")
			}
			strict := cfg.GraphStrict || c.Bool("strict")
			graphPath := cfg.GraphDefaultPath
			if c.String("graph") != "" {
				graphPath = c.String("graph")
			}

			state := graphstate.New(backend, logging.Component(logger, "graphstate")).WithStrict(strict)
			if err := state.AutoLoadDefault(ctx, graphPath); err != nil {
				return err
			}

			dispatcher := tools.NewDispatcher(state, logging.Component(logger, "dispatcher"))

			switch {
			case c.Bool("atp-stdio"):
				server := atp.NewServer(dispatcher, logging.Component(logger, "atp"))
				return server.RunStdio(ctx)

			case c.IsSet("atp-socket"):
				path := c.String("atp-socket")
				if path == "" {
					path = cfg.ATPSocketPath
				}
				server := atp.NewServer(dispatcher, logging.Component(logger, "atp"))
				defer server.Close()
				fmt.Println("serving ATP on unix socket", path)
				return server.ServeUnix(ctx, path)

			case c.Bool("http"):
				addr := cfg.HTTPBindAddr
				if c.String("http-addr") != "" {
					addr = c.String("http-addr")
				}
				router := httpapi.NewRouter(dispatcher, logging.Component(logger, "httpapi"))
				fmt.Println("serving REST on", addr)
				return http.ListenAndServe(addr, router)

			default:
				return fmt.Errorf("serve: pass one of --atp-stdio, --atp-socket, or --http")
			}
		},
	}
}
