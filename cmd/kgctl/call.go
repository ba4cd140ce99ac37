package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/urfave/cli/v3"
)

// atpRequest/atpResponse mirror the wire shapes internal/atp's Server
// decodes and encodes; kept as a small duplicate here rather than an
// exported type in that package, so the client doesn't need to import
// the server's internal request/response structs.
type atpRequest struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
}

type atpResponse struct {
	Result any             `json:"result,omitempty"`
	Error  *atpResponseErr `json:"error,omitempty"`
}

type atpResponseErr struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// atpClient dials a running `kgctl serve --atp-socket` instance and
// issues exactly one tool call per connection.
type atpClient struct {
	socket string
}

func (c atpClient) call(ctx context.Context, tool string, args json.RawMessage) (any, error) {
	dialer := net.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "unix", c.socket)
	if err != nil {
		return nil, fmt.Errorf("call: dial %s: %w", c.socket, err)
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(atpRequest{Tool: tool, Arguments: args}); err != nil {
		return nil, fmt.Errorf("call: encode request: %w", err)
	}

	var resp atpResponse
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("call: decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("call: %s: %s", resp.Error.Kind, resp.Error.Message)
	}
	return resp.Result, nil
}

func callCommand() *cli.Command {
	return &cli.Command{
		Name:  "call",
		Usage: "Dial a running `serve --atp-socket` instance and invoke one tool",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "socket", Required: true, Usage: "unix socket path of the running serve process"},
			&cli.StringFlag{Name: "tool", Required: true, Usage: "tool name, matching internal/tools' registry"},
			&cli.StringFlag{Name: "args", Value: "{}", Usage: "JSON object of tool arguments"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			client := atpClient{socket: c.String("socket")}
			result, err := client.call(ctx, c.String("tool"), json.RawMessage(c.String("args")))
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}
