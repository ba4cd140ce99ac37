// Package tools implements the fixed 13-tool registry the ATP and REST
// adapters both dispatch through: 10 read tools, 3 write tools, a shared
// compact-serialisation transform, and the dispatcher state machine
// Ready -> RequireGraph -> ValidateArgs -> Execute -> Serialise -> Return
// (no Authorise stage: there is no auth module in this system).
package tools

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/graphstate"
)

// Write reports whether a tool mutates the graph, the read/write
// classification the REST adapter and the dispatcher both key off of.
type Tool struct {
	Name    string
	Write   bool
	Handler func(ctx context.Context, d *Dispatcher, raw json.RawMessage) (any, error)
}

var registry = map[string]*Tool{}
var registryOrder []string

func register(t *Tool) {
	registry[t.Name] = t
	registryOrder = append(registryOrder, t.Name)
}

// List returns every registered tool, in registration order, for the
// REST adapter's /openai/tools route and for tests asserting the
// registry's closed 13-tool shape.
func List() []*Tool {
	out := make([]*Tool, 0, len(registryOrder))
	for _, name := range registryOrder {
		out = append(out, registry[name])
	}
	return out
}

// Dispatcher holds everything a tool handler needs: the graph state
// singleton and a logger. One Dispatcher is shared by the ATP and REST
// adapters.
type Dispatcher struct {
	State *graphstate.State
	Log   *zap.Logger
}

// NewDispatcher builds a Dispatcher, defaulting to a no-op logger.
func NewDispatcher(state *graphstate.State, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{State: state, Log: log}
}

// Dispatch runs the fixed per-call state machine. Any stage failure
// short-circuits into an ErrorReply-shaped *domain.GraphError; there is
// no partial result.
//
//	Ready -> RequireGraph -> ValidateArgs -> Execute -> Serialise -> Return
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	tool, ok := registry[name]
	if !ok {
		return nil, domain.NewError(domain.ErrUnsupported, "unknown tool %q", name)
	}

	// load_graph is what brings a graph in, so it alone skips RequireGraph.
	if name != "load_graph" {
		if _, err := d.State.RequireGraph(ctx); err != nil {
			return nil, err
		}
	}

	result, err := tool.Handler(ctx, d, args)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func decodeArgs(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.NewError(domain.ErrValidation, "invalid arguments: %v", err)
	}
	return nil
}
