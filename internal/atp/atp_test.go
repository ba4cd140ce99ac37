package atp

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
	_ "github.com/thehipsterciso/hc-enterprise-kg/internal/engine/memory"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/exportimport"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/graphstate"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/tools"
)

func seedState(t *testing.T) *graphstate.State {
	t.Helper()
	ctx := context.Background()
	eng, err := engine.New("memory")
	require.NoError(t, err)
	now := time.Now().UTC()
	_, err = eng.AddEntity(ctx, domain.NewEntity(domain.EntitySystem, "Billing API", now))
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	doc, err := exportimport.Export(ctx, eng)
	require.NoError(t, err)
	data, err := exportimport.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	state := graphstate.New("memory", nil)
	require.NoError(t, state.Load(ctx, path))
	return state
}

func TestHandleConnRunsToolAndWritesResult(t *testing.T) {
	state := seedState(t)
	server := NewServer(tools.NewDispatcher(state, nil), nil)

	reqLine, err := json.Marshal(request{Tool: "get_statistics"})
	require.NoError(t, err)
	in := bytes.NewBufferString(string(reqLine) + "\n")
	var out bytes.Buffer

	server.handleConn(context.Background(), in, &out)

	var resp response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
}

func TestHandleConnUnknownToolReturnsErrorEnvelope(t *testing.T) {
	state := seedState(t)
	server := NewServer(tools.NewDispatcher(state, nil), nil)

	reqLine, err := json.Marshal(request{Tool: "not_a_tool"})
	require.NoError(t, err)
	in := bytes.NewBufferString(string(reqLine) + "\n")
	var out bytes.Buffer

	server.handleConn(context.Background(), in, &out)

	var resp response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Nil(t, resp.Result)
	require.NotNil(t, resp.Error)
	require.Equal(t, domain.ErrUnsupported, resp.Error.Kind)
}

func TestHandleConnMissingToolNameIsValidationError(t *testing.T) {
	state := seedState(t)
	server := NewServer(tools.NewDispatcher(state, nil), nil)

	in := strings.NewReader(`{"arguments":{}}` + "\n")
	var out bytes.Buffer

	server.handleConn(context.Background(), in, &out)

	var resp response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	require.Equal(t, domain.ErrValidation, resp.Error.Kind)
}
