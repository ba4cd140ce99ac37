// Package atp implements a line-delimited JSON transport tool calls
// travel over: one request, one response, either piped over stdio or
// dialed as a unix socket. Uses an accept-loop/per-connection-decoder
// shape with no JSON-RPC envelope and no auth stage: the wire format is
// request={"tool","arguments"}, response={"result"} or
// {"error":{"kind","message"}}.
package atp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/tools"
)

// request is the wire shape for a single tool call.
type request struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
}

// response is the wire shape for a single tool reply: exactly one of
// Result or Error is set.
type response struct {
	Result any          `json:"result,omitempty"`
	Error  *responseErr `json:"error,omitempty"`
}

type responseErr struct {
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

// Server dispatches decoded requests into a tool Dispatcher.
type Server struct {
	Dispatcher *tools.Dispatcher
	Log        *zap.Logger

	listener net.Listener
	path     string
}

// NewServer builds a Server bound to dispatcher, defaulting to a no-op
// logger.
func NewServer(dispatcher *tools.Dispatcher, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{Dispatcher: dispatcher, Log: log}
}

// RunStdio serves exactly one connection: the process's own stdin/stdout,
// blocking until stdin closes. This is the `serve --atp-stdio` path.
func (s *Server) RunStdio(ctx context.Context) error {
	s.handleConn(ctx, os.Stdin, os.Stdout)
	return nil
}

// ServeUnix listens on a unix socket at path, accepting one goroutine per
// connection. This is the `serve --atp-socket` path.
func (s *Server) ServeUnix(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		_ = os.Remove(path)
		return err
	}
	s.listener = ln
	s.path = path

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go func() {
			defer conn.Close()
			s.handleConn(ctx, conn, conn)
		}()
	}
}

// Close releases the unix socket listener, if one is active.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	err := s.listener.Close()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) handleConn(ctx context.Context, r io.Reader, w io.Writer) {
	dec := json.NewDecoder(bufio.NewReader(r))
	enc := json.NewEncoder(w)

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			_ = enc.Encode(response{Error: &responseErr{Kind: domain.ErrValidation, Message: "malformed request"}})
			return
		}

		resp := s.dispatch(ctx, req)
		if err := enc.Encode(resp); err != nil {
			s.Log.Warn("atp: failed to encode response", zap.Error(err))
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, req request) response {
	if req.Tool == "" {
		return response{Error: &responseErr{Kind: domain.ErrValidation, Message: "tool name is required"}}
	}
	result, err := s.Dispatcher.Dispatch(ctx, req.Tool, req.Arguments)
	if err != nil {
		return response{Error: &responseErr{Kind: domain.KindOf(err), Message: err.Error()}}
	}
	return response{Result: result}
}
