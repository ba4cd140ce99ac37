// Package graphstate owns the process-wide graph singleton: an mtime-
// gated, single-writer/multi-reader-locked Engine value, loaded once at
// startup and reloaded synchronously whenever its backing file changes
// underneath it.
package graphstate

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/exportimport"
)

// State is the single instance every tool and adapter call goes through.
// It is safe for concurrent use: RequireGraph takes the shared lock,
// mutating callers (Persist, the mtime reload path) take the exclusive
// lock.
type State struct {
	mu sync.RWMutex

	backend     string
	strict      bool
	graph       engine.Engine
	loadedPath  string
	loadedMtime time.Time

	log *zap.Logger
}

// New builds an empty State bound to backend, with no graph loaded.
func New(backend string, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	return &State{backend: backend, log: log}
}

// WithStrict enables GRAPH_STRICT: unknown fields in the canonical JSON
// document raise a validation error at load/reload time instead of being
// silently dropped.
func (s *State) WithStrict(strict bool) *State {
	s.strict = strict
	return s
}

// Loaded reports whether a graph is currently held.
func (s *State) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph != nil
}

// LoadedPath returns the path the held graph was loaded from, or "" if
// nothing is loaded or the graph was never backed by a file.
func (s *State) LoadedPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedPath
}

// PersistLoaded persists to LoadedPath, the single persist_graph call the
// write tools issue after a successful mutation. It is a no-op if the
// graph has no backing path yet.
func (s *State) PersistLoaded(ctx context.Context) error {
	path := s.LoadedPath()
	if path == "" {
		return nil
	}
	return s.Persist(ctx, path)
}

// Load replaces the held graph with the contents of path, creating a
// fresh backend engine first.
func (s *State) Load(ctx context.Context, path string) error {
	eng, err := engine.New(s.backend)
	if err != nil {
		return domain.NewError(domain.ErrInternal, "%v", err)
	}
	if err := loadInto(ctx, eng, path, s.strict); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return domain.NewError(domain.ErrPersistence, "stat %s: %v", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = eng
	s.loadedPath = path
	s.loadedMtime = info.ModTime()
	return nil
}

func loadInto(ctx context.Context, eng engine.Engine, path string, strict bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.NewError(domain.ErrPersistence, "read %s: %v", path, err)
	}
	doc, err := exportimport.Unmarshal(data, strict)
	if err != nil {
		return err
	}
	return exportimport.Import(ctx, eng, doc)
}

// AutoLoadDefault tries to load path at process start, silently leaving
// the state graph-less if the file does not exist.
func (s *State) AutoLoadDefault(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		s.log.Info("no default graph file found, starting empty", zap.String("path", path))
		return nil
	}
	return s.Load(ctx, path)
}

// RequireGraph implements the require-graph algorithm: fail if
// nothing is loaded, reconcile against the backing file's mtime, and
// return the live engine under the caller's chosen lock discipline.
//
// 1. no graph -> no_graph_loaded
// 2. stat fails -> return current graph with a logged warning
// 3. mtime changed -> synchronous reload into a fresh engine; on parse
//    failure keep serving the existing graph
// 4. return graph
func (s *State) RequireGraph(ctx context.Context) (engine.Engine, error) {
	s.mu.RLock()
	graph := s.graph
	path := s.loadedPath
	mtime := s.loadedMtime
	s.mu.RUnlock()

	if graph == nil {
		return nil, domain.NewError(domain.ErrNoGraphLoaded, "no graph loaded")
	}

	info, err := os.Stat(path)
	if err != nil {
		s.log.Warn("stat failed on loaded graph path, serving current graph", zap.String("path", path), zap.Error(err))
		return graph, nil
	}
	if info.ModTime().Equal(mtime) {
		return graph, nil
	}

	fresh, err := engine.New(s.backend)
	if err != nil {
		return graph, nil
	}
	if err := loadInto(ctx, fresh, path, s.strict); err != nil {
		s.log.Warn("reload of changed graph file failed, keeping previous graph", zap.String("path", path), zap.Error(err))
		return graph, nil
	}

	s.mu.Lock()
	s.graph = fresh
	s.loadedMtime = info.ModTime()
	s.mu.Unlock()
	return fresh, nil
}

// Persist writes the held graph to path as canonical JSON: a temp
// sibling file, fsync, rename over path, then loadedMtime is updated to
// the post-rename mtime. Rename-then-update avoids the self-triggered
// reload race described in the mtime contract.
func (s *State) Persist(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.graph == nil {
		return domain.NewError(domain.ErrNoGraphLoaded, "no graph loaded")
	}

	doc, err := exportimport.Export(ctx, s.graph)
	if err != nil {
		return err
	}
	data, err := exportimport.Marshal(doc)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return domain.NewError(domain.ErrPersistence, "open temp file %s: %v", tmp, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return domain.NewError(domain.ErrPersistence, "write temp file %s: %v", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return domain.NewError(domain.ErrPersistence, "fsync temp file %s: %v", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return domain.NewError(domain.ErrPersistence, "close temp file %s: %v", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return domain.NewError(domain.ErrPersistence, "rename %s -> %s: %v", tmp, path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return domain.NewError(domain.ErrPersistence, "stat %s after persist: %v", path, err)
	}
	s.loadedPath = path
	s.loadedMtime = info.ModTime()
	return nil
}
