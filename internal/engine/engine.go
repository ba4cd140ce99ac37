// Package engine declares the storage-agnostic graph backend contract
// every tool and analytics routine is written against, plus the process
// wide factory that resolves a configured backend name to a concrete
// implementation.
package engine

import (
	"context"
	"fmt"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

// Direction constrains a neighbor/edge query to outgoing edges, incoming
// edges, or both.
type Direction string

const (
	DirOut  Direction = "out"
	DirIn   Direction = "in"
	DirBoth Direction = "both"
)

// Stats summarizes the shape of a loaded graph.
type Stats struct {
	EntityCount       int
	RelationshipCount int
	EntityCountByType map[domain.EntityType]int
	RelationshipCountByType map[domain.RelationshipType]int
}

// Engine is the one interface every backend implements and every tool,
// weaver, generator, and analytics routine is written against. Nothing
// above this boundary knows whether the graph lives in memory or in SQL.
type Engine interface {
	AddEntity(ctx context.Context, e domain.Entity) (domain.Entity, error)
	GetEntity(ctx context.Context, id string) (domain.Entity, error)
	UpdateEntity(ctx context.Context, id string, patch map[string]any) (domain.Entity, error)
	RemoveEntity(ctx context.Context, id string) error
	ListEntities(ctx context.Context, kind domain.EntityType, limit, offset int) ([]domain.Entity, error)
	CountEntities(ctx context.Context, kind domain.EntityType) (int, error)

	AddRelationship(ctx context.Context, r domain.Relationship) (domain.Relationship, error)
	GetRelationship(ctx context.Context, id string) (domain.Relationship, error)
	RemoveRelationship(ctx context.Context, id string) error
	ListRelationships(ctx context.Context, kind domain.RelationshipType, limit, offset int) ([]domain.Relationship, error)

	Neighbors(ctx context.Context, id string, dir Direction, relTypes []domain.RelationshipType) ([]domain.Entity, error)
	EdgesOf(ctx context.Context, id string, dir Direction, relTypes []domain.RelationshipType) ([]domain.Relationship, error)
	HasEdge(ctx context.Context, sourceID, targetID string) (bool, error)

	AllEntities(ctx context.Context) ([]domain.Entity, error)
	AllRelationships(ctx context.Context) ([]domain.Relationship, error)

	Stats(ctx context.Context) (Stats, error)
	Clear(ctx context.Context) error
}

// Factory builds a fresh, empty Engine for a backend name.
type Factory func() (Engine, error)

var factories = map[string]Factory{}

// Register adds a named backend factory, meant to be called from each
// backend package's init so selecting a backend never needs an import
// cycle back into engine from memory/sqlstore.
func Register(name string, f Factory) {
	factories[name] = f
}

// New resolves a backend name (e.g. "memory", "sqlite") to a fresh Engine.
func New(backend string) (Engine, error) {
	f, ok := factories[backend]
	if !ok {
		return nil, fmt.Errorf("engine: unknown backend %q", backend)
	}
	return f()
}
