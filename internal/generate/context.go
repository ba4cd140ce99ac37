// Package generate implements the layered synthetic organization
// generator: a fixed 12-layer pipeline of per-kind generator functions
// that write through an engine.Engine to build a structurally plausible
// digital twin from an OrgProfile.
package generate

import (
	"context"
	"math/rand"
	"time"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/scaling"
)

// OrgProfile parameterizes one generation run: industry drives the
// scaling coefficients, employee count drives every scaled_range call,
// and seed pins the RNG so repeated runs with the same inputs produce the
// same number of entities of each kind. Entity and relationship ids are
// fresh random UUIDs on every run, so two runs do not yield identical ids.
type OrgProfile struct {
	Name          string
	Industry      string
	EmployeeCount int
	Seed          int64
	Overrides     scaling.Overrides
	LocationCount int     // 0 means derive dynamically
	ContractorFraction float64 // 0 means use the default 0.1
}

// contractorFraction returns the profile's configured contractor fraction,
// falling back to a sensible default when unset.
func (p OrgProfile) contractorFraction() float64 {
	if p.ContractorFraction <= 0 {
		return 0.1
	}
	return p.ContractorFraction
}

// GenerationContext is threaded through every generator function. It
// gives read access to already-generated entities (by kind) for
// cross-layer references, a seeded RNG for reproducibility, and the
// engine to write through.
type GenerationContext struct {
	Ctx     context.Context
	Engine  engine.Engine
	Profile OrgProfile
	Coeffs  scaling.Coefficients
	Rand    *rand.Rand
	Now     time.Time

	byKind map[domain.EntityType][]domain.Entity
}

// NewGenerationContext builds a context with a seeded RNG and resolved
// coefficient table for the profile's industry.
func NewGenerationContext(ctx context.Context, eng engine.Engine, profile OrgProfile) *GenerationContext {
	coeffs := scaling.Merge(scaling.ForIndustry(profile.Industry), profile.Overrides)
	return &GenerationContext{
		Ctx:     ctx,
		Engine:  eng,
		Profile: profile,
		Coeffs:  coeffs,
		Rand:    rand.New(rand.NewSource(profile.Seed)),
		Now:     time.Now().UTC(),
		byKind:  map[domain.EntityType][]domain.Entity{},
	}
}

// Store records entities under kind for later lookup by downstream
// generators (e.g. the role generator reading departments).
func (c *GenerationContext) Store(kind domain.EntityType, entities []domain.Entity) {
	c.byKind[kind] = append(c.byKind[kind], entities...)
}

// Entities returns the entities already generated for kind, read-only.
func (c *GenerationContext) Entities(kind domain.EntityType) []domain.Entity {
	return c.byKind[kind]
}

// AllByKind returns every generated entity, grouped by kind, for handoff
// to the weaver once the generation pipeline completes.
func (c *GenerationContext) AllByKind() map[domain.EntityType][]domain.Entity {
	return c.byKind
}

// AddAll writes a batch of entities through the engine and stores them
// under kind for downstream generators, failing the whole layer on the
// first engine error (fail-fast propagation). Entities of the batch
// written before the failing one stay in the engine; none of the batch is
// stored in the context.
func (c *GenerationContext) AddAll(kind domain.EntityType, entities []domain.Entity) error {
	for i := range entities {
		added, err := c.Engine.AddEntity(c.Ctx, entities[i])
		if err != nil {
			return domain.NewError(domain.ErrInternal, "layer %v kind %s entity %d: %v", kind.Layer(), kind, i, err).WithDetail("kind", string(kind))
		}
		entities[i] = added
	}
	c.Store(kind, entities)
	return nil
}

// NewEntity is a small convenience wrapper around domain.NewEntity using
// the context's clock.
func (c *GenerationContext) NewEntity(kind domain.EntityType, name string) domain.Entity {
	return domain.NewEntity(kind, name, c.Now)
}

// Intn is a convenience wrapper avoiding a nil-check at every call site.
func (c *GenerationContext) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return c.Rand.Intn(n)
}

// IntRange returns a uniform random integer in [low, high).
func (c *GenerationContext) IntRange(low, high int) int {
	if high <= low {
		return low
	}
	return low + c.Rand.Intn(high-low)
}

// Pick returns a uniformly random element of items.
func Pick[T any](c *GenerationContext, items []T) T {
	return items[c.Intn(len(items))]
}

// PickN returns k distinct uniformly random elements of items (k is
// clamped to len(items)); used for "selected := sample(names, k=count)"
// style draws.
func PickN[T any](c *GenerationContext, items []T, k int) []T {
	if k > len(items) {
		k = len(items)
	}
	shuffled := append([]T(nil), items...)
	c.Rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:k]
}
