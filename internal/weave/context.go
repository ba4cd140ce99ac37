// Package weave builds the relationship graph over an already-generated
// set of entities: one pass, ~30 named weave methods, each emitting
// relationships of one kind family with a non-placeholder weight,
// type-banded confidence, and non-empty properties, followed by a mirror
// field sweep over the entities those relationships touch.
package weave

import (
	"context"
	"math/rand"
	"time"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
)

// Context is threaded through every weave method: read access to the
// entities generated in each layer, an RNG of its own seeded by the
// caller, and the engine to write edges through.
type Context struct {
	Ctx    context.Context
	Engine engine.Engine
	Rand   *rand.Rand
	Now    time.Time

	byKind map[domain.EntityType][]domain.Entity
}

// NewContext builds a weave context from the entities a prior generation
// pass produced, keyed by kind.
func NewContext(ctx context.Context, eng engine.Engine, entities map[domain.EntityType][]domain.Entity, seed int64, now time.Time) *Context {
	return &Context{
		Ctx:    ctx,
		Engine: eng,
		Rand:   rand.New(rand.NewSource(seed)),
		Now:    now,
		byKind: entities,
	}
}

func (c *Context) Entities(kind domain.EntityType) []domain.Entity {
	return c.byKind[kind]
}

func (c *Context) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return c.Rand.Intn(n)
}

func (c *Context) pick(items []domain.Entity) domain.Entity {
	return items[c.intn(len(items))]
}

func (c *Context) floatIn(low, high float64) float64 {
	if high <= low {
		return low
	}
	return low + c.Rand.Float64()*(high-low)
}

// severityWeight is the fixed severity → weight table every
// severity-derived relationship draws from instead of an independent
// random pick.
var severityWeight = map[string]float64{
	"low": 0.3, "medium": 0.5, "high": 0.8, "critical": 1.0,
}

func weightForSeverity(severity string, fallbackLow, fallbackHigh float64, c *Context) float64 {
	if w, ok := severityWeight[severity]; ok {
		return w
	}
	return c.floatIn(fallbackLow, fallbackHigh)
}

// confidence bands, per relationship-type family.
var (
	bandOrganisational = [2]float64{0.90, 0.95}
	bandDependency     = [2]float64{0.80, 0.90}
	bandThreatAttrib   = [2]float64{0.70, 0.75}
	bandInference      = [2]float64{0.75, 0.90}
)

func (c *Context) confidence(band [2]float64) float64 {
	return c.floatIn(band[0], band[1])
}

// emit builds a relationship through the standard constructor (which
// clamps and rounds weight/confidence) and writes it through the engine.
func (c *Context) emit(out *[]domain.Relationship, kind domain.RelationshipType, src, tgt domain.Entity, weight, confidence float64, props map[string]any) {
	rel := domain.NewRelationship(kind, src.ID, tgt.ID, weight, confidence, c.Now)
	rel.Properties = props
	*out = append(*out, rel)
}

// commit writes a batch of relationships through the engine, failing the
// whole weave on the first rejection (mirrors the generator's fail-fast
// propagation policy).
func (c *Context) commit(rels []domain.Relationship) error {
	for i := range rels {
		added, err := c.Engine.AddRelationship(c.Ctx, rels[i])
		if err != nil {
			return domain.NewError(domain.ErrInternal, "weave %s: %v", rels[i].RelationshipType, err).
				WithDetail("type", string(rels[i].RelationshipType))
		}
		rels[i] = added
	}
	return nil
}
