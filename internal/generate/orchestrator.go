package generate

import (
	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/scaling"
)

// GeneratorFunc emits count entities of one kind, reading whatever
// already-generated context it needs (e.g. the role generator reads
// departments). It is a stateless function over the shared context.
type GeneratorFunc func(c *GenerationContext, count int) ([]domain.Entity, error)

var registry = map[domain.EntityType]GeneratorFunc{}

func register(kind domain.EntityType, fn GeneratorFunc) {
	registry[kind] = fn
}

// Result carries the orchestrator's output: the number of entities
// generated per kind. It is a named struct so Run can grow additional
// fields (e.g. timing) without changing its signature.
type Result struct {
	EntitiesByKind map[domain.EntityType]int
}

// Run drives the full pipeline: scale, generate, store, layer by layer in
// GENERATION_ORDER, then returns a per-kind count summary. It does not
// run the weaver or the assessor; callers compose those separately so
// tests can exercise generation alone.
func Run(c *GenerationContext) (Result, error) {
	result := Result{EntitiesByKind: map[domain.EntityType]int{}}
	for _, layer := range domain.LayerOrder {
		for _, kind := range domain.KindsInLayer(layer) {
			count, err := resolveCount(c, kind)
			if err != nil {
				return result, err
			}
			fn, ok := registry[kind]
			if !ok {
				continue
			}
			entities, err := fn(c, count)
			if err != nil {
				return result, err
			}
			if err := c.AddAll(kind, entities); err != nil {
				return result, err
			}
			result.EntitiesByKind[kind] = len(entities)
		}
	}
	return result, nil
}

// resolveCount returns how many entities of kind to generate. Derived
// kinds compute their own count inside the generator function (signalled
// here by returning 0 and letting the generator decide internally via
// context state already populated by an earlier layer); scaled kinds
// draw uniformly from the scaled range.
func resolveCount(c *GenerationContext, kind domain.EntityType) (int, error) {
	if kind == domain.EntityPerson {
		return c.Profile.EmployeeCount, nil
	}
	if kind.IsDerived() {
		return 0, nil
	}
	if kind == domain.EntityLocation {
		n := locationCount(c)
		return n, nil
	}
	bounds, ok := kindBounds[kind]
	if !ok {
		return 0, nil
	}
	coeff, ok := coefficientFor(kind, c.Coeffs)
	if !ok || coeff <= 0 {
		return bounds.Floor, nil
	}
	r := scaling.ScaledRange(c.Profile.EmployeeCount, coeff, bounds.Floor, bounds.Ceiling)
	return c.IntRange(r.Low, r.High+1), nil
}

// locationCount implements the profile-specific dynamic formula from the
// scaling model: max(1, min(ceiling, emp/N + 1)) with N keyed by industry.
func locationCount(c *GenerationContext) int {
	if c.Profile.LocationCount > 0 {
		return c.Profile.LocationCount
	}
	n := 400
	switch c.Profile.Industry {
	case "financial_services":
		n = 300
	case "healthcare":
		n = 200
	}
	count := c.Profile.EmployeeCount/n + 1
	if count < 1 {
		count = 1
	}
	const ceiling = 60
	if count > ceiling {
		count = ceiling
	}
	return count
}
