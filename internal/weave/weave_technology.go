package weave

import "github.com/thehipsterciso/hc-enterprise-kg/internal/domain"

var dependencyTypes = []string{"runtime", "build", "data", "auth", "monitoring"}

// weaveDependsOn draws a sparse dependency graph among systems: each
// system depends on a handful of others with higher index (keeps the
// graph roughly acyclic without needing a cycle check).
func (c *Context) weaveDependsOn() []domain.Relationship {
	var out []domain.Relationship
	systems := c.Entities(domain.EntitySystem)
	for i, s := range systems {
		if i == len(systems)-1 {
			break
		}
		nDeps := 1 + c.intn(3)
		for d := 0; d < nDeps; d++ {
			j := i + 1 + c.intn(len(systems)-i-1)
			target := systems[j]
			depType := dependencyTypes[c.intn(len(dependencyTypes))]
			weight := c.floatIn(0.5, 1.0)
			c.emit(&out, domain.RelDependsOn, s, target, weight, c.confidence(bandDependency),
				map[string]any{"dependency_type": depType})
		}
	}
	return out
}

// weaveHosts links each network to the systems physically attached to it.
func (c *Context) weaveHosts() []domain.Relationship {
	var out []domain.Relationship
	networks := c.Entities(domain.EntityNetwork)
	if len(networks) == 0 {
		return out
	}
	for _, s := range c.Entities(domain.EntitySystem) {
		n := c.pick(networks)
		c.emit(&out, domain.RelHosts, n, s, 1.0, c.confidence(bandOrganisational),
			map[string]any{"placement": n.FieldString("zone")})
	}
	return out
}

// weaveIntegratesWith links each integration to the system it exposes.
func (c *Context) weaveIntegratesWith() []domain.Relationship {
	var out []domain.Relationship
	systems := c.Entities(domain.EntitySystem)
	if len(systems) == 0 {
		return out
	}
	for _, integ := range c.Entities(domain.EntityIntegration) {
		s := c.pick(systems)
		c.emit(&out, domain.RelIntegratesWith, s, integ, c.floatIn(0.5, 1.0), c.confidence(bandDependency),
			map[string]any{"protocol": integ.FieldString("protocol")})
	}
	return out
}

// weaveConnectsTo links networks at the same location into a segmented
// topology (dmz <-> internal).
func (c *Context) weaveConnectsTo() []domain.Relationship {
	var out []domain.Relationship
	byLocation := map[string][]domain.Entity{}
	for _, n := range c.Entities(domain.EntityNetwork) {
		byLocation[n.FieldString("location_id")] = append(byLocation[n.FieldString("location_id")], n)
	}
	for _, nets := range byLocation {
		for i := 0; i < len(nets); i++ {
			for j := i + 1; j < len(nets); j++ {
				c.emit(&out, domain.RelConnectsTo, nets[i], nets[j], c.floatIn(0.6, 1.0), c.confidence(bandDependency),
					map[string]any{"topology": "segmented"})
			}
		}
	}
	return out
}

// weaveRunsOn places each system at a location.
func (c *Context) weaveRunsOn() []domain.Relationship {
	var out []domain.Relationship
	locations := c.Entities(domain.EntityLocation)
	if len(locations) == 0 {
		return out
	}
	for _, s := range c.Entities(domain.EntitySystem) {
		loc := c.pick(locations)
		c.emit(&out, domain.RelRunsOn, s, loc, 1.0, c.confidence(bandOrganisational),
			map[string]any{"environment": s.FieldString("environment")})
	}
	return out
}

// weaveOwnsSystem assigns system ownership to the department most likely
// to run it (rotates through departments deterministically by index).
func (c *Context) weaveOwnsSystem() []domain.Relationship {
	var out []domain.Relationship
	departments := c.Entities(domain.EntityDepartment)
	if len(departments) == 0 {
		return out
	}
	for i, s := range c.Entities(domain.EntitySystem) {
		d := departments[i%len(departments)]
		c.emit(&out, domain.RelOwnsSystem, d, s, 1.0, c.confidence(bandOrganisational),
			map[string]any{"ownership": "operational"})
	}
	return out
}
