package weave

import "github.com/thehipsterciso/hc-enterprise-kg/internal/domain"

// weaveCapabilities links business capabilities to the systems that
// support and enable them, and the department that owns each one.
func (c *Context) weaveCapabilities() []domain.Relationship {
	var out []domain.Relationship
	systems := c.Entities(domain.EntitySystem)
	departments := c.Entities(domain.EntityDepartment)
	for i, cap := range c.Entities(domain.EntityBusinessCapability) {
		if len(systems) > 0 {
			s := c.pick(systems)
			c.emit(&out, domain.RelSupports, cap, s, c.floatIn(0.6, 1.0), c.confidence(bandDependency),
				map[string]any{"maturity": cap.FieldString("maturity_level")})
			s2 := c.pick(systems)
			c.emit(&out, domain.RelEnables, s2, cap, c.floatIn(0.6, 1.0), c.confidence(bandDependency),
				map[string]any{"criticality": cap.FieldString("criticality")})
		}
		if len(departments) > 0 {
			d := departments[i%len(departments)]
			c.emit(&out, domain.RelOwnsCapability, d, cap, 1.0, c.confidence(bandOrganisational),
				map[string]any{"ownership": "accountable"})
		}
	}
	return out
}
