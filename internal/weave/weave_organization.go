package weave

import "github.com/thehipsterciso/hc-enterprise-kg/internal/domain"

// weaveWorksIn links every person to their department, a pure
// organisational fact.
func (c *Context) weaveWorksIn() []domain.Relationship {
	var out []domain.Relationship
	departments := indexByID(c.Entities(domain.EntityDepartment))
	for _, p := range c.Entities(domain.EntityPerson) {
		deptID := p.FieldString("department_id")
		dept, ok := departments[deptID]
		if !ok {
			continue
		}
		c.emit(&out, domain.RelWorksIn, p, dept, 1.0, c.confidence(bandOrganisational),
			map[string]any{"relationship_basis": "department_assignment"})
	}
	return out
}

// weaveReportsTo draws a management chain within each department: one
// person (the first in generation order) manages the rest.
func (c *Context) weaveReportsTo() []domain.Relationship {
	var out []domain.Relationship
	byDept := map[string][]domain.Entity{}
	for _, p := range c.Entities(domain.EntityPerson) {
		byDept[p.FieldString("department_id")] = append(byDept[p.FieldString("department_id")], p)
	}
	for _, people := range byDept {
		if len(people) < 2 {
			continue
		}
		manager := people[0]
		for _, report := range people[1:] {
			c.emit(&out, domain.RelReportsTo, report, manager, 1.0, c.confidence(bandOrganisational),
				map[string]any{"chain_depth": 1})
			c.emit(&out, domain.RelManages, manager, report, 1.0, c.confidence(bandOrganisational),
				map[string]any{"span_of_control": len(people) - 1})
		}
		c.emit(&out, domain.RelManages, manager, deptOf(c, manager), 1.0, c.confidence(bandOrganisational),
			map[string]any{"role": "department_head"})
	}
	return out
}

func deptOf(c *Context, p domain.Entity) domain.Entity {
	departments := indexByID(c.Entities(domain.EntityDepartment))
	return departments[p.FieldString("department_id")]
}

// weaveBelongsToAndParentOf links each parent department to its
// sub-departments via parent_of, and every department to an
// organizational_unit (round-robin) via belongs_to.
func (c *Context) weaveBelongsToAndParentOf() []domain.Relationship {
	var out []domain.Relationship
	departments := indexByID(c.Entities(domain.EntityDepartment))
	for _, d := range c.Entities(domain.EntityDepartment) {
		parentID := d.FieldString("parent_department_id")
		if parentID == "" {
			continue
		}
		parent, ok := departments[parentID]
		if !ok {
			continue
		}
		c.emit(&out, domain.RelParentOf, parent, d, 1.0, c.confidence(bandOrganisational),
			map[string]any{"structure": "subdivision"})
	}
	units := c.Entities(domain.EntityOrganizationalUnit)
	deptList := c.Entities(domain.EntityDepartment)
	if len(units) == 0 || len(deptList) == 0 {
		return out
	}
	for i, d := range deptList {
		u := units[i%len(units)]
		c.emit(&out, domain.RelBelongsTo, d, u, 1.0, c.confidence(bandOrganisational),
			map[string]any{"structure": "unit_membership"})
	}
	return out
}

// weaveHasRole connects each person to the role they hold, filled in
// during people generation via person.holds_roles.
func (c *Context) weaveHasRole() []domain.Relationship {
	var out []domain.Relationship
	roles := indexByID(c.Entities(domain.EntityRole))
	for _, p := range c.Entities(domain.EntityPerson) {
		for _, roleID := range p.FieldStringSlice("holds_roles") {
			role, ok := roles[roleID]
			if !ok {
				continue
			}
			c.emit(&out, domain.RelHasRole, p, role, 1.0, c.confidence(bandOrganisational),
				map[string]any{"assignment": "primary"})
		}
	}
	return out
}

// weaveLocatedAt places every person, department, and system at a
// location drawn uniformly at random.
func (c *Context) weaveLocatedAt() []domain.Relationship {
	var out []domain.Relationship
	locations := c.Entities(domain.EntityLocation)
	if len(locations) == 0 {
		return out
	}
	for _, p := range c.Entities(domain.EntityPerson) {
		loc := c.pick(locations)
		c.emit(&out, domain.RelLocatedAt, p, loc, 1.0, c.confidence(bandOrganisational),
			map[string]any{"basis": "office_assignment"})
	}
	for _, d := range c.Entities(domain.EntityDepartment) {
		loc := c.pick(locations)
		c.emit(&out, domain.RelLocatedAt, d, loc, 1.0, c.confidence(bandOrganisational),
			map[string]any{"basis": "department_site"})
	}
	for _, s := range c.Entities(domain.EntitySystem) {
		loc := c.pick(locations)
		c.emit(&out, domain.RelLocatedAt, s, loc, 1.0, c.confidence(bandDependency),
			map[string]any{"basis": "hosting_location"})
	}
	return out
}

func indexByID(entities []domain.Entity) map[string]domain.Entity {
	out := make(map[string]domain.Entity, len(entities))
	for _, e := range entities {
		out[e.ID] = e
	}
	return out
}
