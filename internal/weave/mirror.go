package weave

import "github.com/thehipsterciso/hc-enterprise-kg/internal/domain"

// populateMirrorFields sweeps the committed graph once and sets the
// closed, declared mirror fields on entities: person.holds_roles,
// role.filled_by_persons, role.headcount_filled, person.located_at.
func (c *Context) populateMirrorFields() error {
	rels, err := c.Engine.AllRelationships(c.Ctx)
	if err != nil {
		return err
	}

	rolesByPerson := map[string][]string{}
	personsByRole := map[string][]string{}
	locationByPerson := map[string]string{}

	for _, r := range rels {
		switch r.RelationshipType {
		case domain.RelHasRole:
			rolesByPerson[r.SourceID] = append(rolesByPerson[r.SourceID], r.TargetID)
			personsByRole[r.TargetID] = append(personsByRole[r.TargetID], r.SourceID)
		case domain.RelLocatedAt:
			if _, seen := locationByPerson[r.SourceID]; !seen {
				locationByPerson[r.SourceID] = r.TargetID
			}
		}
	}

	for _, p := range c.Entities(domain.EntityPerson) {
		patch := map[string]any{}
		if roles, ok := rolesByPerson[p.ID]; ok {
			patch["holds_roles"] = roles
		}
		if loc, ok := locationByPerson[p.ID]; ok {
			patch["located_at"] = loc
		}
		if len(patch) == 0 {
			continue
		}
		if _, err := c.Engine.UpdateEntity(c.Ctx, p.ID, patch); err != nil {
			return err
		}
	}

	for _, r := range c.Entities(domain.EntityRole) {
		persons := personsByRole[r.ID]
		patch := map[string]any{
			"filled_by_persons": persons,
			"headcount_filled":  len(persons),
		}
		if _, err := c.Engine.UpdateEntity(c.Ctx, r.ID, patch); err != nil {
			return err
		}
	}

	return nil
}
