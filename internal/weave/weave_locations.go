package weave

import "github.com/thehipsterciso/hc-enterprise-kg/internal/domain"

// weaveGeographyHierarchy links sites into geographies, jurisdictions into
// the geographies they are part of, and back from geography to site.
func (c *Context) weaveGeographyHierarchy() []domain.Relationship {
	var out []domain.Relationship
	geos := c.Entities(domain.EntityGeography)
	jurisdictions := c.Entities(domain.EntityJurisdiction)
	if len(geos) == 0 {
		return out
	}
	for _, s := range c.Entities(domain.EntitySite) {
		g := c.pick(geos)
		c.emit(&out, domain.RelLocatedIn, s, g, 1.0, c.confidence(bandOrganisational),
			map[string]any{"site_function": s.FieldString("site_function")})
		c.emit(&out, domain.RelHostsSite, g, s, 1.0, c.confidence(bandOrganisational),
			map[string]any{"site_function": s.FieldString("site_function")})
	}
	if len(jurisdictions) == 0 {
		return out
	}
	for _, j := range jurisdictions {
		g := c.pick(geos)
		c.emit(&out, domain.RelPartOf, j, g, 1.0, c.confidence(bandOrganisational),
			map[string]any{"framework": j.FieldString("primary_framework")})
	}
	return out
}
