package generate

import (
	"fmt"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

func init() {
	register(domain.EntitySite, generateSites)
	register(domain.EntityGeography, generateGeographies)
	register(domain.EntityJurisdiction, generateJurisdictions)
}

var siteFunctions = []string{"headquarters", "regional_office", "data_center", "satellite_office", "disaster_recovery"}

// generateSites elaborates each office location into one or more
// functional sites (a data center, a satellite desk, and so on).
func generateSites(c *GenerationContext, count int) ([]domain.Entity, error) {
	locations := c.Entities(domain.EntityLocation)
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		fn := siteFunctions[0]
		if i > 0 {
			fn = Pick(c, siteFunctions[1:])
		}
		var locID, locName string
		if len(locations) > 0 {
			loc := locations[i%len(locations)]
			locID, locName = loc.ID, loc.Name
		}
		siteType := "Office"
		securityTier := "standard"
		if fn == "data_center" {
			siteType = "Data Center"
			securityTier = "restricted" // invariant: data centers carry restricted physical security
		}

		e := c.NewEntity(domain.EntitySite, fmt.Sprintf("%s (%s)", locName, fn))
		e.Description = fmt.Sprintf("%s site at %s", fn, locName)
		e.Fields["site_function"] = fn
		e.Fields["site_type"] = siteType
		e.Fields["physical_security_tier"] = securityTier
		e.Fields["location_id"] = locID
		e.Fields["capacity"] = c.IntRange(50, 2000)
		e.Tags = []string{fn}
		out = append(out, e)
	}
	return out, nil
}

var geographyRegions = []string{"North America", "EMEA", "APAC", "LATAM"}

func generateGeographies(c *GenerationContext, count int) ([]domain.Entity, error) {
	selected := PickN(c, geographyRegions, count)
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("Region %d", i+1)
		if i < len(selected) {
			name = selected[i]
		}
		e := c.NewEntity(domain.EntityGeography, name)
		e.Description = fmt.Sprintf("%s operating region", name)
		e.Tags = []string{"geography"}
		out = append(out, e)
	}
	return out, nil
}

var jurisdictionFrameworks = []struct{ Name, Framework string }{
	{"United States", "CCPA"},
	{"European Union", "GDPR"},
	{"United Kingdom", "UK GDPR"},
	{"Singapore", "PDPA"},
	{"Brazil", "LGPD"},
	{"Canada", "PIPEDA"},
	{"India", "DPDP"},
	{"Australia", "Privacy Act 1988"},
}

func generateJurisdictions(c *GenerationContext, count int) ([]domain.Entity, error) {
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		j := jurisdictionFrameworks[i%len(jurisdictionFrameworks)]
		e := c.NewEntity(domain.EntityJurisdiction, j.Name)
		e.Description = fmt.Sprintf("%s data protection jurisdiction", j.Name)
		e.Fields["primary_framework"] = j.Framework
		e.Tags = []string{"jurisdiction"}
		out = append(out, e)
	}
	return out, nil
}
