package generate

import (
	"fmt"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

func init() {
	register(domain.EntityLocation, generateLocations)
}

var locationCities = []struct {
	City, Country, Timezone string
}{
	{"Austin", "US", "America/Chicago"},
	{"Dublin", "IE", "Europe/Dublin"},
	{"Singapore", "SG", "Asia/Singapore"},
	{"London", "GB", "Europe/London"},
	{"Toronto", "CA", "America/Toronto"},
	{"Bangalore", "IN", "Asia/Kolkata"},
	{"Krakow", "PL", "Europe/Warsaw"},
	{"Sao Paulo", "BR", "America/Sao_Paulo"},
	{"Sydney", "AU", "Australia/Sydney"},
	{"Denver", "US", "America/Denver"},
	{"Amsterdam", "NL", "Europe/Amsterdam"},
	{"Tokyo", "JP", "Asia/Tokyo"},
}

func generateLocations(c *GenerationContext, count int) ([]domain.Entity, error) {
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		site := locationCities[i%len(locationCities)]
		e := c.NewEntity(domain.EntityLocation, fmt.Sprintf("%s Office", site.City))
		e.Description = fmt.Sprintf("Office location in %s, %s", site.City, site.Country)
		e.Fields["city"] = site.City
		e.Fields["country"] = site.Country
		e.Fields["timezone"] = site.Timezone
		e.Tags = []string{"location", site.Country}
		out = append(out, e)
	}
	return out, nil
}
