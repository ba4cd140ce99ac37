package generate

import (
	"fmt"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

func init() {
	register(domain.EntityMarketSegment, generateMarketSegments)
	register(domain.EntityCustomer, generateCustomers)
}

var marketSegmentNames = []string{"Enterprise", "Mid-Market", "SMB", "Public Sector", "Consumer"}

func generateMarketSegments(c *GenerationContext, count int) ([]domain.Entity, error) {
	selected := PickN(c, marketSegmentNames, count)
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("Segment %d", i+1)
		if i < len(selected) {
			name = selected[i]
		}
		e := c.NewEntity(domain.EntityMarketSegment, name)
		e.Description = fmt.Sprintf("%s market segment", name)
		e.Tags = []string{"segment"}
		out = append(out, e)
	}
	return out, nil
}

var customerTiers = []string{"strategic", "key", "standard", "churn_risk"}
var customerNameStems = []string{"Acme", "Globex", "Initech", "Umbrella", "Stark", "Wayne", "Hooli", "Soylent", "Vandelay", "Wonka"}

func generateCustomers(c *GenerationContext, count int) ([]domain.Entity, error) {
	segments := c.Entities(domain.EntityMarketSegment)
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s %s", Pick(c, customerNameStems), Pick(c, []string{"Corp", "Inc", "Holdings", "Group", "LLC"}))
		var segmentID string
		if len(segments) > 0 {
			segmentID = Pick(c, segments).ID
		}
		e := c.NewEntity(domain.EntityCustomer, name)
		e.Description = fmt.Sprintf("%s customer account", name)
		e.Fields["tier"] = Pick(c, customerTiers)
		e.Fields["market_segment_id"] = segmentID
		e.Fields["annual_contract_value"] = c.IntRange(10000, 2000000)
		e.Tags = []string{"customer"}
		out = append(out, e)
	}
	return out, nil
}
