package generate

import (
	"fmt"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

func init() {
	register(domain.EntityBusinessCapability, generateCapabilities)
}

var capabilityNames = []string{
	"Order Management", "Customer Onboarding", "Payment Processing", "Risk Assessment",
	"Product Development", "Supply Chain Management", "Human Capital Management",
	"Financial Reporting", "Regulatory Compliance", "Customer Support",
	"Data Analytics", "Incident Response", "Vendor Management", "Marketing Operations",
}

var capabilityMaturities = []string{"initial", "developing", "defined", "managed", "optimized"}

func generateCapabilities(c *GenerationContext, count int) ([]domain.Entity, error) {
	selected := PickN(c, capabilityNames, count)
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("Capability %d", i+1)
		if i < len(selected) {
			name = selected[i]
		}
		e := c.NewEntity(domain.EntityBusinessCapability, name)
		e.Description = fmt.Sprintf("%s capability at %s", name, c.Profile.Name)
		e.Fields["maturity_level"] = Pick(c, capabilityMaturities)
		e.Fields["criticality"] = Pick(c, []string{"low", "medium", "high", "critical"})
		e.Tags = []string{"capability"}
		out = append(out, e)
	}
	return out, nil
}
