package generate

import (
	"fmt"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

func init() {
	register(domain.EntityVendor, generateVendors)
	register(domain.EntityContract, generateContracts)
}

var vendorCategories = []string{"cloud_infrastructure", "software", "professional_services", "hardware", "telecom", "facilities"}
var vendorNameStems = []string{"Nimbus", "Apex", "Vertex", "Helios", "Quantum", "Pioneer", "Meridian", "Summit", "Beacon", "Catalyst"}

func generateVendors(c *GenerationContext, count int) ([]domain.Entity, error) {
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		category := Pick(c, vendorCategories)
		name := fmt.Sprintf("%s %s", Pick(c, vendorNameStems), Pick(c, []string{"Technologies", "Systems", "Solutions", "Partners"}))
		e := c.NewEntity(domain.EntityVendor, name)
		e.Description = fmt.Sprintf("%s vendor providing %s", name, category)
		e.Fields["category"] = category
		e.Fields["risk_tier"] = Pick(c, []string{"low", "medium", "high", "critical"})
		e.Fields["is_critical_supplier"] = c.Rand.Float64() < 0.15
		e.Tags = []string{category}
		out = append(out, e)
	}
	return out, nil
}

var contractStatuses = []string{"active", "expired", "pending_renewal", "terminated"}

func generateContracts(c *GenerationContext, count int) ([]domain.Entity, error) {
	vendors := c.Entities(domain.EntityVendor)
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		var vendorID, vendorName string
		if len(vendors) > 0 {
			v := Pick(c, vendors)
			vendorID, vendorName = v.ID, v.Name
		}
		e := c.NewEntity(domain.EntityContract, fmt.Sprintf("Contract #%04d — %s", i+1, vendorName))
		e.Description = fmt.Sprintf("Service contract with %s", vendorName)
		e.Fields["vendor_id"] = vendorID
		e.Fields["status"] = Pick(c, contractStatuses)
		e.Fields["annual_value"] = c.IntRange(5000, 5000000)
		e.Tags = []string{"contract"}
		out = append(out, e)
	}
	return out, nil
}
