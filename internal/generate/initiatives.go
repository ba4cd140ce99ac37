package generate

import (
	"fmt"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

func init() {
	register(domain.EntityInitiative, generateInitiatives)
}

var initiativeThemes = []string{"Cloud Migration", "Zero Trust Rollout", "Data Platform Modernization", "Customer Experience Revamp", "Cost Optimization", "AI Adoption", "Regulatory Remediation", "Digital Transformation"}
var initiativeStatuses = []string{"planned", "in_progress", "on_hold", "completed", "cancelled"}

func generateInitiatives(c *GenerationContext, count int) ([]domain.Entity, error) {
	departments := c.Entities(domain.EntityDepartment)
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		theme := Pick(c, initiativeThemes)
		var sponsorID, sponsorName string
		if len(departments) > 0 {
			d := Pick(c, departments)
			sponsorID, sponsorName = d.ID, d.Name
		}
		e := c.NewEntity(domain.EntityInitiative, fmt.Sprintf("%s Initiative", theme))
		e.Description = fmt.Sprintf("%s sponsored by %s", theme, sponsorName)
		e.Fields["status"] = Pick(c, initiativeStatuses)
		e.Fields["sponsor_department_id"] = sponsorID
		e.Fields["budget"] = c.IntRange(50000, 10000000)
		e.Tags = []string{"initiative"}
		out = append(out, e)
	}
	return out, nil
}
