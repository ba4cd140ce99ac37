package analytics

import (
	"context"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
)

// RiskScore computes the per-entity formula
// 10*v + 25*crit_v + 2*deg + 20*internet_edges, clamped to [0, 100], where
// v is the count of connected vulnerabilities and crit_v the count of
// those with severity critical.
func RiskScore(ctx context.Context, eng engine.Engine, entityID string) (float64, error) {
	if _, err := eng.GetEntity(ctx, entityID); err != nil {
		return 0, err
	}

	neighbors, err := eng.Neighbors(ctx, entityID, engine.DirBoth, nil)
	if err != nil {
		return 0, err
	}

	v, critV, internetEdges := 0, 0, 0
	for _, n := range neighbors {
		if n.EntityType == domain.EntityVulnerability {
			v++
			if n.FieldString("severity") == "critical" {
				critV++
			}
		}
		if n.EntityType == domain.EntitySystem && n.FieldBool("is_internet_facing") {
			internetEdges++
		}
	}

	deg := len(neighbors)
	score := 10*float64(v) + 25*float64(critV) + 2*float64(deg) + 20*float64(internetEdges)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}
