package generate

import (
	"fmt"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

func init() {
	register(domain.EntityDataAsset, generateDataAssets)
	register(domain.EntityDataDomain, generateDataDomains)
	register(domain.EntityDataFlow, generateDataFlows)
}

var dataAssetKinds = []string{"Customer Records", "Financial Ledger", "Employee Records", "Source Code Repository", "Audit Log", "Telemetry Dataset", "Contract Archive"}
var classifications = []string{"public", "internal", "confidential", "restricted"}

func generateDataAssets(c *GenerationContext, count int) ([]domain.Entity, error) {
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		kind := Pick(c, dataAssetKinds)
		classification := Pick(c, classifications)
		e := c.NewEntity(domain.EntityDataAsset, fmt.Sprintf("%s #%d", kind, i+1))
		e.Description = fmt.Sprintf("%s classified as %s", kind, classification)
		e.Fields["asset_type"] = kind
		e.Fields["classification"] = classification
		e.Fields["retention_years"] = Pick(c, []int{1, 3, 5, 7, 10})
		e.Tags = []string{classification}
		out = append(out, e)
	}
	return out, nil
}

var dataDomainNames = []string{"Customer Data", "Financial Data", "Employee Data", "Product Data", "Security Telemetry", "Operational Data"}

func generateDataDomains(c *GenerationContext, count int) ([]domain.Entity, error) {
	selected := PickN(c, dataDomainNames, count)
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("Domain %d", i+1)
		if i < len(selected) {
			name = selected[i]
		}
		e := c.NewEntity(domain.EntityDataDomain, name)
		e.Description = fmt.Sprintf("Data domain covering %s", name)
		e.Fields["steward"] = Pick(c, []string{"Data Governance Office", "Engineering", "Finance", "Security"})
		e.Tags = []string{"data-domain"}
		out = append(out, e)
	}
	return out, nil
}

var transferMethods = []string{"API", "ETL", "File Transfer", "Streaming", "Replication"}

func generateDataFlows(c *GenerationContext, count int) ([]domain.Entity, error) {
	systems := c.Entities(domain.EntitySystem)
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		srcName, tgtName := "External Source", "External Target"
		var srcID, tgtID string
		if len(systems) > 0 {
			src := Pick(c, systems)
			tgt := Pick(c, systems)
			srcName, tgtName = src.Name, tgt.Name
			srcID, tgtID = src.ID, tgt.ID
		}
		classification := Pick(c, classifications)
		// invariant: restricted/confidential flows must be encrypted in transit.
		encrypted := c.Rand.Float64() < 0.7
		if classification == "restricted" || classification == "confidential" {
			encrypted = true
		}
		e := c.NewEntity(domain.EntityDataFlow, fmt.Sprintf("Flow: %s -> %s", srcName, tgtName))
		e.Description = fmt.Sprintf("Data flow from %s to %s", srcName, tgtName)
		e.Fields["classification"] = classification
		e.Fields["transfer_method"] = Pick(c, transferMethods)
		e.Fields["encryption_in_transit"] = encrypted
		e.Fields["status"] = Pick(c, []string{"active", "inactive", "under_review"})
		if srcID != "" {
			e.Fields["source_system_id"] = srcID
			e.Fields["target_system_id"] = tgtID
		}
		e.Tags = []string{classification}
		out = append(out, e)
	}
	return out, nil
}
