package generate

import (
	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/scaling"
)

// countBounds is the (floor, ceiling) pair fed into scaling.ScaledRange
// for one non-derived entity kind. Derived kinds (department, role,
// network, vulnerability, person) compute their count by other means and
// have no entry here.
type countBounds struct {
	Floor, Ceiling int
}

var kindBounds = map[domain.EntityType]countBounds{
	domain.EntitySystem:             {20, 600},
	domain.EntityVendor:              {5, 200},
	domain.EntityDataAsset:           {10, 400},
	domain.EntityPolicy:              {5, 120},
	domain.EntityControl:             {5, 150},
	domain.EntityRisk:                {3, 100},
	domain.EntityThreat:              {2, 60},
	domain.EntityThreatActor:         {2, 20},
	domain.EntityIncident:            {0, 80},
	domain.EntityRegulation:          {3, 40},
	domain.EntityIntegration:         {3, 100},
	domain.EntityDataDomain:          {3, 30},
	domain.EntityDataFlow:            {4, 120},
	domain.EntityOrganizationalUnit:  {3, 40},
	domain.EntityBusinessCapability:  {5, 60},
	domain.EntitySite:                {2, 40},
	domain.EntityGeography:           {2, 20},
	domain.EntityJurisdiction:        {2, 20},
	domain.EntityProductPortfolio:    {1, 10},
	domain.EntityProduct:             {3, 60},
	domain.EntityMarketSegment:       {2, 20},
	domain.EntityCustomer:            {5, 150},
	domain.EntityContract:            {5, 150},
	domain.EntityInitiative:          {3, 40},
}

// coefficientFor reads the matching field off a scaling.Coefficients
// value for kind. Returns ok=false for kinds with no scaled coefficient
// (derived kinds, and location which uses the dynamic formula instead).
func coefficientFor(kind domain.EntityType, c scaling.Coefficients) (float64, bool) {
	switch kind {
	case domain.EntitySystem:
		return c.Systems, true
	case domain.EntityVendor:
		return c.Vendors, true
	case domain.EntityDataAsset:
		return c.DataAssets, true
	case domain.EntityPolicy:
		return c.Policies, true
	case domain.EntityControl:
		return c.Controls, true
	case domain.EntityRisk:
		return c.Risks, true
	case domain.EntityThreat:
		return c.Threats, true
	case domain.EntityThreatActor:
		return c.ThreatActors, true
	case domain.EntityIncident:
		return c.Incidents, true
	case domain.EntityRegulation:
		return c.Policies, true
	case domain.EntityIntegration:
		return c.Integrations, true
	case domain.EntityDataDomain:
		return c.DataDomains, true
	case domain.EntityDataFlow:
		return c.DataFlows, true
	case domain.EntityOrganizationalUnit:
		return c.OrgUnits, true
	case domain.EntityBusinessCapability:
		return c.Capabilities, true
	case domain.EntitySite:
		return c.Sites, true
	case domain.EntityGeography:
		return c.Geographies, true
	case domain.EntityJurisdiction:
		return c.Jurisdictions, true
	case domain.EntityProductPortfolio:
		return c.ProductPortfolios, true
	case domain.EntityProduct:
		return c.Products, true
	case domain.EntityMarketSegment:
		return c.MarketSegments, true
	case domain.EntityCustomer:
		return c.Customers, true
	case domain.EntityContract:
		return c.Contracts, true
	case domain.EntityInitiative:
		return c.Initiatives, true
	default:
		return 0, false
	}
}
