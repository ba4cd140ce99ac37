// Package scaling computes industry- and size-aware entity count ranges
// for the synthetic generator, following the employees-per-entity
// coefficient model: a lower coefficient means denser infrastructure per
// employee.
package scaling

// Coefficients holds one industry's employees-per-entity ratios, one
// field per scaled (non-derived) entity kind except regulation, which has
// no field of its own: the generator scales it with Policies.
type Coefficients struct {
	Systems           float64
	Vendors           float64
	DataAssets        float64
	Policies          float64
	Controls          float64
	Risks             float64
	Threats           float64
	Integrations      float64
	DataDomains       float64
	DataFlows         float64
	OrgUnits          float64
	Capabilities      float64
	Sites             float64
	Geographies       float64
	Jurisdictions     float64
	ProductPortfolios float64
	Products          float64
	MarketSegments    float64
	Customers         float64
	Contracts         float64
	Initiatives       float64
	ThreatActors      float64
	Incidents         float64
}

// ByIndustry holds the coefficient table per recognized industry profile.
var ByIndustry = map[string]Coefficients{
	"technology": {
		Systems: 8, Vendors: 40, DataAssets: 15, Policies: 100, Controls: 50,
		Risks: 80, Threats: 200, Integrations: 30, DataDomains: 400, DataFlows: 25,
		OrgUnits: 150, Capabilities: 100, Sites: 500, Geographies: 1000,
		Jurisdictions: 1000, ProductPortfolios: 2000, Products: 200,
		MarketSegments: 1000, Customers: 100, Contracts: 60, Initiatives: 200,
		ThreatActors: 250, Incidents: 200,
	},
	"financial_services": {
		Systems: 12, Vendors: 35, DataAssets: 10, Policies: 40, Controls: 20,
		Risks: 30, Threats: 150, Integrations: 40, DataDomains: 300, DataFlows: 20,
		OrgUnits: 100, Capabilities: 80, Sites: 400, Geographies: 800,
		Jurisdictions: 600, ProductPortfolios: 1500, Products: 150,
		MarketSegments: 800, Customers: 50, Contracts: 40, Initiatives: 150,
		ThreatActors: 200, Incidents: 150,
	},
	"healthcare": {
		Systems: 15, Vendors: 50, DataAssets: 5, Policies: 50, Controls: 25,
		Risks: 40, Threats: 200, Integrations: 35, DataDomains: 200, DataFlows: 15,
		OrgUnits: 120, Capabilities: 100, Sites: 300, Geographies: 800,
		Jurisdictions: 600, ProductPortfolios: 2000, Products: 200,
		MarketSegments: 1000, Customers: 80, Contracts: 50, Initiatives: 200,
		ThreatActors: 300, Incidents: 100,
	},
}

// ForIndustry resolves an industry name to its coefficient table,
// falling back to the technology defaults for unrecognized names.
func ForIndustry(industry string) Coefficients {
	if c, ok := ByIndustry[industry]; ok {
		return c
	}
	return ByIndustry["technology"]
}

// SizeTierMultiplier is the organizational maturity multiplier: smaller
// orgs share infrastructure and run informal controls, large enterprises
// carry complex hierarchies and regulatory overhead.
func SizeTierMultiplier(employeeCount int) float64 {
	switch {
	case employeeCount < 250:
		return 0.7
	case employeeCount < 2000:
		return 1.0
	case employeeCount < 10000:
		return 1.2
	default:
		return 1.4
	}
}

// Range is an entity count band, inclusive at both ends.
type Range struct {
	Low  int
	High int
}

// ScaledRange computes the (low, high) entity count band for one kind,
// scaled by org size and industry maturity, then clamped to [floor,
// ceiling].
func ScaledRange(employeeCount int, coefficient float64, floor, ceiling int) Range {
	tier := SizeTierMultiplier(employeeCount)
	base := floor
	if computed := int(float64(employeeCount) / coefficient * tier); computed > base {
		base = computed
	}
	low := int(float64(base) * 0.8)
	if low < floor {
		low = floor
	}
	if low > ceiling-1 {
		low = ceiling - 1
	}
	high := int(float64(base) * 1.2)
	if high < low+1 {
		high = low + 1
	}
	if high > ceiling {
		high = ceiling
	}
	return Range{Low: low, High: high}
}

// Overrides lets a caller replace specific coefficients without having to
// restate the whole table; zero fields are left at the base value.
type Overrides struct {
	Systems      *float64
	Vendors      *float64
	DataAssets   *float64
	Policies     *float64
	Controls     *float64
	Risks        *float64
	ThreatActors *float64
	Incidents    *float64
}

// Merge applies non-nil override fields onto base and returns the result.
func Merge(base Coefficients, o Overrides) Coefficients {
	out := base
	if o.Systems != nil {
		out.Systems = *o.Systems
	}
	if o.Vendors != nil {
		out.Vendors = *o.Vendors
	}
	if o.DataAssets != nil {
		out.DataAssets = *o.DataAssets
	}
	if o.Policies != nil {
		out.Policies = *o.Policies
	}
	if o.Controls != nil {
		out.Controls = *o.Controls
	}
	if o.Risks != nil {
		out.Risks = *o.Risks
	}
	if o.ThreatActors != nil {
		out.ThreatActors = *o.ThreatActors
	}
	if o.Incidents != nil {
		out.Incidents = *o.Incidents
	}
	return out
}
