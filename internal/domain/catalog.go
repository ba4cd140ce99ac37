// Package domain holds the closed entity/relationship catalog, the base
// identity/temporal fields every entity and relationship carries, and the
// invariants that the engine enforces on every write.
package domain

// EntityType is the discriminant of the entity catalog. It is a closed set:
// IsValid reports whether a value belongs to it.
type EntityType string

const (
	EntityLocation EntityType = "location"

	EntityPolicy        EntityType = "policy"
	EntityRegulation     EntityType = "regulation"
	EntityControl        EntityType = "control"
	EntityRisk           EntityType = "risk"
	EntityThreat         EntityType = "threat"
	EntityVulnerability  EntityType = "vulnerability"
	EntityThreatActor    EntityType = "threat_actor"
	EntityIncident       EntityType = "incident"

	EntityNetwork     EntityType = "network"
	EntitySystem      EntityType = "system"
	EntityIntegration EntityType = "integration"

	EntityDataAsset  EntityType = "data_asset"
	EntityDataDomain EntityType = "data_domain"
	EntityDataFlow   EntityType = "data_flow"

	EntityDepartment          EntityType = "department"
	EntityOrganizationalUnit  EntityType = "organizational_unit"

	EntityPerson EntityType = "person"
	EntityRole   EntityType = "role"

	EntityBusinessCapability EntityType = "business_capability"

	EntitySite        EntityType = "site"
	EntityGeography    EntityType = "geography"
	EntityJurisdiction EntityType = "jurisdiction"

	EntityProductPortfolio EntityType = "product_portfolio"
	EntityProduct          EntityType = "product"

	EntityMarketSegment EntityType = "market_segment"
	EntityCustomer      EntityType = "customer"

	EntityVendor   EntityType = "vendor"
	EntityContract EntityType = "contract"

	EntityInitiative EntityType = "initiative"
)

// GenerationLayer orders the synthetic pipeline: entities in layer N must
// exist before any generator in layer M>N runs.
type GenerationLayer int

const (
	LayerFoundation GenerationLayer = iota // L00
	LayerCompliance                         // L01
	LayerTechnology                         // L02
	LayerData                               // L03
	LayerOrganization                       // L04
	LayerPeople                             // L05
	LayerCapabilities                       // L06
	LayerLocations                          // L07
	LayerProducts                           // L08
	LayerCustomers                          // L09
	LayerVendors                            // L10
	LayerInitiatives                        // L11
	layerCount
)

// EntityCatalog maps every closed entity kind to its generation layer and
// whether its count is derived (never user-overridable, per the scaling
// model) rather than drawn from scaled_range.
type entityCatalogEntry struct {
	Layer     GenerationLayer
	Derived   bool
}

var entityCatalog = map[EntityType]entityCatalogEntry{
	EntityLocation: {LayerFoundation, false},

	EntityPolicy:       {LayerCompliance, false},
	EntityRegulation:    {LayerCompliance, false},
	EntityControl:       {LayerCompliance, false},
	EntityRisk:          {LayerCompliance, false},
	EntityThreat:        {LayerCompliance, false},
	EntityVulnerability: {LayerCompliance, true},
	EntityThreatActor:   {LayerCompliance, false},
	EntityIncident:      {LayerCompliance, false},

	EntityNetwork:     {LayerTechnology, true},
	EntitySystem:      {LayerTechnology, false},
	EntityIntegration: {LayerTechnology, false},

	EntityDataAsset:  {LayerData, false},
	EntityDataDomain: {LayerData, false},
	EntityDataFlow:   {LayerData, false},

	EntityDepartment:         {LayerOrganization, true},
	EntityOrganizationalUnit: {LayerOrganization, false},

	EntityPerson: {LayerPeople, true},
	EntityRole:   {LayerPeople, true},

	EntityBusinessCapability: {LayerCapabilities, false},

	EntitySite:        {LayerLocations, false},
	EntityGeography:    {LayerLocations, false},
	EntityJurisdiction: {LayerLocations, false},

	EntityProductPortfolio: {LayerProducts, false},
	EntityProduct:          {LayerProducts, false},

	EntityMarketSegment: {LayerCustomers, false},
	EntityCustomer:      {LayerCustomers, false},

	EntityVendor:   {LayerVendors, false},
	EntityContract: {LayerVendors, false},

	EntityInitiative: {LayerInitiatives, false},
}

// IsValid reports whether t is one of the 30 closed entity kinds.
func (t EntityType) IsValid() bool {
	_, ok := entityCatalog[t]
	return ok
}

// Layer returns the generation layer t belongs to.
func (t EntityType) Layer() GenerationLayer {
	return entityCatalog[t].Layer
}

// IsDerived reports whether t's count is computed from other entities
// rather than drawn from scaled_range, and is therefore never overridable.
func (t EntityType) IsDerived() bool {
	return entityCatalog[t].Derived
}

// LayerOrder lists every layer in generation order, each with its member
// kinds in a stable order (used by the orchestrator to drive the pipeline).
var LayerOrder = []GenerationLayer{
	LayerFoundation, LayerCompliance, LayerTechnology, LayerData,
	LayerOrganization, LayerPeople, LayerCapabilities, LayerLocations,
	LayerProducts, LayerCustomers, LayerVendors, LayerInitiatives,
}

// KindsInLayer returns the entity kinds assigned to a layer, in a fixed
// deterministic order.
func KindsInLayer(l GenerationLayer) []EntityType {
	return layerMembers[l]
}

var layerMembers = map[GenerationLayer][]EntityType{
	LayerFoundation: {EntityLocation},
	LayerCompliance: {
		EntityPolicy, EntityRegulation, EntityControl, EntityRisk,
		EntityThreat, EntityVulnerability, EntityThreatActor, EntityIncident,
	},
	LayerTechnology: {EntityNetwork, EntitySystem, EntityIntegration},
	LayerData:       {EntityDataAsset, EntityDataDomain, EntityDataFlow},
	LayerOrganization: {EntityDepartment, EntityOrganizationalUnit},
	LayerPeople:        {EntityRole, EntityPerson},
	LayerCapabilities:  {EntityBusinessCapability},
	LayerLocations:     {EntitySite, EntityGeography, EntityJurisdiction},
	LayerProducts:      {EntityProductPortfolio, EntityProduct},
	LayerCustomers:     {EntityMarketSegment, EntityCustomer},
	LayerVendors:       {EntityVendor, EntityContract},
	LayerInitiatives:   {EntityInitiative},
}
