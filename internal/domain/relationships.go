package domain

// relationshipSchema declares one closed relationship kind's allowed
// source and target entity kinds. The write tools, the import validator,
// and the weaver all share this one table.
type relationshipSchema struct {
	Source kindSet
	Target kindSet
}

type kindSet map[EntityType]struct{}

func kinds(ts ...EntityType) kindSet {
	s := make(kindSet, len(ts))
	for _, t := range ts {
		s[t] = struct{}{}
	}
	return s
}

const (
	RelWorksIn    RelationshipType = "works_in"
	RelManages    RelationshipType = "manages"
	RelReportsTo  RelationshipType = "reports_to"
	RelBelongsTo  RelationshipType = "belongs_to"
	RelHasRole    RelationshipType = "has_role"
	RelLocatedAt  RelationshipType = "located_at"
	RelParentOf   RelationshipType = "parent_of"

	RelDependsOn        RelationshipType = "depends_on"
	RelHosts            RelationshipType = "hosts"
	RelIntegratesWith   RelationshipType = "integrates_with"
	RelConnectsTo       RelationshipType = "connects_to"
	RelRunsOn           RelationshipType = "runs_on"
	RelOwnsSystem       RelationshipType = "owns_system"

	RelStores     RelationshipType = "stores"
	RelFlowsTo    RelationshipType = "flows_to"
	RelClassifies RelationshipType = "classifies"
	RelProduces   RelationshipType = "produces"
	RelConsumes   RelationshipType = "consumes"

	RelGoverns       RelationshipType = "governs"
	RelMitigates     RelationshipType = "mitigates"
	RelSubjectTo     RelationshipType = "subject_to"
	RelImplements    RelationshipType = "implements"
	RelExploits      RelationshipType = "exploits"
	RelAffects       RelationshipType = "affects"
	RelCauses        RelationshipType = "causes"
	RelThreatens     RelationshipType = "threatens"
	RelIdentifies    RelationshipType = "identifies"
	RelAttributedTo  RelationshipType = "attributed_to"
	RelEnforces      RelationshipType = "enforces"
	RelAssesses      RelationshipType = "assesses"
	RelAudits        RelationshipType = "audits"
	RelRemediates    RelationshipType = "remediates"

	RelSupports        RelationshipType = "supports"
	RelEnables         RelationshipType = "enables"
	RelOwnsCapability  RelationshipType = "owns_capability"

	RelLocatedIn RelationshipType = "located_in"
	RelPartOf    RelationshipType = "part_of"
	RelHostsSite RelationshipType = "hosts_site"

	RelBelongsToPortfolio RelationshipType = "belongs_to_portfolio"
	RelServes             RelationshipType = "serves"
	RelTargets            RelationshipType = "targets"
	RelDependsOnSystem    RelationshipType = "depends_on_system"

	RelSegments       RelationshipType = "segments"
	RelPurchases      RelationshipType = "purchases"
	RelContractedWith RelationshipType = "contracted_with"

	RelSupplies        RelationshipType = "supplies"
	RelContractedUnder RelationshipType = "contracted_under"
	RelGovernsVendor   RelationshipType = "governs_vendor"

	RelImpacts      RelationshipType = "impacts"
	RelSponsoredBy  RelationshipType = "sponsored_by"
	RelDelivers     RelationshipType = "delivers"
	RelMitigatedBy  RelationshipType = "mitigated_by"
)

var relationshipCatalog = map[RelationshipType]relationshipSchema{
	RelWorksIn:   {kinds(EntityPerson), kinds(EntityDepartment)},
	RelManages:   {kinds(EntityPerson), kinds(EntityPerson, EntityDepartment)},
	RelReportsTo: {kinds(EntityPerson), kinds(EntityPerson)},
	RelBelongsTo: {kinds(EntityDepartment), kinds(EntityOrganizationalUnit)},
	RelHasRole:   {kinds(EntityPerson), kinds(EntityRole)},
	RelLocatedAt: {kinds(EntityPerson, EntitySystem, EntityDepartment), kinds(EntityLocation, EntitySite)},
	RelParentOf:  {kinds(EntityDepartment), kinds(EntityDepartment)},

	RelDependsOn:      {kinds(EntitySystem), kinds(EntitySystem)},
	RelHosts:          {kinds(EntityNetwork), kinds(EntitySystem)},
	RelIntegratesWith: {kinds(EntitySystem), kinds(EntityIntegration)},
	RelConnectsTo:     {kinds(EntityNetwork), kinds(EntityNetwork)},
	RelRunsOn:         {kinds(EntitySystem), kinds(EntityLocation, EntitySite)},
	RelOwnsSystem:     {kinds(EntityDepartment), kinds(EntitySystem)},

	RelStores:     {kinds(EntitySystem), kinds(EntityDataAsset)},
	RelFlowsTo:    {kinds(EntityDataFlow, EntityDataAsset), kinds(EntitySystem, EntityDataAsset)},
	RelClassifies: {kinds(EntityDataDomain), kinds(EntityDataAsset)},
	RelProduces:   {kinds(EntitySystem), kinds(EntityDataAsset)},
	RelConsumes:   {kinds(EntitySystem), kinds(EntityDataAsset)},

	RelGoverns:      {kinds(EntityPolicy), kinds(EntitySystem, EntityDataAsset, EntityDepartment)},
	RelMitigates:    {kinds(EntityControl), kinds(EntityRisk, EntityVulnerability, EntityThreat)},
	RelSubjectTo:    {kinds(EntitySystem, EntityVendor, EntityDataAsset, EntityProduct), kinds(EntityRegulation, EntityJurisdiction)},
	RelImplements:   {kinds(EntityControl), kinds(EntityRegulation, EntityPolicy)},
	RelExploits:     {kinds(EntityThreatActor), kinds(EntityVulnerability)},
	RelAffects:      {kinds(EntityIncident), kinds(EntitySystem, EntityDataAsset, EntityPerson)},
	RelCauses:       {kinds(EntityVulnerability), kinds(EntityIncident)},
	RelThreatens:    {kinds(EntityThreat), kinds(EntitySystem, EntityDataAsset)},
	RelIdentifies:   {kinds(EntityIncident), kinds(EntityVulnerability)},
	RelAttributedTo: {kinds(EntityIncident), kinds(EntityThreatActor)},
	RelEnforces:     {kinds(EntityControl), kinds(EntityPolicy)},
	RelAssesses:     {kinds(EntityControl), kinds(EntityRisk)},
	RelAudits:       {kinds(EntityControl), kinds(EntityDepartment)},
	RelRemediates:   {kinds(EntityControl), kinds(EntityVulnerability)},

	RelSupports:       {kinds(EntityBusinessCapability), kinds(EntitySystem)},
	RelEnables:        {kinds(EntitySystem), kinds(EntityBusinessCapability)},
	RelOwnsCapability: {kinds(EntityDepartment), kinds(EntityBusinessCapability)},

	RelLocatedIn: {kinds(EntitySite), kinds(EntityGeography)},
	RelPartOf:    {kinds(EntityJurisdiction), kinds(EntityGeography)},
	RelHostsSite: {kinds(EntityGeography), kinds(EntitySite)},

	RelBelongsToPortfolio: {kinds(EntityProduct), kinds(EntityProductPortfolio)},
	RelServes:             {kinds(EntityProduct), kinds(EntityMarketSegment)},
	RelTargets:            {kinds(EntityProduct), kinds(EntityCustomer)},
	RelDependsOnSystem:    {kinds(EntityProduct), kinds(EntitySystem)},

	RelSegments:       {kinds(EntityMarketSegment), kinds(EntityCustomer)},
	RelPurchases:      {kinds(EntityCustomer), kinds(EntityProduct)},
	RelContractedWith: {kinds(EntityCustomer), kinds(EntityVendor)},

	RelSupplies:        {kinds(EntityVendor), kinds(EntitySystem, EntityDataAsset)},
	RelContractedUnder: {kinds(EntityVendor), kinds(EntityContract)},
	RelGovernsVendor:   {kinds(EntityContract), kinds(EntityVendor)},

	RelImpacts:     {kinds(EntityInitiative), kinds(EntitySystem, EntityProduct, EntityBusinessCapability, EntityRisk)},
	RelSponsoredBy: {kinds(EntityInitiative), kinds(EntityDepartment)},
	RelDelivers:    {kinds(EntityInitiative), kinds(EntityProduct)},
	RelMitigatedBy: {kinds(EntityInitiative), kinds(EntityRisk)},
}

// IsValid reports whether t is one of the closed relationship kinds.
func (t RelationshipType) IsValid() bool {
	_, ok := relationshipCatalog[t]
	return ok
}

// AllowsSourceKind reports whether k lies in t's declared source domain.
func (t RelationshipType) AllowsSourceKind(k EntityType) bool {
	schema, ok := relationshipCatalog[t]
	if !ok {
		return false
	}
	_, ok = schema.Source[k]
	return ok
}

// AllowsTargetKind reports whether k lies in t's declared target range.
func (t RelationshipType) AllowsTargetKind(k EntityType) bool {
	schema, ok := relationshipCatalog[t]
	if !ok {
		return false
	}
	_, ok = schema.Target[k]
	return ok
}

// AllRelationshipTypes returns every closed relationship kind, for test
// iteration and the catalog tools.
func AllRelationshipTypes() []RelationshipType {
	out := make([]RelationshipType, 0, len(relationshipCatalog))
	for t := range relationshipCatalog {
		out = append(out, t)
	}
	return out
}

// AllEntityTypes returns every closed entity kind.
func AllEntityTypes() []EntityType {
	out := make([]EntityType, 0, len(entityCatalog))
	for t := range entityCatalog {
		out = append(out, t)
	}
	return out
}
