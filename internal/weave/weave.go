package weave

import "github.com/thehipsterciso/hc-enterprise-kg/internal/domain"

// weaveFunc is one named weave method, producing relationships of one to
// three closely related types from already-generated entities.
type weaveFunc func(c *Context) []domain.Relationship

var weaveFuncs = []weaveFunc{
	(*Context).weaveWorksIn,
	(*Context).weaveReportsTo,
	(*Context).weaveBelongsToAndParentOf,
	(*Context).weaveHasRole,
	(*Context).weaveLocatedAt,

	(*Context).weaveDependsOn,
	(*Context).weaveHosts,
	(*Context).weaveIntegratesWith,
	(*Context).weaveConnectsTo,
	(*Context).weaveRunsOn,
	(*Context).weaveOwnsSystem,

	(*Context).weaveStores,
	(*Context).weaveFlowsTo,
	(*Context).weaveClassifies,
	(*Context).weaveProducesConsumes,

	(*Context).weaveGoverns,
	(*Context).weaveMitigates,
	(*Context).weaveSubjectTo,
	(*Context).weaveImplements,
	(*Context).weaveExploits,
	(*Context).weaveAffects,
	(*Context).weaveCauses,
	(*Context).weaveThreatens,
	(*Context).weaveIdentifiesAndAttribution,
	(*Context).weaveControlLifecycle,

	(*Context).weaveCapabilities,

	(*Context).weaveGeographyHierarchy,

	(*Context).weaveProductCatalog,
	(*Context).weaveCustomerRelationships,
	(*Context).weaveVendorRelationships,
	(*Context).weaveInitiatives,
}

// Result carries the weaver's output count summary.
type Result struct {
	RelationshipCount int
}

// WeaveAll runs every named weave method in a fixed order, commits their
// relationships through the engine, then sweeps the graph once to
// populate mirror fields. Called once, after the generation pipeline
// completes.
func WeaveAll(c *Context) (Result, error) {
	result := Result{}
	for _, fn := range weaveFuncs {
		rels := fn(c)
		if err := c.commit(rels); err != nil {
			return result, err
		}
		result.RelationshipCount += len(rels)
	}
	if err := c.populateMirrorFields(); err != nil {
		return result, err
	}
	return result, nil
}
