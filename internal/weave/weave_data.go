package weave

import "github.com/thehipsterciso/hc-enterprise-kg/internal/domain"

// weaveStores links systems to the data assets they persist.
func (c *Context) weaveStores() []domain.Relationship {
	var out []domain.Relationship
	assets := c.Entities(domain.EntityDataAsset)
	if len(assets) == 0 {
		return out
	}
	for _, s := range c.Entities(domain.EntitySystem) {
		n := 1 + c.intn(2)
		for i := 0; i < n; i++ {
			a := c.pick(assets)
			c.emit(&out, domain.RelStores, s, a, c.floatIn(0.6, 1.0), c.confidence(bandDependency),
				map[string]any{"classification": a.FieldString("classification")})
		}
	}
	return out
}

// weaveFlowsTo wires each data_flow to its already-assigned target system,
// plus a flows_to edge from a randomly drawn data asset to that system.
func (c *Context) weaveFlowsTo() []domain.Relationship {
	var out []domain.Relationship
	systems := indexByID(c.Entities(domain.EntitySystem))
	assets := c.Entities(domain.EntityDataAsset)
	for _, f := range c.Entities(domain.EntityDataFlow) {
		tgtID := f.FieldString("target_system_id")
		tgt, ok := systems[tgtID]
		if ok {
			weight := c.floatIn(0.6, 1.0)
			c.emit(&out, domain.RelFlowsTo, f, tgt, weight, c.confidence(bandDependency),
				map[string]any{"transfer_method": f.FieldString("transfer_method")})
		}
		if len(assets) == 0 {
			continue
		}
		a := c.pick(assets)
		c.emit(&out, domain.RelFlowsTo, a, tgt, c.floatIn(0.6, 1.0), c.confidence(bandDependency),
			map[string]any{"encrypted": f.FieldBool("encryption_in_transit")})
	}
	return out
}

// weaveClassifies groups data assets under their governing data_domain.
func (c *Context) weaveClassifies() []domain.Relationship {
	var out []domain.Relationship
	domains := c.Entities(domain.EntityDataDomain)
	if len(domains) == 0 {
		return out
	}
	for i, a := range c.Entities(domain.EntityDataAsset) {
		d := domains[i%len(domains)]
		c.emit(&out, domain.RelClassifies, d, a, 1.0, c.confidence(bandOrganisational),
			map[string]any{"stewardship": d.FieldString("steward")})
	}
	return out
}

// weaveProducesConsumes links systems to the data assets they generate
// or read, distinct from the persistent storage edges in weaveStores.
func (c *Context) weaveProducesConsumes() []domain.Relationship {
	var out []domain.Relationship
	assets := c.Entities(domain.EntityDataAsset)
	systems := c.Entities(domain.EntitySystem)
	if len(assets) == 0 || len(systems) == 0 {
		return out
	}
	for i, s := range systems {
		producer := assets[i%len(assets)]
		c.emit(&out, domain.RelProduces, s, producer, c.floatIn(0.5, 0.9), c.confidence(bandDependency),
			map[string]any{"data_role": "producer"})
		consumer := assets[(i+1)%len(assets)]
		c.emit(&out, domain.RelConsumes, s, consumer, c.floatIn(0.5, 0.9), c.confidence(bandDependency),
			map[string]any{"data_role": "consumer"})
	}
	return out
}
