package weave

import "github.com/thehipsterciso/hc-enterprise-kg/internal/domain"

// weaveProductCatalog links products to their portfolio, the market
// segments they serve, the customers who buy them, and the systems that
// deliver them.
func (c *Context) weaveProductCatalog() []domain.Relationship {
	var out []domain.Relationship
	portfolios := indexByID(c.Entities(domain.EntityProductPortfolio))
	segments := c.Entities(domain.EntityMarketSegment)
	customers := c.Entities(domain.EntityCustomer)
	systems := c.Entities(domain.EntitySystem)
	for _, p := range c.Entities(domain.EntityProduct) {
		if pf, ok := portfolios[p.FieldString("portfolio_id")]; ok {
			c.emit(&out, domain.RelBelongsToPortfolio, p, pf, 1.0, c.confidence(bandOrganisational),
				map[string]any{"lifecycle_stage": p.FieldString("lifecycle_stage")})
		}
		if len(segments) > 0 {
			seg := c.pick(segments)
			c.emit(&out, domain.RelServes, p, seg, c.floatIn(0.6, 1.0), c.confidence(bandInference),
				map[string]any{"lifecycle_stage": p.FieldString("lifecycle_stage")})
		}
		if len(customers) > 0 && c.Rand.Float64() < 0.5 {
			cust := c.pick(customers)
			c.emit(&out, domain.RelTargets, p, cust, c.floatIn(0.5, 0.9), c.confidence(bandInference),
				map[string]any{"tier": cust.FieldString("tier")})
		}
		if len(systems) > 0 {
			s := c.pick(systems)
			c.emit(&out, domain.RelDependsOnSystem, p, s, c.floatIn(0.6, 1.0), c.confidence(bandDependency),
				map[string]any{"dependency_type": "delivery_platform"})
		}
	}
	return out
}

// weaveCustomerRelationships links market segments to the customers in
// them, customers to the products they purchase, and customers to the
// vendors they contract with.
func (c *Context) weaveCustomerRelationships() []domain.Relationship {
	var out []domain.Relationship
	products := c.Entities(domain.EntityProduct)
	vendors := c.Entities(domain.EntityVendor)
	segments := indexByID(c.Entities(domain.EntityMarketSegment))
	for _, cust := range c.Entities(domain.EntityCustomer) {
		if seg, ok := segments[cust.FieldString("market_segment_id")]; ok {
			c.emit(&out, domain.RelSegments, seg, cust, 1.0, c.confidence(bandOrganisational),
				map[string]any{"tier": cust.FieldString("tier")})
		}
		if len(products) > 0 {
			p := c.pick(products)
			c.emit(&out, domain.RelPurchases, cust, p, c.floatIn(0.5, 1.0), c.confidence(bandInference),
				map[string]any{"annual_contract_value": cust.FieldInt("annual_contract_value")})
		}
		if len(vendors) > 0 && c.Rand.Float64() < 0.2 {
			v := c.pick(vendors)
			c.emit(&out, domain.RelContractedWith, cust, v, c.floatIn(0.5, 0.9), c.confidence(bandInference),
				map[string]any{"basis": "shared_supplier"})
		}
	}
	return out
}

// weaveVendorRelationships links vendors to the systems/data assets they
// supply and the contracts that govern the relationship.
func (c *Context) weaveVendorRelationships() []domain.Relationship {
	var out []domain.Relationship
	supplyTargets := append(append([]domain.Entity{}, c.Entities(domain.EntitySystem)...), c.Entities(domain.EntityDataAsset)...)
	contracts := c.Entities(domain.EntityContract)
	vendors := indexByID(c.Entities(domain.EntityVendor))
	for _, v := range c.Entities(domain.EntityVendor) {
		if len(supplyTargets) > 0 && c.Rand.Float64() < 0.4 {
			t := c.pick(supplyTargets)
			c.emit(&out, domain.RelSupplies, v, t, c.floatIn(0.5, 1.0), c.confidence(bandInference),
				map[string]any{"risk_tier": v.FieldString("risk_tier")})
		}
	}
	for _, contract := range contracts {
		v, ok := vendors[contract.FieldString("vendor_id")]
		if !ok {
			continue
		}
		c.emit(&out, domain.RelContractedUnder, v, contract, 1.0, c.confidence(bandOrganisational),
			map[string]any{"status": contract.FieldString("status")})
		c.emit(&out, domain.RelGovernsVendor, contract, v, 1.0, c.confidence(bandOrganisational),
			map[string]any{"annual_value": contract.FieldInt("annual_value")})
	}
	return out
}

// weaveInitiatives links initiatives to their sponsoring department, the
// systems/products/capabilities/risks they impact, the products they
// deliver, and the risks they mitigate.
func (c *Context) weaveInitiatives() []domain.Relationship {
	var out []domain.Relationship
	departments := indexByID(c.Entities(domain.EntityDepartment))
	impactTargets := append(append(append([]domain.Entity{}, c.Entities(domain.EntitySystem)...), c.Entities(domain.EntityProduct)...), c.Entities(domain.EntityBusinessCapability)...)
	risks := c.Entities(domain.EntityRisk)
	products := c.Entities(domain.EntityProduct)
	for _, init := range c.Entities(domain.EntityInitiative) {
		if d, ok := departments[init.FieldString("sponsor_department_id")]; ok {
			c.emit(&out, domain.RelSponsoredBy, init, d, 1.0, c.confidence(bandOrganisational),
				map[string]any{"status": init.FieldString("status")})
		}
		if len(impactTargets) > 0 {
			n := 1 + c.intn(3)
			for i := 0; i < n; i++ {
				t := c.pick(impactTargets)
				c.emit(&out, domain.RelImpacts, init, t, c.floatIn(0.5, 1.0), c.confidence(bandInference),
					map[string]any{"status": init.FieldString("status")})
			}
		}
		if len(products) > 0 && c.Rand.Float64() < 0.3 {
			p := c.pick(products)
			c.emit(&out, domain.RelDelivers, init, p, c.floatIn(0.6, 1.0), c.confidence(bandInference),
				map[string]any{"status": init.FieldString("status")})
		}
		if len(risks) > 0 && c.Rand.Float64() < 0.3 {
			r := c.pick(risks)
			c.emit(&out, domain.RelMitigatedBy, init, r, c.floatIn(0.5, 0.9), c.confidence(bandInference),
				map[string]any{"basis": "remediation_program"})
		}
	}
	return out
}
