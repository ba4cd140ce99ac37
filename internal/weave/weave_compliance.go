package weave

import "github.com/thehipsterciso/hc-enterprise-kg/internal/domain"

// weaveGoverns links each policy to the systems, data assets, and
// departments it governs.
func (c *Context) weaveGoverns() []domain.Relationship {
	var out []domain.Relationship
	targets := append(append(c.Entities(domain.EntitySystem), c.Entities(domain.EntityDataAsset)...), c.Entities(domain.EntityDepartment)...)
	if len(targets) == 0 {
		return out
	}
	for _, p := range c.Entities(domain.EntityPolicy) {
		n := 2 + c.intn(4)
		for i := 0; i < n; i++ {
			t := c.pick(targets)
			c.emit(&out, domain.RelGoverns, p, t, 1.0, c.confidence(bandOrganisational),
				map[string]any{"enforcement": p.FieldString("enforcement")})
		}
	}
	return out
}

// weaveMitigates links controls to the risks, vulnerabilities, and
// threats they mitigate.
func (c *Context) weaveMitigates() []domain.Relationship {
	var out []domain.Relationship
	targets := append(append(c.Entities(domain.EntityRisk), c.Entities(domain.EntityVulnerability)...), c.Entities(domain.EntityThreat)...)
	if len(targets) == 0 {
		return out
	}
	for _, ctl := range c.Entities(domain.EntityControl) {
		n := 1 + c.intn(3)
		for i := 0; i < n; i++ {
			t := c.pick(targets)
			c.emit(&out, domain.RelMitigates, ctl, t, c.floatIn(0.5, 1.0), c.confidence(bandInference),
				map[string]any{"implementation_status": ctl.FieldString("implementation_status")})
		}
	}
	return out
}

// weaveSubjectTo links regulated entities to the regulations and
// jurisdictions that govern them.
func (c *Context) weaveSubjectTo() []domain.Relationship {
	var out []domain.Relationship
	regs := append(append([]domain.Entity{}, c.Entities(domain.EntityRegulation)...), c.Entities(domain.EntityJurisdiction)...)
	sources := append(append(append(c.Entities(domain.EntitySystem), c.Entities(domain.EntityVendor)...), c.Entities(domain.EntityDataAsset)...), c.Entities(domain.EntityProduct)...)
	if len(regs) == 0 || len(sources) == 0 {
		return out
	}
	for _, s := range sources {
		if c.Rand.Float64() > 0.4 {
			continue
		}
		r := c.pick(regs)
		c.emit(&out, domain.RelSubjectTo, s, r, 1.0, c.confidence(bandOrganisational),
			map[string]any{"basis": "regulatory_scope"})
	}
	return out
}

// weaveImplements links controls to the regulations and policies they
// satisfy.
func (c *Context) weaveImplements() []domain.Relationship {
	var out []domain.Relationship
	targets := append(append([]domain.Entity{}, c.Entities(domain.EntityRegulation)...), c.Entities(domain.EntityPolicy)...)
	if len(targets) == 0 {
		return out
	}
	for _, ctl := range c.Entities(domain.EntityControl) {
		t := c.pick(targets)
		c.emit(&out, domain.RelImplements, ctl, t, 1.0, c.confidence(bandOrganisational),
			map[string]any{"framework": ctl.FieldString("framework")})
	}
	return out
}

var exploitMaturities = []string{"weaponized", "poc", "theoretical"}

// weaveExploits links threat actors to vulnerabilities matching their
// sophistication: advanced actors draw weaponized exploits more often.
func (c *Context) weaveExploits() []domain.Relationship {
	var out []domain.Relationship
	vulns := c.Entities(domain.EntityVulnerability)
	if len(vulns) == 0 {
		return out
	}
	for _, actor := range c.Entities(domain.EntityThreatActor) {
		n := 1 + c.intn(4)
		for i := 0; i < n; i++ {
			v := c.pick(vulns)
			maturity := exploitMaturities[2]
			switch actor.FieldString("sophistication") {
			case "advanced":
				maturity = exploitMaturities[0]
			case "high":
				maturity = exploitMaturities[c.intn(2)]
			}
			weight := weightForSeverity(v.FieldString("severity"), 0.5, 1.0, c)
			c.emit(&out, domain.RelExploits, actor, v, weight, c.confidence(bandThreatAttrib),
				map[string]any{"exploit_maturity": maturity})
		}
	}
	return out
}

// weaveAffects links incidents to the systems, data assets, and people
// they disrupted.
func (c *Context) weaveAffects() []domain.Relationship {
	var out []domain.Relationship
	targets := append(append(c.Entities(domain.EntitySystem), c.Entities(domain.EntityDataAsset)...), c.Entities(domain.EntityPerson)...)
	if len(targets) == 0 {
		return out
	}
	for _, inc := range c.Entities(domain.EntityIncident) {
		n := 1 + c.intn(3)
		for i := 0; i < n; i++ {
			t := c.pick(targets)
			weight := weightForSeverity(inc.FieldString("severity"), 0.5, 1.0, c)
			c.emit(&out, domain.RelAffects, inc, t, weight, c.confidence(bandInference),
				map[string]any{"category": inc.FieldString("category")})
		}
	}
	return out
}

// weaveCauses links about a quarter of the vulnerabilities each to a
// randomly drawn incident, weighted by the vulnerability's severity.
func (c *Context) weaveCauses() []domain.Relationship {
	var out []domain.Relationship
	incidents := c.Entities(domain.EntityIncident)
	if len(incidents) == 0 {
		return out
	}
	for _, v := range c.Entities(domain.EntityVulnerability) {
		if c.Rand.Float64() > 0.25 {
			continue
		}
		inc := c.pick(incidents)
		weight := weightForSeverity(v.FieldString("severity"), 0.5, 1.0, c)
		c.emit(&out, domain.RelCauses, v, inc, weight, c.confidence(bandInference),
			map[string]any{"vulnerability_type": v.FieldString("vulnerability_type")})
	}
	return out
}

// weaveThreatens links threats to the systems and data assets they put
// at risk.
func (c *Context) weaveThreatens() []domain.Relationship {
	var out []domain.Relationship
	targets := append(append([]domain.Entity{}, c.Entities(domain.EntitySystem)...), c.Entities(domain.EntityDataAsset)...)
	if len(targets) == 0 {
		return out
	}
	for _, th := range c.Entities(domain.EntityThreat) {
		n := 1 + c.intn(4)
		for i := 0; i < n; i++ {
			t := c.pick(targets)
			weight := weightForSeverity(th.FieldString("impact_if_realized"), 0.5, 1.0, c)
			c.emit(&out, domain.RelThreatens, th, t, weight, c.confidence(bandInference),
				map[string]any{"category": th.FieldString("category")})
		}
	}
	return out
}

// weaveIdentifiesAndAttribution links an incident to the vulnerability it
// surfaced and the threat actor it was attributed to.
func (c *Context) weaveIdentifiesAndAttribution() []domain.Relationship {
	var out []domain.Relationship
	vulns := c.Entities(domain.EntityVulnerability)
	actors := c.Entities(domain.EntityThreatActor)
	for _, inc := range c.Entities(domain.EntityIncident) {
		if len(vulns) > 0 && c.Rand.Float64() < 0.5 {
			v := c.pick(vulns)
			c.emit(&out, domain.RelIdentifies, inc, v, c.floatIn(0.6, 1.0), c.confidence(bandInference),
				map[string]any{"discovery": "post_incident_review"})
		}
		if len(actors) > 0 && c.Rand.Float64() < 0.35 {
			actor := c.pick(actors)
			c.emit(&out, domain.RelAttributedTo, inc, actor, c.floatIn(0.4, 0.9), c.confidence(bandThreatAttrib),
				map[string]any{"attribution_basis": "tactics_overlap"})
		}
	}
	return out
}

// weaveControlLifecycle links controls to the policies they enforce, the
// risks they're assessed against, the departments they audit, and the
// vulnerabilities they remediate.
func (c *Context) weaveControlLifecycle() []domain.Relationship {
	var out []domain.Relationship
	policies := c.Entities(domain.EntityPolicy)
	risks := c.Entities(domain.EntityRisk)
	departments := c.Entities(domain.EntityDepartment)
	vulns := c.Entities(domain.EntityVulnerability)
	for _, ctl := range c.Entities(domain.EntityControl) {
		if len(policies) > 0 {
			p := c.pick(policies)
			c.emit(&out, domain.RelEnforces, ctl, p, 1.0, c.confidence(bandOrganisational),
				map[string]any{"framework": ctl.FieldString("framework")})
		}
		if len(risks) > 0 {
			r := c.pick(risks)
			c.emit(&out, domain.RelAssesses, ctl, r, c.floatIn(0.6, 1.0), c.confidence(bandInference),
				map[string]any{"domain": ctl.FieldString("domain")})
		}
		if len(departments) > 0 && c.Rand.Float64() < 0.3 {
			d := c.pick(departments)
			c.emit(&out, domain.RelAudits, ctl, d, c.floatIn(0.6, 0.9), c.confidence(bandInference),
				map[string]any{"cadence": "periodic"})
		}
		if len(vulns) > 0 && c.Rand.Float64() < 0.4 {
			v := c.pick(vulns)
			c.emit(&out, domain.RelRemediates, ctl, v, c.floatIn(0.6, 1.0), c.confidence(bandInference),
				map[string]any{"status": v.FieldString("status")})
		}
	}
	return out
}
