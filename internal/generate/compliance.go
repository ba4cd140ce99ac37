package generate

import (
	"fmt"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

func init() {
	register(domain.EntityPolicy, generatePolicies)
	register(domain.EntityRegulation, generateRegulations)
	register(domain.EntityControl, generateControls)
	register(domain.EntityRisk, generateRisks)
	register(domain.EntityThreat, generateThreats)
	register(domain.EntityVulnerability, generateVulnerabilities)
	register(domain.EntityThreatActor, generateThreatActors)
	register(domain.EntityIncident, generateIncidents)
}

var policyDomains = []string{
	"Acceptable Use", "Data Retention", "Access Control", "Incident Response",
	"Vendor Risk", "Change Management", "Business Continuity", "Encryption",
}

func generatePolicies(c *GenerationContext, count int) ([]domain.Entity, error) {
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		d := Pick(c, policyDomains)
		e := c.NewEntity(domain.EntityPolicy, fmt.Sprintf("%s Policy", d))
		e.Description = fmt.Sprintf("Governs %s across the organization", d)
		e.Fields["policy_id"] = fmt.Sprintf("POL-%05d", i+1)
		e.Fields["enforcement"] = Pick(c, []string{"mandatory", "recommended"})
		e.Fields["review_cycle_months"] = Pick(c, []int{6, 12, 24})
		e.Tags = []string{"policy"}
		out = append(out, e)
	}
	return out, nil
}

type regulationTemplate struct{ Short, Full, Jurisdiction, Category string }

var regulationTemplates = []regulationTemplate{
	{"GDPR", "General Data Protection Regulation", "EU", "Data Privacy"},
	{"CCPA", "California Consumer Privacy Act", "US", "Data Privacy"},
	{"HIPAA", "Health Insurance Portability and Accountability Act", "US", "Healthcare"},
	{"SOX", "Sarbanes-Oxley Act", "US", "Financial"},
	{"PCI-DSS", "Payment Card Industry Data Security Standard", "Global", "Financial"},
	{"NIS2", "Network and Information Security Directive 2", "EU", "Cybersecurity"},
	{"GLBA", "Gramm-Leach-Bliley Act", "US", "Financial"},
	{"FISMA", "Federal Information Security Management Act", "US", "Cybersecurity"},
}

func generateRegulations(c *GenerationContext, count int) ([]domain.Entity, error) {
	selected := PickN(c, regulationTemplates, count)
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		var t regulationTemplate
		if i < len(selected) {
			t = selected[i]
		} else {
			t = regulationTemplate{fmt.Sprintf("REG-%03d", i), "Generic Regulatory Requirement", "Global", "Operational"}
		}
		e := c.NewEntity(domain.EntityRegulation, t.Full)
		e.Description = fmt.Sprintf("%s — %s regulation in %s", t.Short, t.Category, t.Jurisdiction)
		e.Fields["regulation_id"] = fmt.Sprintf("REG-%05d", i+1)
		e.Fields["short_name"] = t.Short
		e.Fields["jurisdiction"] = t.Jurisdiction
		e.Fields["category"] = t.Category
		e.Tags = []string{t.Jurisdiction, t.Category}
		out = append(out, e)
	}
	return out, nil
}

var controlFrameworks = []string{"NIST CSF", "ISO 27001", "SOC 2", "CIS Controls"}
var controlDomains = []string{"Access Management", "Network Security", "Data Protection", "Logging & Monitoring", "Change Management"}
var controlTypes = []string{"Preventive", "Detective", "Corrective"}

func generateControls(c *GenerationContext, count int) ([]domain.Entity, error) {
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		framework := Pick(c, controlFrameworks)
		d := Pick(c, controlDomains)
		e := c.NewEntity(domain.EntityControl, fmt.Sprintf("%s — %s Control", d, framework))
		e.Description = fmt.Sprintf("%s control for %s", Pick(c, controlTypes), d)
		e.Fields["control_id"] = fmt.Sprintf("CTL-%05d", i+1)
		e.Fields["framework"] = framework
		e.Fields["domain"] = d
		e.Fields["implementation_status"] = Pick(c, []string{"Implemented", "Partially Implemented", "Planned"})
		e.Tags = []string{framework, d}
		out = append(out, e)
	}
	return out, nil
}

var riskCategories = []string{"Operational", "Financial", "Cybersecurity", "Regulatory", "Reputational", "Strategic"}

func generateRisks(c *GenerationContext, count int) ([]domain.Entity, error) {
	out := make([]domain.Entity, 0, count)
	levels := domain.AllRiskLevels()
	for i := 0; i < count; i++ {
		category := Pick(c, riskCategories)
		likelihood := Pick(c, levels)
		impact := Pick(c, levels)
		inherent := domain.InherentRiskLevel(likelihood, impact)

		residualLikelihood := Pick(c, levels[:riskIndex(levels, likelihood)+1])
		residualImpact := Pick(c, levels[:riskIndex(levels, impact)+1])
		residual := domain.ClampResidualToInherent(domain.InherentRiskLevel(residualLikelihood, residualImpact), inherent)

		e := c.NewEntity(domain.EntityRisk, fmt.Sprintf("%s Risk #%d", category, i+1))
		e.Description = fmt.Sprintf("Risk in the %s domain", category)
		e.Fields["risk_id"] = fmt.Sprintf("RSK-%05d", i+1)
		e.Fields["category"] = category
		e.Fields["inherent_likelihood"] = string(likelihood)
		e.Fields["inherent_impact"] = string(impact)
		e.Fields["inherent_risk_level"] = string(inherent)
		e.Fields["residual_likelihood"] = string(residualLikelihood)
		e.Fields["residual_impact"] = string(residualImpact)
		e.Fields["residual_risk_level"] = string(residual)
		e.Fields["status"] = Pick(c, []string{"Open", "Mitigated", "Accepted", "Transferred"})
		e.Tags = []string{category}
		out = append(out, e)
	}
	return out, nil
}

func riskIndex(levels []domain.RiskLevel, l domain.RiskLevel) int {
	for i, x := range levels {
		if x == l {
			return i
		}
	}
	return 0
}

var threatCategories = []string{"Malware", "Phishing", "Insider", "Supply Chain", "Denial of Service", "Physical"}

func generateThreats(c *GenerationContext, count int) ([]domain.Entity, error) {
	out := make([]domain.Entity, 0, count)
	levels := domain.AllRiskLevels()
	for i := 0; i < count; i++ {
		category := Pick(c, threatCategories)
		e := c.NewEntity(domain.EntityThreat, fmt.Sprintf("%s Threat #%d", category, i+1))
		e.Description = fmt.Sprintf("Threat in the %s domain", category)
		e.Fields["threat_id"] = fmt.Sprintf("THR-%05d", i+1)
		e.Fields["category"] = category
		e.Fields["likelihood"] = string(Pick(c, levels))
		e.Fields["impact_if_realized"] = string(Pick(c, levels))
		e.Fields["source"] = Pick(c, []string{"External", "Internal", "Environmental", "Partner"})
		e.Fields["status"] = Pick(c, []string{"Active", "Emerging", "Historical", "Mitigated"})
		e.Tags = []string{category}
		out = append(out, e)
	}
	return out, nil
}

type vulnTemplate struct {
	Kind        string
	Description string
	Component   string
}

var vulnKinds = []struct {
	Name  string
	Descs []string
	Comps []string
}{
	{"SQL Injection", []string{"SQL injection vulnerability in user input handling", "Unsanitized query parameters allow SQL injection"}, []string{"login form", "search API", "reporting module"}},
	{"Cross-Site Scripting", []string{"Reflected XSS in URL parameter processing", "Stored XSS in user-generated content"}, []string{"comment system", "user profile page", "notification display"}},
	{"Remote Code Execution", []string{"RCE via deserialization of untrusted data", "Command injection enabling arbitrary code execution"}, []string{"API endpoint", "file processing service", "webhook processor"}},
	{"Privilege Escalation", []string{"Local privilege escalation through misconfigured permissions"}, []string{"admin console", "deployment pipeline"}},
	{"Misconfiguration", []string{"Default credentials left active", "Overly permissive storage bucket policy"}, []string{"cloud storage bucket", "container registry"}},
}

var vulnSeverities = []string{"low", "medium", "high", "critical"}

// generateVulnerabilities is derived: one vulnerability is generated per
// eligible system at a fixed probability, not drawn from a scaled range.
func generateVulnerabilities(c *GenerationContext, _ int) ([]domain.Entity, error) {
	systems := c.Entities(domain.EntitySystem)
	const probability = 0.15
	out := make([]domain.Entity, 0, len(systems)/6+1)
	n := 0
	for _, sys := range systems {
		if c.Rand.Float64() >= probability {
			continue
		}
		n++
		k := Pick(c, vulnKinds)
		severity := Pick(c, vulnSeverities)
		status := Pick(c, []string{"open", "in_remediation", "patched", "accepted_risk"})
		e := c.NewEntity(domain.EntityVulnerability, fmt.Sprintf("%s in %s", k.Name, sys.Name))
		e.Description = fmt.Sprintf("%s (%s)", Pick(c, k.Descs), Pick(c, k.Comps))
		e.Fields["vulnerability_id"] = fmt.Sprintf("VULN-%05d", n)
		e.Fields["vulnerability_type"] = k.Name
		e.Fields["severity"] = severity
		e.Fields["status"] = status
		e.Fields["patch_available"] = status == "patched" || status == "in_remediation"
		e.Fields["affected_system_id"] = sys.ID
		e.Tags = []string{k.Name, severity}
		out = append(out, e)
	}
	return out, nil
}

// aptProfiles hard-codes attribution for named APT groups, per the
// deterministic-derivation discipline rule (APT attribution is not drawn
// randomly once the actor name matches a known profile).
var aptProfiles = []struct {
	Name, Origin, Type, Motivation, Sophistication string
	Targets                                        []string
}{
	{"Lazarus Group", "KP", "nation_state", "financial", "advanced", []string{"finance", "technology", "defense"}},
	{"Equation Group", "US", "nation_state", "espionage", "advanced", []string{"government", "technology", "energy"}},
	{"Shadow Brokers", "Unknown", "hacktivist", "disruption", "high", []string{"government", "technology"}},
	{"DarkSide", "RU", "cybercriminal", "financial", "high", []string{"energy", "healthcare", "finance"}},
	{"REvil", "RU", "cybercriminal", "financial", "high", []string{"technology", "healthcare", "finance"}},
	{"Sandworm", "RU", "nation_state", "disruption", "advanced", []string{"energy", "government", "technology"}},
	{"Turla", "RU", "apt", "espionage", "advanced", []string{"government", "defense"}},
	{"Kimsuky", "KP", "nation_state", "espionage", "high", []string{"government", "defense", "technology"}},
	{"Charming Kitten", "IR", "nation_state", "espionage", "high", []string{"government", "technology"}},
	{"FIN7", "Unknown", "cybercriminal", "financial", "high", []string{"finance", "technology", "retail"}},
	{"APT41", "CN", "nation_state", "espionage", "advanced", []string{"technology", "healthcare", "telecom"}},
	{"Conti", "RU", "cybercriminal", "financial", "high", []string{"healthcare", "government", "technology"}},
}

func generateThreatActors(c *GenerationContext, count int) ([]domain.Entity, error) {
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		var name, origin, actorType, motivation, sophistication string
		var targets []string
		if i < len(aptProfiles) {
			p := aptProfiles[i]
			name, origin, actorType, motivation, sophistication, targets = p.Name, p.Origin, p.Type, p.Motivation, p.Sophistication, p.Targets
		} else {
			name = fmt.Sprintf("APT-%04d", i)
			origin = Pick(c, []string{"Unknown", "RU", "CN", "IR", "KP"})
			actorType = Pick(c, []string{"cybercriminal", "hacktivist", "insider"})
			motivation = Pick(c, []string{"financial", "disruption", "ideological", "retaliation"})
			sophistication = Pick(c, []string{"low", "medium", "high"})
			targets = PickN(c, []string{"technology", "healthcare", "finance", "government", "energy", "defense"}, 1+c.Intn(3))
		}
		e := c.NewEntity(domain.EntityThreatActor, name)
		e.Description = fmt.Sprintf("%s threat actor attributed to %s, motivated by %s", actorType, origin, motivation)
		e.Fields["origin"] = origin
		e.Fields["actor_type"] = actorType
		e.Fields["motivation"] = motivation
		e.Fields["sophistication"] = sophistication
		e.Fields["targets"] = targets
		e.Tags = append([]string{actorType}, targets...)
		out = append(out, e)
	}
	return out, nil
}

var incidentCategories = []string{"Data Breach", "Ransomware", "Denial of Service", "Unauthorized Access", "Phishing", "Misconfiguration"}

func generateIncidents(c *GenerationContext, count int) ([]domain.Entity, error) {
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		category := Pick(c, incidentCategories)
		severity := Pick(c, vulnSeverities)
		e := c.NewEntity(domain.EntityIncident, fmt.Sprintf("%s Incident #%d", category, i+1))
		e.Description = fmt.Sprintf("%s incident, severity %s", category, severity)
		e.Fields["incident_id"] = fmt.Sprintf("INC-%05d", i+1)
		e.Fields["category"] = category
		e.Fields["severity"] = severity
		e.Fields["status"] = Pick(c, []string{"open", "contained", "resolved", "closed"})
		e.Tags = []string{category, severity}
		out = append(out, e)
	}
	return out, nil
}
