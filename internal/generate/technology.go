package generate

import (
	"fmt"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

func init() {
	register(domain.EntityNetwork, generateNetworks)
	register(domain.EntitySystem, generateSystems)
	register(domain.EntityIntegration, generateIntegrations)
}

var networkZones = []struct{ Zone, CIDR string }{
	{"dmz", "10.0.0.0/24"},
	{"internal", "10.10.0.0/16"},
	{"restricted", "10.20.0.0/24"},
	{"guest", "192.168.100.0/24"},
}

// generateNetworks is derived: two network segments (dmz and internal) per
// location, plus one restricted segment when headcount exceeds 1000.
func generateNetworks(c *GenerationContext, _ int) ([]domain.Entity, error) {
	locations := c.Entities(domain.EntityLocation)
	out := make([]domain.Entity, 0, len(locations)*2)
	for _, loc := range locations {
		for _, z := range networkZones[:2] {
			e := c.NewEntity(domain.EntityNetwork, fmt.Sprintf("%s %s Network", loc.Name, z.Zone))
			e.Description = fmt.Sprintf("%s network (%s zone) at %s", loc.Name, z.Zone, loc.Name)
			e.Fields["cidr"] = z.CIDR
			e.Fields["zone"] = z.Zone
			e.Fields["is_monitored"] = z.Zone != "guest"
			e.Fields["location_id"] = loc.ID
			e.Tags = []string{z.Zone}
			out = append(out, e)
		}
	}
	if c.Profile.EmployeeCount > 1000 {
		e := c.NewEntity(domain.EntityNetwork, "Restricted Segment")
		e.Description = "Restricted network zone for sensitive workloads"
		e.Fields["cidr"] = networkZones[2].CIDR
		e.Fields["zone"] = "restricted"
		e.Fields["is_monitored"] = true
		e.Tags = []string{"restricted"}
		out = append(out, e)
	}
	return out, nil
}

type systemTemplate struct {
	Name        string
	Type        string
	OS          []string
	Stacks      [][]string
	Ports       []int
	Criticality string
}

var systemTemplates = []systemTemplate{
	{"ERP System", "application", []string{"Linux", "Windows Server 2022"}, [][]string{{"java", "spring", "oracle"}, {"java", "spring", "postgresql"}}, []int{443, 8080}, "critical"},
	{"CRM Platform", "saas", []string{"Linux"}, [][]string{{"python", "django", "postgresql"}}, []int{443}, "high"},
	{"Identity Provider", "application", []string{"Linux"}, [][]string{{"java", "spring", "postgresql"}}, []int{443}, "critical"},
	{"CI/CD Pipeline", "application", []string{"Linux"}, [][]string{{"go", "docker", "kubernetes"}}, []int{443, 8080}, "high"},
	{"Data Warehouse", "application", []string{"Linux"}, [][]string{{"python", "spark", "postgresql"}}, []int{5432}, "critical"},
	{"Email Gateway", "appliance", []string{"Linux"}, [][]string{{"postfix"}}, []int{25, 587}, "high"},
	{"VPN Concentrator", "appliance", []string{"Linux"}, [][]string{{"openvpn"}}, []int{443, 1194}, "critical"},
	{"Monitoring Platform", "application", []string{"Linux"}, [][]string{{"go", "prometheus", "grafana"}}, []int{3000, 9090}, "medium"},
	{"HR Information System", "saas", []string{"Linux"}, [][]string{{"ruby", "rails", "postgresql"}}, []int{443}, "high"},
	{"Payment Processing Service", "application", []string{"Linux"}, [][]string{{"java", "spring", "postgresql"}}, []int{443}, "critical"},
}

var overflowSystemTypes = []string{"application", "database", "appliance", "vm", "workstation", "saas"}
var fallbackStacks = [][]string{
	{"python", "flask", "postgresql"},
	{"java", "spring", "mysql"},
	{"node", "express", "mongodb"},
	{"go", "grpc", "redis"},
	{".net", "sql-server", "iis"},
}
var systemEnvironments = []string{"production", "staging", "development", "test"}

func generateSystems(c *GenerationContext, count int) ([]domain.Entity, error) {
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		var name, sysType, os string
		var stack []string
		var ports []int
		var criticality string
		if i < len(systemTemplates) {
			t := systemTemplates[i]
			name, sysType, criticality = t.Name, t.Type, t.Criticality
			os = Pick(c, t.OS)
			stack = Pick(c, t.Stacks)
			ports = t.Ports
		} else {
			sysType = Pick(c, overflowSystemTypes)
			name = fmt.Sprintf("%s Service", Pick(c, []string{"Billing", "Notification", "Search", "Analytics", "Inventory", "Scheduling"}))
			switch sysType {
			case "appliance", "vm":
				os = Pick(c, []string{"Linux", "Ubuntu 22.04", "RHEL 9"})
			case "workstation":
				os = Pick(c, []string{"Windows 11", "macOS"})
			case "saas":
				os = "Linux"
			default:
				os = Pick(c, []string{"Linux", "Ubuntu 22.04", "RHEL 9", "Windows Server 2022"})
			}
			stack = Pick(c, fallbackStacks)
			ports = PickN(c, []int{22, 80, 443, 3306, 5432, 8080, 8443}, 1+c.Intn(3))
			criticality = Pick(c, []string{"low", "medium", "high", "critical"})
		}
		hostname := fmt.Sprintf("%s-%03d", slugify(name), i)
		e := c.NewEntity(domain.EntitySystem, name)
		e.Description = fmt.Sprintf("%s — %s running %s", name, sysType, os)
		e.Fields["system_type"] = sysType
		e.Fields["hostname"] = hostname
		e.Fields["os"] = os
		e.Fields["environment"] = Pick(c, systemEnvironments)
		e.Fields["criticality"] = criticality
		e.Fields["is_internet_facing"] = c.Rand.Float64() < 0.2
		e.Fields["ports"] = ports
		e.Fields["technologies"] = stack
		e.Tags = []string{sysType, criticality}
		out = append(out, e)
	}
	return out, nil
}

func slugify(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r-'A'+'a')
		case r == ' ' || r == '/':
			out = append(out, '-')
		}
	}
	if len(out) > 20 {
		out = out[:20]
	}
	return string(out)
}

var integrationTypes = []string{"API", "ETL", "Event Stream", "Batch File", "Webhook"}
var integrationProtocols = []string{"REST", "GraphQL", "gRPC", "SFTP", "Kafka", "AMQP"}

func generateIntegrations(c *GenerationContext, count int) ([]domain.Entity, error) {
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		it := Pick(c, integrationTypes)
		proto := Pick(c, integrationProtocols)
		e := c.NewEntity(domain.EntityIntegration, fmt.Sprintf("%s Integration — %s", it, proto))
		e.Description = fmt.Sprintf("%s integration using %s", it, proto)
		e.Fields["integration_type"] = it
		e.Fields["protocol"] = proto
		e.Fields["direction"] = Pick(c, []string{"unidirectional", "bidirectional"})
		e.Fields["status"] = Pick(c, []string{"active", "inactive", "deprecated"})
		e.Fields["criticality"] = Pick(c, []string{"low", "medium", "high", "critical"})
		e.Tags = []string{it}
		out = append(out, e)
	}
	return out, nil
}
