package generate

import (
	"fmt"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

func init() {
	register(domain.EntityDepartment, generateDepartments)
	register(domain.EntityOrganizationalUnit, generateOrgUnits)
}

// subdivisionThreshold is the minimum headcount before a department is
// split into sub-departments.
const subdivisionThreshold = 500

// departmentSpec is one top-level department template: its name and its
// share of total headcount.
type departmentSpec struct {
	Name     string
	Fraction float64
}

var departmentsByIndustry = map[string][]departmentSpec{
	"technology": {
		{"Engineering", 0.40}, {"Product", 0.08}, {"Sales", 0.15},
		{"Marketing", 0.07}, {"IT Operations", 0.06}, {"Security", 0.04},
		{"HR", 0.05}, {"Finance", 0.06}, {"Legal", 0.03}, {"Customer Support", 0.06},
	},
	"financial_services": {
		{"Trading", 0.15}, {"Technology", 0.20}, {"Risk Management", 0.10},
		{"Compliance & Legal", 0.08}, {"Operations", 0.15}, {"Client Services", 0.12},
		{"Finance & Accounting", 0.08}, {"Information Security", 0.05}, {"Internal Audit", 0.03}, {"HR", 0.04},
	},
	"healthcare": {
		{"Clinical Operations", 0.35}, {"Nursing", 0.20}, {"Administration", 0.10},
		{"IT", 0.08}, {"Finance & Billing", 0.07}, {"Pharmacy", 0.06},
		{"Research", 0.04}, {"Compliance", 0.04}, {"Facilities", 0.03}, {"HR", 0.03},
	},
}

// subDepartmentTemplates maps a parent department name to its candidate
// sub-department names, used when the parent's headcount crosses
// subdivisionThreshold.
var subDepartmentTemplates = map[string][]string{
	"Engineering":           {"Platform Engineering", "Product Engineering", "Infrastructure", "Data Engineering", "Mobile Engineering", "Frontend Engineering", "Backend Engineering", "QA & Testing", "SRE & Reliability", "Security Engineering"},
	"Product":               {"Product Management", "UX & Design", "Product Analytics", "Technical Writing"},
	"Sales":                 {"Enterprise Sales", "Mid-Market Sales", "Inside Sales", "Solutions Engineering", "Sales Operations"},
	"Marketing":             {"Digital Marketing", "Brand & Communications", "Product Marketing", "Events & Field Marketing", "Demand Generation"},
	"IT Operations":         {"Cloud Infrastructure", "Service Desk", "Network Operations", "Database Administration"},
	"Security":              {"Security Operations", "GRC", "Threat Intelligence", "Application Security", "Identity & Access Management"},
	"HR":                    {"Talent Acquisition", "Compensation & Benefits", "Learning & Development", "Employee Relations"},
	"Finance":               {"Financial Planning & Analysis", "Treasury", "Tax", "Accounts Payable & Receivable"},
	"Legal":                 {"Corporate Legal", "Intellectual Property", "Employment Law"},
	"Trading":               {"Equities Trading", "Fixed Income", "Derivatives", "FX Trading", "Commodities"},
	"Technology":            {"Platform Engineering", "Application Development", "Infrastructure & Cloud", "Data Engineering", "DevOps & SRE", "QA & Testing"},
	"Risk Management":       {"Market Risk", "Credit Risk", "Operational Risk", "Model Risk"},
	"Clinical Operations":   {"Emergency Medicine", "Surgery", "Internal Medicine", "Pediatrics", "Radiology"},
	"Operations":            {"Back Office Operations", "Settlement", "Reconciliation", "Client Onboarding"},
	"Facilities":            {"Maintenance & Engineering", "Environmental Services", "Safety & Security"},
}

// departmentSpecsFor returns the org's base department templates, falling
// back to the technology set for unrecognized industries.
func departmentSpecsFor(industry string) []departmentSpec {
	if specs, ok := departmentsByIndustry[industry]; ok {
		return specs
	}
	return departmentsByIndustry["technology"]
}

func generateDepartments(c *GenerationContext, _ int) ([]domain.Entity, error) {
	specs := departmentSpecsFor(c.Profile.Industry)
	var out []domain.Entity
	for i, spec := range specs {
		headcount := int(float64(c.Profile.EmployeeCount) * spec.Fraction)
		if headcount < 1 {
			headcount = 1
		}
		parent := c.NewEntity(domain.EntityDepartment, spec.Name)
		parent.Description = fmt.Sprintf("%s department at %s", spec.Name, c.Profile.Name)
		parent.Fields["code"] = fmt.Sprintf("DEPT%02d", i+1)
		parent.Fields["headcount"] = headcount
		parent.Fields["parent_department_id"] = ""

		if headcount > subdivisionThreshold {
			children := subdivideDepartment(c, &parent)
			out = append(out, parent)
			out = append(out, children...)
		} else {
			out = append(out, parent)
		}
	}
	return out, nil
}

// subdivideDepartment implements the split rule: the parent keeps ~3% of
// headcount, the remainder is split evenly (with remainder rounding)
// across min(len(templates), max(2, headcount/300)) sub-departments.
func subdivideDepartment(c *GenerationContext, parent *domain.Entity) []domain.Entity {
	templates := subDepartmentTemplates[parent.Name]
	if len(templates) == 0 {
		return nil
	}
	headcount := parent.FieldInt("headcount")
	nSubs := headcount / 300
	if nSubs < 2 {
		nSubs = 2
	}
	if nSubs > len(templates) {
		nSubs = len(templates)
	}

	leadership := int(float64(headcount) * 0.03)
	if leadership < 3 {
		leadership = 3
	}
	remaining := headcount - leadership
	parent.Fields["headcount"] = leadership

	base := remaining / nSubs
	leftover := remaining - base*nSubs

	children := make([]domain.Entity, 0, nSubs)
	for i := 0; i < nSubs; i++ {
		subHeadcount := base
		if i < leftover {
			subHeadcount++
		}
		sub := c.NewEntity(domain.EntityDepartment, fmt.Sprintf("%s - %s", parent.Name, templates[i]))
		sub.Description = fmt.Sprintf("%s division within %s at %s", templates[i], parent.Name, c.Profile.Name)
		code, _ := parent.Field("code")
		sub.Fields["code"] = fmt.Sprintf("%v_%02d", code, i+1)
		sub.Fields["headcount"] = subHeadcount
		sub.Fields["parent_department_id"] = parent.ID
		children = append(children, sub)
	}
	return children
}

var orgUnitTypes = []string{"Business Unit", "Division", "Team", "Shared Service Center", "Center of Excellence"}

func generateOrgUnits(c *GenerationContext, count int) ([]domain.Entity, error) {
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		t := Pick(c, orgUnitTypes)
		e := c.NewEntity(domain.EntityOrganizationalUnit, fmt.Sprintf("%s %d", t, i+1))
		e.Description = fmt.Sprintf("%s within %s", t, c.Profile.Name)
		e.Fields["unit_type"] = t
		e.Tags = []string{t}
		out = append(out, e)
	}
	return out, nil
}
