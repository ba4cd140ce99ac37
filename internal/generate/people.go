package generate

import (
	"fmt"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

func init() {
	register(domain.EntityRole, generateRoles)
	register(domain.EntityPerson, generatePeople)
}

var roleTemplatesByDepartment = map[string][]string{
	"Engineering":         {"Software Engineer", "Tech Lead", "DevOps Engineer", "QA Engineer", "Engineering Manager"},
	"Product":             {"Product Manager", "Product Analyst", "UX Designer"},
	"Sales":               {"Account Executive", "Sales Engineer", "Sales Director"},
	"Marketing":           {"Marketing Manager", "Content Strategist", "Growth Marketer"},
	"IT Operations":       {"Systems Administrator", "Network Engineer", "Service Desk Analyst"},
	"Security":            {"Security Analyst", "Security Engineer", "Chief Information Security Officer"},
	"HR":                  {"HR Business Partner", "Recruiter", "HR Director"},
	"Finance":             {"Financial Analyst", "Accountant", "Finance Director"},
	"Legal":                {"Corporate Counsel", "Paralegal", "General Counsel"},
	"Trading":             {"Trader", "Quantitative Analyst", "Trading Desk Head"},
	"Technology":          {"Software Engineer", "Site Reliability Engineer", "VP of Technology"},
	"Risk Management":     {"Risk Analyst", "Risk Manager"},
	"Clinical Operations":  {"Physician", "Clinical Coordinator", "Medical Director"},
	"Nursing":             {"Registered Nurse", "Nurse Manager"},
	"Customer Support":    {"Support Engineer", "Support Manager"},
}

var defaultRoleTemplate = []string{"Analyst", "Manager", "Director"}

var seniorityExemptKeywords = []string{
	"manager", "director", "vp", "chief", "head", "principal", "senior",
	"junior", "staff", "recruiter", "paralegal", "officer",
}

func shouldExpandSeniority(roleName string) bool {
	lower := toLower(roleName)
	for _, kw := range seniorityExemptKeywords {
		if contains(lower, kw) {
			return false
		}
	}
	return true
}

// seniorityVariants returns the role titles for one base role: the base
// title plus Junior/Senior/Staff variants gated by department headcount
// thresholds.
func seniorityVariants(roleName string, headcount int) []string {
	if !shouldExpandSeniority(roleName) {
		return []string{roleName}
	}
	variants := []string{roleName}
	if headcount >= 300 {
		variants = append([]string{"Junior " + roleName}, variants...)
	}
	if headcount >= 100 {
		variants = append(variants, "Senior "+roleName)
	}
	if headcount >= 500 {
		variants = append(variants, "Staff "+roleName)
	}
	return variants
}

// parentDepartmentName extracts "Engineering" from "Engineering - Platform
// Engineering" for role-template lookup.
func parentDepartmentName(deptName string) string {
	for i := 0; i+3 <= len(deptName); i++ {
		if deptName[i:i+3] == " - " {
			return deptName[:i]
		}
	}
	return deptName
}

func generateRoles(c *GenerationContext, _ int) ([]domain.Entity, error) {
	departments := c.Entities(domain.EntityDepartment)
	hasChildren := map[string]bool{}
	for _, d := range departments {
		if pid := d.FieldString("parent_department_id"); pid != "" {
			hasChildren[pid] = true
		}
	}

	var out []domain.Entity
	for _, dept := range departments {
		if hasChildren[dept.ID] {
			continue // leadership-only; roles live on the leaf sub-departments
		}
		parentName := parentDepartmentName(dept.Name)
		templates, ok := roleTemplatesByDepartment[parentName]
		if !ok {
			templates = defaultRoleTemplate
		}
		headcount := dept.FieldInt("headcount")
		for _, roleName := range templates {
			for _, variant := range seniorityVariants(roleName, headcount) {
				privileged := contains(toLower(variant), "admin") || contains(toLower(variant), "security") || contains(toLower(variant), "chief")
				e := c.NewEntity(domain.EntityRole, variant)
				e.Description = fmt.Sprintf("%s role within %s", variant, dept.Name)
				e.Fields["department_id"] = dept.ID
				e.Fields["is_privileged"] = privileged
				e.Fields["headcount_filled"] = 0
				e.Fields["filled_by_persons"] = []string{}
				e.Tags = []string{parentName}
				out = append(out, e)
			}
		}
	}
	return out, nil
}

var firstNames = []string{"James", "Mary", "Robert", "Patricia", "John", "Linda", "Michael", "Barbara", "David", "Elizabeth", "Priya", "Wei", "Fatima", "Carlos", "Elena", "Aiden", "Noor", "Yuki", "Oliver", "Sophia"}
var lastNames = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez", "Patel", "Kim", "Nguyen", "Silva", "Kowalski", "Muller", "Tanaka", "Okafor", "Rossi", "Svensson"}
var clearanceLevels = []string{"none", "basic", "elevated", "privileged", "admin"}

// generatePeople distributes the profile's employee count across leaf
// departments proportional to headcount, with remainder rounding, and
// assigns one role per person drawn from that department's roles.
func generatePeople(c *GenerationContext, count int) ([]domain.Entity, error) {
	departments := c.Entities(domain.EntityDepartment)
	roles := c.Entities(domain.EntityRole)

	rolesByDept := map[string][]domain.Entity{}
	for _, r := range roles {
		rolesByDept[r.FieldString("department_id")] = append(rolesByDept[r.FieldString("department_id")], r)
	}

	var leaves []domain.Entity
	hasChildren := map[string]bool{}
	for _, d := range departments {
		if pid := d.FieldString("parent_department_id"); pid != "" {
			hasChildren[pid] = true
		}
	}
	for _, d := range departments {
		if !hasChildren[d.ID] {
			leaves = append(leaves, d)
		}
	}
	if len(leaves) == 0 {
		return nil, nil
	}

	totalHeadcount := 0
	for _, d := range leaves {
		totalHeadcount += d.FieldInt("headcount")
	}
	if totalHeadcount == 0 {
		totalHeadcount = len(leaves)
	}

	domainSuffix := slugify(c.Profile.Name) + ".com"
	out := make([]domain.Entity, 0, count)
	n := 0
	assigned := 0
	for di, dept := range leaves {
		share := count
		if totalHeadcount > 0 {
			share = count * dept.FieldInt("headcount") / totalHeadcount
		}
		if di == len(leaves)-1 {
			share = count - assigned // remainder goes to the last department
		}
		assigned += share
		deptRoles := rolesByDept[dept.ID]
		for i := 0; i < share && n < count; i++ {
			first := Pick(c, firstNames)
			last := Pick(c, lastNames)
			isContractor := float64(n)/float64(maxInt(count, 1)) > (1 - c.Profile.contractorFraction())
			e := c.NewEntity(domain.EntityPerson, fmt.Sprintf("%s %s", first, last))
			e.Description = fmt.Sprintf("%s at %s", first, dept.Name)
			e.Fields["employee_id"] = fmt.Sprintf("EMP-%06d", n+1)
			e.Fields["email"] = fmt.Sprintf("%s.%s@%s", toLower(first), toLower(last), domainSuffix)
			e.Fields["clearance_level"] = Pick(c, clearanceLevels)
			e.Fields["is_active"] = c.Rand.Float64() < 0.95
			e.Fields["department_id"] = dept.ID
			e.Fields["located_at"] = ""
			e.Fields["holds_roles"] = []string{}
			if len(deptRoles) > 0 {
				role := Pick(c, deptRoles)
				e.Fields["holds_roles"] = []string{role.ID}
				e.Fields["title"] = role.Name
			} else {
				e.Fields["title"] = "Staff Member"
			}
			if isContractor {
				e.Tags = []string{"contractor"}
			} else {
				e.Tags = []string{"employee"}
			}
			out = append(out, e)
			n++
		}
	}
	return out, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func toLower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		out[i] = ch
	}
	return string(out)
}

func contains(s, sub string) bool {
	if len(sub) == 0 {
		return true
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
