// Package quality assesses a generated graph's structural plausibility:
// five independent checks in [0, 1], composite score the arithmetic
// mean, with a warning (not an error) logged when the composite drops
// below the acceptance threshold.
package quality

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

// AcceptanceThreshold is the composite score below which the orchestrator
// logs a warning rather than failing generation outright.
const AcceptanceThreshold = 0.70

// Report holds the five per-metric scores, their arithmetic mean, and the
// specific findings that pulled any metric below 1.0.
type Report struct {
	Overall              float64
	RiskMath             float64
	Descriptions         float64
	TechCoherence        float64
	FieldCorrelation     float64
	Encryption           float64
	Warnings             []string
}

// Assess runs all five checks concurrently over a read-only snapshot of
// entities grouped by kind, then averages their scores.
func Assess(ctx context.Context, byKind map[domain.EntityType][]domain.Entity) (Report, error) {
	var report Report
	scores := make([]float64, 5)
	warningSets := make([][]string, 5)

	g, _ := errgroup.WithContext(ctx)
	checks := []func() (float64, []string){
		func() (float64, []string) { return checkRiskMath(byKind[domain.EntityRisk]) },
		func() (float64, []string) { return checkDescriptions(byKind) },
		func() (float64, []string) { return checkTechCoherence(byKind[domain.EntitySystem]) },
		func() (float64, []string) { return checkFieldCorrelations(byKind) },
		func() (float64, []string) { return checkEncryption(byKind[domain.EntityDataFlow]) },
	}
	for i, check := range checks {
		i, check := i, check
		g.Go(func() error {
			score, warnings := check()
			scores[i] = score
			warningSets[i] = warnings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	report.RiskMath = scores[0]
	report.Descriptions = scores[1]
	report.TechCoherence = scores[2]
	report.FieldCorrelation = scores[3]
	report.Encryption = scores[4]

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	report.Overall = sum / float64(len(scores))

	for _, ws := range warningSets {
		report.Warnings = append(report.Warnings, ws...)
	}
	return report, nil
}

// IsAcceptable reports whether the composite score clears the threshold
// below which the orchestrator should log a warning.
func (r Report) IsAcceptable() bool {
	return r.Overall >= AcceptanceThreshold
}

var loremPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(lorem|ipsum|dolor|sit amet|consectetur)\b`),
}

func isLorem(text string) bool {
	for _, p := range loremPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func checkRiskMath(risks []domain.Entity) (float64, []string) {
	if len(risks) == 0 {
		return 1.0, nil
	}
	var warnings []string
	correct := 0
	for _, risk := range risks {
		likelihood := domain.RiskLevel(risk.FieldString("inherent_likelihood"))
		impact := domain.RiskLevel(risk.FieldString("inherent_impact"))
		level := domain.RiskLevel(risk.FieldString("inherent_risk_level"))
		if likelihood == "" || impact == "" || level == "" {
			correct++
			continue
		}
		expected := domain.InherentRiskLevel(likelihood, impact)
		if expected == level {
			correct++
		} else {
			warnings = append(warnings, fmt.Sprintf("risk %q: level=%s but expected=%s from %s x %s",
				risk.Name, level, expected, likelihood, impact))
		}
	}
	return float64(correct) / float64(len(risks)), warnings
}

var descriptionKinds = []domain.EntityType{
	domain.EntityPerson, domain.EntitySystem, domain.EntityDataAsset,
	domain.EntityVendor, domain.EntityIncident, domain.EntityVulnerability,
	domain.EntityRisk, domain.EntityThreat, domain.EntityControl,
	domain.EntityIntegration, domain.EntityDataFlow, domain.EntityCustomer,
	domain.EntityContract, domain.EntityInitiative, domain.EntityPolicy,
}

func checkDescriptions(byKind map[domain.EntityType][]domain.Entity) (float64, []string) {
	var warnings []string
	total, good := 0, 0
	for _, kind := range descriptionKinds {
		for _, e := range byKind[kind] {
			if e.Description == "" {
				continue
			}
			total++
			if !isLorem(e.Description) {
				good++
			} else {
				warnings = append(warnings, fmt.Sprintf("%s %q: lorem-ipsum description", kind, e.Name))
			}
		}
	}
	if total == 0 {
		return 1.0, nil
	}
	return float64(good) / float64(total), warnings
}

var webFrameworks = map[string]struct{}{
	"django": {}, "rails": {}, "react": {}, "express": {}, "spring": {}, "flask": {},
}

func checkTechCoherence(systems []domain.Entity) (float64, []string) {
	if len(systems) == 0 {
		return 1.0, nil
	}
	var warnings []string
	coherent := 0
	for _, s := range systems {
		sysType := s.FieldString("system_type")
		var hit string
		for _, t := range s.FieldStringSlice("technologies") {
			if _, ok := webFrameworks[strings.ToLower(t)]; ok {
				hit = t
				break
			}
		}
		if sysType == "appliance" && hit != "" {
			warnings = append(warnings, fmt.Sprintf("system %q: appliance with web framework %s", s.Name, hit))
			continue
		}
		coherent++
	}
	return float64(coherent) / float64(len(systems)), warnings
}

func checkFieldCorrelations(byKind map[domain.EntityType][]domain.Entity) (float64, []string) {
	var warnings []string
	checks, passes := 0.0, 0.0

	for _, risk := range byKind[domain.EntityRisk] {
		inherent := domain.RiskLevel(risk.FieldString("inherent_risk_level"))
		residual := domain.RiskLevel(risk.FieldString("residual_risk_level"))
		if inherent == "" || residual == "" {
			continue
		}
		checks++
		if domain.ResidualAtMostInherent(residual, inherent) {
			passes++
		} else {
			warnings = append(warnings, fmt.Sprintf("risk %q: residual (%s) > inherent (%s)", risk.Name, residual, inherent))
		}
	}

	for _, vuln := range byKind[domain.EntityVulnerability] {
		status := vuln.FieldString("status")
		if status == "" {
			continue
		}
		patch, ok := vuln.Field("patch_available")
		if !ok {
			continue
		}
		patchAvailable, _ := patch.(bool)
		checks++
		switch {
		case patchAvailable && (status == "patched" || status == "in_remediation"):
			passes++
		case !patchAvailable && (status == "open" || status == "accepted_risk"):
			passes++
		default:
			passes += 0.5
		}
	}

	for _, site := range byKind[domain.EntitySite] {
		if site.FieldString("site_type") != "Data Center" {
			continue
		}
		checks++
		if site.FieldString("physical_security_tier") == "restricted" {
			passes++
		} else {
			warnings = append(warnings, fmt.Sprintf("site %q: data center with %s security", site.Name, site.FieldString("physical_security_tier")))
		}
	}

	if checks == 0 {
		return 1.0, nil
	}
	return passes / checks, warnings
}

func checkEncryption(flows []domain.Entity) (float64, []string) {
	if len(flows) == 0 {
		return 1.0, nil
	}
	var warnings []string
	total, encrypted := 0, 0
	for _, f := range flows {
		classification := f.FieldString("classification")
		if classification != "restricted" && classification != "confidential" {
			continue
		}
		total++
		if f.FieldBool("encryption_in_transit") {
			encrypted++
		} else {
			warnings = append(warnings, fmt.Sprintf("data_flow %q: %s data not encrypted in transit", f.Name, classification))
		}
	}
	if total == 0 {
		return 1.0, nil
	}
	return float64(encrypted) / float64(total), warnings
}
