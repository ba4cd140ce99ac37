package quality

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

func riskEntity(likelihood, impact, level string) domain.Entity {
	e := domain.NewEntity(domain.EntityRisk, "Vendor lock-in", time.Now().UTC())
	e.Fields["inherent_likelihood"] = likelihood
	e.Fields["inherent_impact"] = impact
	e.Fields["inherent_risk_level"] = level
	return e
}

func TestAssessAllEmptyYieldsPerfectScore(t *testing.T) {
	report, err := Assess(context.Background(), map[domain.EntityType][]domain.Entity{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, report.Overall)
	assert.True(t, report.IsAcceptable())
	assert.Empty(t, report.Warnings)
}

func TestAssessFlagsRiskMathMismatch(t *testing.T) {
	consistent := riskEntity("high", "high", string(domain.InherentRiskLevel(domain.RiskHigh, domain.RiskHigh)))
	inconsistent := riskEntity("high", "high", string(domain.RiskVeryLow))

	report, err := Assess(context.Background(), map[domain.EntityType][]domain.Entity{
		domain.EntityRisk: {consistent, inconsistent},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, report.RiskMath)
	assert.NotEmpty(t, report.Warnings)
}

func TestAssessFlagsLoremIpsumDescriptions(t *testing.T) {
	good := domain.NewEntity(domain.EntitySystem, "Billing API", time.Now().UTC())
	good.Description = "Handles invoice generation and dunning for enterprise accounts."
	bad := domain.NewEntity(domain.EntitySystem, "Inventory Service", time.Now().UTC())
	bad.Description = "Lorem ipsum dolor sit amet consectetur."

	report, err := Assess(context.Background(), map[domain.EntityType][]domain.Entity{
		domain.EntitySystem: {good, bad},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, report.Descriptions)
}

func TestAssessFlagsUnencryptedRestrictedDataFlow(t *testing.T) {
	flow := domain.NewEntity(domain.EntityDataFlow, "Payments batch export", time.Now().UTC())
	flow.Fields["classification"] = "restricted"
	flow.Fields["encryption_in_transit"] = false

	report, err := Assess(context.Background(), map[domain.EntityType][]domain.Entity{
		domain.EntityDataFlow: {flow},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Encryption)
	assert.NotEmpty(t, report.Warnings)
}

func TestIsAcceptableThreshold(t *testing.T) {
	assert.True(t, Report{Overall: AcceptanceThreshold}.IsAcceptable())
	assert.False(t, Report{Overall: AcceptanceThreshold - 0.01}.IsAcceptable())
}
