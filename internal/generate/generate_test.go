package generate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
	_ "github.com/thehipsterciso/hc-enterprise-kg/internal/engine/memory"
)

func newSmallProfile() OrgProfile {
	return OrgProfile{
		Name:          "Acme Corp",
		Industry:      "technology",
		EmployeeCount: 50,
		Seed:          7,
	}
}

func TestRunProducesPeopleSystemsDepartmentsAndRoles(t *testing.T) {
	ctx := context.Background()
	eng, err := engine.New("memory")
	require.NoError(t, err)
	c := NewGenerationContext(ctx, eng, newSmallProfile())

	result, err := Run(c)
	require.NoError(t, err)

	assert.Equal(t, 50, result.EntitiesByKind[domain.EntityPerson])
	assert.Greater(t, result.EntitiesByKind[domain.EntitySystem], 0)
	assert.Greater(t, result.EntitiesByKind[domain.EntityDepartment], 0)
	assert.Greater(t, len(c.Entities(domain.EntityRole)), 0)

	stats, err := eng.Stats(ctx)
	require.NoError(t, err)
	assert.Greater(t, stats.EntityCount, 0)
}

func TestRunIsDeterministicForAFixedSeed(t *testing.T) {
	ctx := context.Background()

	run := func() map[domain.EntityType]int {
		eng, err := engine.New("memory")
		require.NoError(t, err)
		c := NewGenerationContext(ctx, eng, newSmallProfile())
		result, err := Run(c)
		require.NoError(t, err)
		return result.EntitiesByKind
	}

	assert.Equal(t, run(), run())
}

func TestGenerateVulnerabilitiesDerivesFromSystemsNotACount(t *testing.T) {
	ctx := context.Background()
	eng, err := engine.New("memory")
	require.NoError(t, err)
	c := NewGenerationContext(ctx, eng, newSmallProfile())

	systems, err := generateSystems(c, 40)
	require.NoError(t, err)
	require.NoError(t, c.AddAll(domain.EntitySystem, systems))

	vulns, err := generateVulnerabilities(c, 999)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(vulns), len(systems))
	for _, v := range vulns {
		assert.NotEmpty(t, v.FieldString("affected_system_id"))
		assert.NotEmpty(t, v.FieldString("severity"))
	}
}

func TestLocationCountRespectsExplicitOverride(t *testing.T) {
	ctx := context.Background()
	eng, err := engine.New("memory")
	require.NoError(t, err)
	profile := newSmallProfile()
	profile.LocationCount = 9
	c := NewGenerationContext(ctx, eng, profile)

	assert.Equal(t, 9, locationCount(c))
}
