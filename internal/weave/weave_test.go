package weave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
	_ "github.com/thehipsterciso/hc-enterprise-kg/internal/engine/memory"
)

func newTestContext(t *testing.T) (*Context, engine.Engine) {
	t.Helper()
	ctx := context.Background()
	eng, err := engine.New("memory")
	require.NoError(t, err)
	now := time.Now().UTC()

	dept, err := eng.AddEntity(ctx, domain.NewEntity(domain.EntityDepartment, "Engineering", now))
	require.NoError(t, err)

	role, err := eng.AddEntity(ctx, domain.NewEntity(domain.EntityRole, "Engineer", now))
	require.NoError(t, err)

	location, err := eng.AddEntity(ctx, domain.NewEntity(domain.EntityLocation, "HQ", now))
	require.NoError(t, err)

	people := make([]domain.Entity, 0, 3)
	for i := 0; i < 3; i++ {
		p := domain.NewEntity(domain.EntityPerson, "Alex Doe", now)
		p.Fields["department_id"] = dept.ID
		p.Fields["holds_roles"] = []string{role.ID}
		p, err = eng.AddEntity(ctx, p)
		require.NoError(t, err)
		people = append(people, p)
	}

	byKind := map[domain.EntityType][]domain.Entity{
		domain.EntityDepartment: {dept},
		domain.EntityRole:       {role},
		domain.EntityLocation:   {location},
		domain.EntityPerson:     people,
	}
	return NewContext(ctx, eng, byKind, 42, now), eng
}

func TestWeaveWorksInLinksEveryPersonToTheirDepartment(t *testing.T) {
	c, _ := newTestContext(t)
	rels := c.weaveWorksIn()
	assert.Len(t, rels, 3)
	for _, r := range rels {
		assert.Equal(t, domain.RelWorksIn, r.RelationshipType)
	}
}

func TestWeaveReportsToLeavesOneUnmanagedPersonPerDepartment(t *testing.T) {
	c, _ := newTestContext(t)
	rels := c.weaveReportsTo()

	reportsTo, manages := 0, 0
	for _, r := range rels {
		switch r.RelationshipType {
		case domain.RelReportsTo:
			reportsTo++
		case domain.RelManages:
			manages++
		}
	}
	// three people in one department -> two report to the third, plus
	// one extra "manager heads the department" relationship
	assert.Equal(t, 2, reportsTo)
	assert.Equal(t, 3, manages)
}

func TestWeaveAllPopulatesMirrorFields(t *testing.T) {
	c, eng := newTestContext(t)
	result, err := WeaveAll(c)
	require.NoError(t, err)
	assert.Greater(t, result.RelationshipCount, 0)

	for _, p := range c.Entities(domain.EntityPerson) {
		updated, err := eng.GetEntity(c.Ctx, p.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, updated.FieldStringSlice("holds_roles"))
		assert.NotEmpty(t, updated.FieldString("located_at"))
	}
}
