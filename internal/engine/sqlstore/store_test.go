package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := Open(":memory:")
	require.NoError(t, err)
	return b
}

func newEntity(kind domain.EntityType, name string) domain.Entity {
	return domain.NewEntity(kind, name, time.Now().UTC())
}

func TestAddEntityRoundTrips(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)

	e := newEntity(domain.EntitySystem, "Billing API")
	added, err := b.AddEntity(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, e.Name, added.Name)

	fetched, err := b.GetEntity(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added.ID, fetched.ID)
	assert.Equal(t, domain.EntitySystem, fetched.EntityType)
}

func TestAddEntityRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)

	added, err := b.AddEntity(ctx, newEntity(domain.EntitySystem, "Billing API"))
	require.NoError(t, err)

	_, err = b.AddEntity(ctx, added)
	require.Error(t, err)
	assert.Equal(t, domain.ErrValidation, domain.KindOf(err))
}

func TestAddRelationshipRejectsUnknownEndpoints(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	sys, err := b.AddEntity(ctx, newEntity(domain.EntitySystem, "Billing API"))
	require.NoError(t, err)

	rel := domain.NewRelationship(domain.RelDependsOn, sys.ID, "does-not-exist", 0.5, 0.9, time.Now().UTC())
	_, err = b.AddRelationship(ctx, rel)
	require.Error(t, err)
	assert.Equal(t, domain.ErrValidation, domain.KindOf(err))
}

func TestAddRelationshipRejectsSchemaViolation(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	person, err := b.AddEntity(ctx, newEntity(domain.EntityPerson, "Alex Doe"))
	require.NoError(t, err)
	dept, err := b.AddEntity(ctx, newEntity(domain.EntityDepartment, "Engineering"))
	require.NoError(t, err)

	// governs requires a policy source, not a person: schema violation.
	rel := domain.NewRelationship(domain.RelGoverns, person.ID, dept.ID, 0.5, 0.9, time.Now().UTC())
	_, err = b.AddRelationship(ctx, rel)
	require.Error(t, err)
	assert.Equal(t, domain.ErrSchemaViolation, domain.KindOf(err))
}

// TestRemoveEntityCascadesRelationships asserts the remove-cascade
// invariant holds for the sqlite-backed store too: removing an entity
// removes every relationship incident to it, in either direction.
func TestRemoveEntityCascadesRelationships(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)

	sys, err := b.AddEntity(ctx, newEntity(domain.EntitySystem, "Billing API"))
	require.NoError(t, err)
	network, err := b.AddEntity(ctx, newEntity(domain.EntityNetwork, "Core Network"))
	require.NoError(t, err)
	dataAsset, err := b.AddEntity(ctx, newEntity(domain.EntityDataAsset, "Invoice Records"))
	require.NoError(t, err)

	hosts, err := b.AddRelationship(ctx, domain.NewRelationship(domain.RelHosts, network.ID, sys.ID, 0.8, 0.9, time.Now().UTC()))
	require.NoError(t, err)
	stores, err := b.AddRelationship(ctx, domain.NewRelationship(domain.RelStores, sys.ID, dataAsset.ID, 0.8, 0.9, time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, b.RemoveEntity(ctx, sys.ID))

	_, err = b.GetEntity(ctx, sys.ID)
	require.Error(t, err)
	assert.Equal(t, domain.ErrNotFound, domain.KindOf(err))

	_, err = b.GetRelationship(ctx, hosts.ID)
	require.Error(t, err)
	_, err = b.GetRelationship(ctx, stores.ID)
	require.Error(t, err)

	rels, err := b.AllRelationships(ctx)
	require.NoError(t, err)
	assert.Empty(t, rels)

	remaining, err := b.AllEntities(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestListEntitiesFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	for i := 0; i < 5; i++ {
		_, err := b.AddEntity(ctx, newEntity(domain.EntitySystem, "sys"))
		require.NoError(t, err)
	}
	_, err := b.AddEntity(ctx, newEntity(domain.EntityVendor, "vendor"))
	require.NoError(t, err)

	all, err := b.ListEntities(ctx, domain.EntitySystem, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	page, err := b.ListEntities(ctx, domain.EntitySystem, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	count, err := b.CountEntities(ctx, domain.EntitySystem)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	total, err := b.CountEntities(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 6, total)
}

func TestNeighborsRespectsDirection(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	a, err := b.AddEntity(ctx, newEntity(domain.EntitySystem, "A"))
	require.NoError(t, err)
	bb, err := b.AddEntity(ctx, newEntity(domain.EntitySystem, "B"))
	require.NoError(t, err)
	c, err := b.AddEntity(ctx, newEntity(domain.EntitySystem, "C"))
	require.NoError(t, err)

	_, err = b.AddRelationship(ctx, domain.NewRelationship(domain.RelDependsOn, a.ID, bb.ID, 0.5, 0.9, time.Now().UTC()))
	require.NoError(t, err)
	_, err = b.AddRelationship(ctx, domain.NewRelationship(domain.RelDependsOn, c.ID, a.ID, 0.5, 0.9, time.Now().UTC()))
	require.NoError(t, err)

	out, err := b.Neighbors(ctx, a.ID, engine.DirOut, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, bb.ID, out[0].ID)

	in, err := b.Neighbors(ctx, a.ID, engine.DirIn, nil)
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, c.ID, in[0].ID)

	both, err := b.Neighbors(ctx, a.ID, engine.DirBoth, nil)
	require.NoError(t, err)
	assert.Len(t, both, 2)

	has, err := b.HasEdge(ctx, a.ID, bb.ID)
	require.NoError(t, err)
	assert.True(t, has)
	has, err = b.HasEdge(ctx, bb.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestUpdateEntityAppliesPatchAndBumpsVersion(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	e, err := b.AddEntity(ctx, newEntity(domain.EntitySystem, "Billing API"))
	require.NoError(t, err)
	require.Equal(t, 1, e.Version)

	updated, err := b.UpdateEntity(ctx, e.ID, map[string]any{"description": "core billing system"})
	require.NoError(t, err)
	assert.Equal(t, "core billing system", updated.Description)
	assert.Equal(t, 2, updated.Version)
}

func TestStatsReflectsCountsByType(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	sys, err := b.AddEntity(ctx, newEntity(domain.EntitySystem, "A"))
	require.NoError(t, err)
	network, err := b.AddEntity(ctx, newEntity(domain.EntityNetwork, "B"))
	require.NoError(t, err)
	_, err = b.AddRelationship(ctx, domain.NewRelationship(domain.RelHosts, network.ID, sys.ID, 0.5, 0.9, time.Now().UTC()))
	require.NoError(t, err)

	stats, err := b.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.EntityCount)
	assert.Equal(t, 1, stats.RelationshipCount)
	assert.Equal(t, 1, stats.EntityCountByType[domain.EntitySystem])
	assert.Equal(t, 1, stats.RelationshipCountByType[domain.RelHosts])
}

func TestClearResetsBackend(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	_, err := b.AddEntity(ctx, newEntity(domain.EntitySystem, "A"))
	require.NoError(t, err)

	require.NoError(t, b.Clear(ctx))

	entities, err := b.AllEntities(ctx)
	require.NoError(t, err)
	assert.Empty(t, entities)
}
