package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntityTypeIsValid(t *testing.T) {
	assert.True(t, EntitySystem.IsValid())
	assert.False(t, EntityType("not_a_kind").IsValid())
}

func TestEntityTypeLayerAndDerived(t *testing.T) {
	assert.Equal(t, LayerTechnology, EntitySystem.Layer())
	assert.False(t, EntitySystem.IsDerived())
	assert.True(t, EntityVulnerability.IsDerived())
}

func TestKindsInLayerCoversEveryEntityType(t *testing.T) {
	seen := map[EntityType]bool{}
	for _, layer := range LayerOrder {
		for _, kind := range KindsInLayer(layer) {
			seen[kind] = true
		}
	}
	for _, kind := range AllEntityTypes() {
		assert.True(t, seen[kind], "entity kind %s missing from every layer", kind)
	}
}

func TestRelationshipTypeIsValid(t *testing.T) {
	assert.True(t, RelWorksIn.IsValid())
	assert.False(t, RelationshipType("not_a_kind").IsValid())
}

func TestAllowsSourceAndTargetKind(t *testing.T) {
	assert.True(t, RelWorksIn.AllowsSourceKind(EntityPerson))
	assert.False(t, RelWorksIn.AllowsSourceKind(EntitySystem))
	assert.True(t, RelWorksIn.AllowsTargetKind(EntityDepartment))
	assert.False(t, RelWorksIn.AllowsTargetKind(EntityPerson))
}

func TestAllowsSourceKindOnUnknownRelationshipIsFalse(t *testing.T) {
	assert.False(t, RelationshipType("not_a_kind").AllowsSourceKind(EntityPerson))
}

func TestClampRoundClampsAndRounds(t *testing.T) {
	assert.Equal(t, 0.0, ClampRound(-0.5))
	assert.Equal(t, 1.0, ClampRound(1.5))
	assert.Equal(t, 0.83, ClampRound(0.8251))
}

func TestNewEntityStampsIdentityAndVersion(t *testing.T) {
	now := time.Now().UTC()
	e := NewEntity(EntitySystem, "Billing API", now)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, 1, e.Version)
	assert.Equal(t, now, e.CreatedAt)
	assert.Equal(t, now, e.UpdatedAt)
	assert.Empty(t, e.Tags)
	assert.NotNil(t, e.Fields)
}

func TestNewRelationshipClampsWeightAndConfidence(t *testing.T) {
	now := time.Now().UTC()
	r := NewRelationship(RelWorksIn, "a", "b", 5.0, -1.0, now)
	assert.Equal(t, 1.0, r.Weight)
	assert.Equal(t, 0.0, r.Confidence)
}

func TestEntityCloneIsIndependent(t *testing.T) {
	e := NewEntity(EntitySystem, "Billing API", time.Now().UTC())
	e.Tags = append(e.Tags, "core")
	clone := e.Clone()
	clone.Tags[0] = "mutated"
	assert.Equal(t, "core", e.Tags[0])
}
