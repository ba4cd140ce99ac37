package exportimport

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

func seedGraph(t *testing.T) engine.Engine {
	t.Helper()
	eng, err := engine.New("memory")
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now().UTC()

	dept := domain.NewEntity(domain.EntityDepartment, "Engineering", now)
	dept, err = eng.AddEntity(ctx, dept)
	require.NoError(t, err)

	person := domain.NewEntity(domain.EntityPerson, "Jane Doe", now)
	person, err = eng.AddEntity(ctx, person)
	require.NoError(t, err)

	rel := domain.NewRelationship(domain.RelWorksIn, person.ID, dept.ID, 0.9, 0.92, now)
	_, err = eng.AddRelationship(ctx, rel)
	require.NoError(t, err)

	return eng
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := seedGraph(t)

	doc, err := Export(ctx, src)
	require.NoError(t, err)
	assert.Len(t, doc.Entities, 2)
	assert.Len(t, doc.Relationships, 1)

	data, err := Marshal(doc)
	require.NoError(t, err)

	decoded, err := Unmarshal(data, false)
	require.NoError(t, err)

	dst, err := engine.New("memory")
	require.NoError(t, err)
	require.NoError(t, Import(ctx, dst, decoded))

	srcEntities, err := src.AllEntities(ctx)
	require.NoError(t, err)
	dstEntities, err := dst.AllEntities(ctx)
	require.NoError(t, err)
	assert.Len(t, dstEntities, len(srcEntities))

	srcRels, err := src.AllRelationships(ctx)
	require.NoError(t, err)
	dstRels, err := dst.AllRelationships(ctx)
	require.NoError(t, err)
	require.Len(t, dstRels, len(srcRels))
	assert.Equal(t, srcRels[0].ID, dstRels[0].ID)
	assert.Equal(t, srcRels[0].Weight, dstRels[0].Weight)
}

func TestImportRejectsSchemaViolation(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	person := domain.NewEntity(domain.EntityPerson, "Jane Doe", now)
	system := domain.NewEntity(domain.EntitySystem, "Billing Service", now)

	bad := domain.NewRelationship(domain.RelGoverns, person.ID, system.ID, 0.5, 0.9, now)

	doc := Document{
		Entities:      []entityDoc{toEntityDoc(person), toEntityDoc(system)},
		Relationships: []relationshipDoc{toRelationshipDoc(bad)},
		Statistics:    map[string]any{},
	}

	dst, err := engine.New("memory")
	require.NoError(t, err)
	err = Import(ctx, dst, doc)
	require.Error(t, err)
	assert.Equal(t, domain.ErrSchemaViolation, domain.KindOf(err))
}

func TestUnmarshalStrictRejectsUnknownEntityField(t *testing.T) {
	raw := []byte(`{
		"entities": [{
			"id": "e1", "entity_type": "system", "name": "Billing",
			"created_at": "2026-01-01T00:00:00Z", "updated_at": "2026-01-01T00:00:00Z",
			"version": 1, "unexpected_field": "oops"
		}],
		"relationships": [],
		"statistics": {}
	}`)

	_, err := Unmarshal(raw, true)
	require.Error(t, err)
	assert.Equal(t, domain.ErrValidation, domain.KindOf(err))

	decoded, err := Unmarshal(raw, false)
	require.NoError(t, err)
	require.Len(t, decoded.Entities, 1)
}
