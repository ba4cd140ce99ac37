package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
	_ "github.com/thehipsterciso/hc-enterprise-kg/internal/engine/memory"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/exportimport"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/graphstate"
)

func newDispatcherWithGraph(t *testing.T) (*Dispatcher, string) {
	t.Helper()
	ctx := context.Background()
	eng, err := engine.New("memory")
	require.NoError(t, err)
	now := time.Now().UTC()

	dept, err := eng.AddEntity(ctx, domain.NewEntity(domain.EntityDepartment, "Engineering", now))
	require.NoError(t, err)
	person := domain.NewEntity(domain.EntityPerson, "Alex Doe", now)
	person, err = eng.AddEntity(ctx, person)
	require.NoError(t, err)
	_, err = eng.AddRelationship(ctx, domain.NewRelationship(domain.RelWorksIn, person.ID, dept.ID, 1, 1, now))
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	doc, err := exportimport.Export(ctx, eng)
	require.NoError(t, err)
	data, err := exportimport.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	state := graphstate.New("memory", nil)
	require.NoError(t, state.Load(ctx, path))
	return NewDispatcher(state, nil), path
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestRegistryHasThirteenToolsSplitTenThree(t *testing.T) {
	tools := List()
	require.Len(t, tools, 13)
	reads, writes := 0, 0
	for _, tool := range tools {
		if tool.Write {
			writes++
		} else {
			reads++
		}
	}
	assert.Equal(t, 10, reads)
	assert.Equal(t, 3, writes)
}

func TestDispatchFailsWithoutLoadedGraph(t *testing.T) {
	state := graphstate.New("memory", nil)
	d := NewDispatcher(state, nil)
	_, err := d.Dispatch(context.Background(), "get_statistics", nil)
	require.Error(t, err)
	assert.Equal(t, domain.ErrNoGraphLoaded, domain.KindOf(err))
}

func TestDispatchUnknownToolIsUnsupported(t *testing.T) {
	d, _ := newDispatcherWithGraph(t)
	_, err := d.Dispatch(context.Background(), "not_a_tool", nil)
	require.Error(t, err)
	assert.Equal(t, domain.ErrUnsupported, domain.KindOf(err))
}

func TestGetEntityResponseOmitsTemporalAndMetadataFields(t *testing.T) {
	d, _ := newDispatcherWithGraph(t)
	ctx := context.Background()
	eng, err := d.State.RequireGraph(ctx)
	require.NoError(t, err)
	entities, err := eng.AllEntities(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, entities)

	result, err := d.Dispatch(ctx, "get_entity", mustJSON(t, getEntityArgs{ID: entities[0].ID}))
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	var asMap map[string]any
	require.NoError(t, json.Unmarshal(raw, &asMap))

	for _, stripped := range []string{"created_at", "updated_at", "valid_from", "valid_until", "version", "metadata"} {
		_, present := asMap[stripped]
		assert.False(t, present, "compact entity should never carry %q", stripped)
	}
}

func TestSearchEntitiesReturnsCompactEntities(t *testing.T) {
	d, _ := newDispatcherWithGraph(t)
	result, err := d.Dispatch(context.Background(), "search_entities", mustJSON(t, searchEntitiesArgs{Query: "Alex Doe", Limit: 5}))
	require.NoError(t, err)
	hits, ok := result.([]compactEntity)
	require.True(t, ok)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Alex Doe", hits[0].Name)
}

func TestAddRelationshipToolRejectsSchemaViolation(t *testing.T) {
	d, _ := newDispatcherWithGraph(t)
	ctx := context.Background()
	eng, err := d.State.RequireGraph(ctx)
	require.NoError(t, err)
	entities, err := eng.AllEntities(ctx)
	require.NoError(t, err)

	var person, dept domain.Entity
	for _, e := range entities {
		switch e.EntityType {
		case domain.EntityPerson:
			person = e
		case domain.EntityDepartment:
			dept = e
		}
	}
	require.NotEmpty(t, person.ID)
	require.NotEmpty(t, dept.ID)

	// governs requires a policy source, not a person: schema violation.
	_, err = d.Dispatch(ctx, "add_relationship_tool", mustJSON(t, relationshipArgs{
		Type: string(domain.RelGoverns), Src: person.ID, Tgt: dept.ID,
	}))
	require.Error(t, err)
	assert.Equal(t, domain.ErrSchemaViolation, domain.KindOf(err))
}

func TestAddRelationshipToolRejectsOutOfRangeWeight(t *testing.T) {
	d, _ := newDispatcherWithGraph(t)
	ctx := context.Background()
	eng, err := d.State.RequireGraph(ctx)
	require.NoError(t, err)
	entities, err := eng.AllEntities(ctx)
	require.NoError(t, err)

	var person, dept domain.Entity
	for _, e := range entities {
		switch e.EntityType {
		case domain.EntityPerson:
			person = e
		case domain.EntityDepartment:
			dept = e
		}
	}
	require.NotEmpty(t, person.ID)
	require.NotEmpty(t, dept.ID)

	before, err := eng.AllRelationships(ctx)
	require.NoError(t, err)
	beforeCount := len(before)

	weight := 1.5
	_, err = d.Dispatch(ctx, "add_relationship_tool", mustJSON(t, relationshipArgs{
		Type: string(domain.RelWorksIn), Src: person.ID, Tgt: dept.ID, Weight: &weight,
	}))
	require.Error(t, err)
	assert.Equal(t, domain.ErrValidation, domain.KindOf(err))

	after, err := eng.AllRelationships(ctx)
	require.NoError(t, err)
	assert.Equal(t, beforeCount, len(after))
}

func TestAddRelationshipToolRejectsOutOfRangeConfidence(t *testing.T) {
	d, _ := newDispatcherWithGraph(t)
	ctx := context.Background()
	eng, err := d.State.RequireGraph(ctx)
	require.NoError(t, err)
	entities, err := eng.AllEntities(ctx)
	require.NoError(t, err)

	var person, dept domain.Entity
	for _, e := range entities {
		switch e.EntityType {
		case domain.EntityPerson:
			person = e
		case domain.EntityDepartment:
			dept = e
		}
	}

	confidence := -0.2
	_, err = d.Dispatch(ctx, "add_relationship_tool", mustJSON(t, relationshipArgs{
		Type: string(domain.RelWorksIn), Src: person.ID, Tgt: dept.ID, Confidence: &confidence,
	}))
	require.Error(t, err)
	assert.Equal(t, domain.ErrValidation, domain.KindOf(err))
}

func TestAddRelationshipsBatchIsAllOrNothing(t *testing.T) {
	d, _ := newDispatcherWithGraph(t)
	ctx := context.Background()
	eng, err := d.State.RequireGraph(ctx)
	require.NoError(t, err)
	entities, err := eng.AllEntities(ctx)
	require.NoError(t, err)

	var person, dept domain.Entity
	for _, e := range entities {
		switch e.EntityType {
		case domain.EntityPerson:
			person = e
		case domain.EntityDepartment:
			dept = e
		}
	}

	before, err := eng.AllRelationships(ctx)
	require.NoError(t, err)
	beforeCount := len(before)

	batch := []relationshipArgs{
		{Type: string(domain.RelWorksIn), Src: person.ID, Tgt: dept.ID},
		{Type: string(domain.RelGoverns), Src: person.ID, Tgt: dept.ID}, // invalid: rejects the whole batch
	}
	_, err = d.Dispatch(ctx, "add_relationships_batch", mustJSON(t, batch))
	require.Error(t, err)
	assert.Equal(t, domain.ErrBatchRejected, domain.KindOf(err))

	after, err := eng.AllRelationships(ctx)
	require.NoError(t, err)
	assert.Equal(t, beforeCount, len(after))
}

func TestAddRelationshipsBatchOverMaxSizeRejected(t *testing.T) {
	d, _ := newDispatcherWithGraph(t)
	batch := make([]relationshipArgs, maxBatchSize+1)
	for i := range batch {
		batch[i] = relationshipArgs{Type: string(domain.RelBelongsTo), Src: "x", Tgt: "y"}
	}
	_, err := d.Dispatch(context.Background(), "add_relationships_batch", mustJSON(t, batch))
	require.Error(t, err)
	assert.Equal(t, domain.ErrBatchRejected, domain.KindOf(err))
}

func TestRemoveRelationshipToolPersistsThenReloadReflectsRemoval(t *testing.T) {
	d, path := newDispatcherWithGraph(t)
	ctx := context.Background()
	eng, err := d.State.RequireGraph(ctx)
	require.NoError(t, err)
	rels, err := eng.AllRelationships(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, rels)

	_, err = d.Dispatch(ctx, "remove_relationship_tool", mustJSON(t, removeRelationshipArgs{ID: rels[0].ID}))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := exportimport.Unmarshal(data, false)
	require.NoError(t, err)
	for _, r := range doc.Relationships {
		assert.NotEqual(t, rels[0].ID, r.ID)
	}
}

// TestDispatcherPicksUpExternallyChangedFile exercises the mtime-gated
// reload from the dispatcher side: a file edited by something other than
// this process (no call through d at all) is picked up by the very next
// tool dispatch, with no explicit reload call in between.
func TestDispatcherPicksUpExternallyChangedFile(t *testing.T) {
	d, path := newDispatcherWithGraph(t)
	ctx := context.Background()

	before, err := d.Dispatch(ctx, "get_statistics", mustJSON(t, map[string]any{}))
	require.NoError(t, err)
	beforeCount := before.(map[string]any)["entity_count"]
	require.Equal(t, 2, beforeCount)

	eng, err := engine.New("memory")
	require.NoError(t, err)
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		_, err := eng.AddEntity(ctx, domain.NewEntity(domain.EntityPerson, "extra", now))
		require.NoError(t, err)
	}
	doc, err := exportimport.Export(ctx, eng)
	require.NoError(t, err)
	data, err := exportimport.Marshal(doc)
	require.NoError(t, err)

	// Force a distinct mtime: the reload check is mtime-equality, and a
	// same-second rewrite on a coarse filesystem clock could otherwise be
	// indistinguishable from the original write.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	require.NoError(t, os.Chtimes(path, future, future))

	after, err := d.Dispatch(ctx, "get_statistics", mustJSON(t, map[string]any{}))
	require.NoError(t, err)
	assert.Equal(t, 3, after.(map[string]any)["entity_count"])
}
