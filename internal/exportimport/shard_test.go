package exportimport

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	_ "github.com/thehipsterciso/hc-enterprise-kg/internal/engine/memory"
)

func TestSplitThenBuildReproducesDocument(t *testing.T) {
	ctx := context.Background()
	eng := seedGraph(t)
	doc, err := Export(ctx, eng)
	require.NoError(t, err)

	root := t.TempDir()
	require.NoError(t, Split(doc, root))

	rebuilt, err := Build(root)
	require.NoError(t, err)

	assert.ElementsMatch(t, idsOfEntities(doc.Entities), idsOfEntities(rebuilt.Entities))
	assert.ElementsMatch(t, idsOfRelationships(doc.Relationships), idsOfRelationships(rebuilt.Relationships))
}

func TestSplitOmitsAbsentTypes(t *testing.T) {
	now := time.Now().UTC()
	person := domain.NewEntity(domain.EntityPerson, "Solo", now)
	doc := Document{Entities: []entityDoc{toEntityDoc(person)}, Statistics: map[string]any{}}

	root := t.TempDir()
	require.NoError(t, Split(doc, root))

	_, err := os.Stat(filepath.Join(root, "entities", "role.json"))
	assert.True(t, os.IsNotExist(err))
}

func idsOfEntities(docs []entityDoc) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func idsOfRelationships(docs []relationshipDoc) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}
