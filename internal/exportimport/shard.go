package exportimport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Split writes one file per observed entity/relationship type under root,
// following the external sync collaborator's layout:
//
//	<root>/entities/<entity_type>.json
//	<root>/relationships/<relationship_type>.json
//
// Absent types produce no file. Arrays within each file are sorted by id
// for deterministic diffs (already guaranteed by Export, re-asserted here
// since Split may also be called directly on an already-loaded Document).
func Split(doc Document, root string) error {
	entitiesByType := map[string][]entityDoc{}
	for _, e := range doc.Entities {
		entitiesByType[e.EntityType] = append(entitiesByType[e.EntityType], e)
	}
	relsByType := map[string][]relationshipDoc{}
	for _, r := range doc.Relationships {
		relsByType[r.RelationshipType] = append(relsByType[r.RelationshipType], r)
	}

	entitiesDir := filepath.Join(root, "entities")
	relsDir := filepath.Join(root, "relationships")
	if err := os.MkdirAll(entitiesDir, 0o755); err != nil {
		return fmt.Errorf("exportimport: mkdir %s: %w", entitiesDir, err)
	}
	if err := os.MkdirAll(relsDir, 0o755); err != nil {
		return fmt.Errorf("exportimport: mkdir %s: %w", relsDir, err)
	}

	for kind, items := range entitiesByType {
		sortEntityDocs(items)
		if err := writeShard(filepath.Join(entitiesDir, strings.ToLower(kind)+".json"), items); err != nil {
			return err
		}
	}
	for kind, items := range relsByType {
		sortRelationshipDocs(items)
		if err := writeShard(filepath.Join(relsDir, strings.ToLower(kind)+".json"), items); err != nil {
			return err
		}
	}
	return nil
}

func writeShard(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("exportimport: marshal shard %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("exportimport: write shard %s: %w", path, err)
	}
	return nil
}

// Build reads all shard files under root, concatenates their arrays, and
// emits a single canonical Document.
func Build(root string) (Document, error) {
	entities, err := readShardDir(filepath.Join(root, "entities"), func() any { return &[]entityDoc{} })
	if err != nil {
		return Document{}, err
	}
	rels, err := readShardDir(filepath.Join(root, "relationships"), func() any { return &[]relationshipDoc{} })
	if err != nil {
		return Document{}, err
	}

	doc := Document{}
	for _, v := range entities {
		doc.Entities = append(doc.Entities, *(v.(*[]entityDoc))...)
	}
	for _, v := range rels {
		doc.Relationships = append(doc.Relationships, *(v.(*[]relationshipDoc))...)
	}
	sortEntityDocs(doc.Entities)
	sortRelationshipDocs(doc.Relationships)
	return doc, nil
}

func readShardDir(dir string, newSlice func() any) ([]any, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("exportimport: read shard dir %s: %w", dir, err)
	}
	out := make([]any, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("exportimport: read shard %s: %w", path, err)
		}
		slice := newSlice()
		if err := json.Unmarshal(data, slice); err != nil {
			return nil, fmt.Errorf("exportimport: parse shard %s: %w", path, err)
		}
		out = append(out, slice)
	}
	return out, nil
}
