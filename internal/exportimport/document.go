// Package exportimport implements the canonical JSON round-trip format,
// per-type shard split/merge for the external sync collaborator, and a
// one-way GraphML encoder for visualisation tooling.
package exportimport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
)

// entityDoc and relationshipDoc are the wire shapes for canonical JSON.
// They carry every field Entity/Relationship declare, including the
// temporal and metadata fields compact serialisation strips — export
// retains full fidelity per spec.
type entityDoc struct {
	ID          string         `json:"id"`
	EntityType  string         `json:"entity_type"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	ValidFrom   *string        `json:"valid_from,omitempty"`
	ValidUntil  *string        `json:"valid_until,omitempty"`
	Version     int            `json:"version"`
	Fields      map[string]any `json:"fields,omitempty"`
}

type relationshipDoc struct {
	ID               string         `json:"id"`
	RelationshipType string         `json:"relationship_type"`
	SourceID         string         `json:"source_id"`
	TargetID         string         `json:"target_id"`
	Weight           float64        `json:"weight"`
	Confidence       float64        `json:"confidence"`
	Properties       map[string]any `json:"properties,omitempty"`
	CreatedAt        string         `json:"created_at"`
	UpdatedAt        string         `json:"updated_at"`
}

// Document is the canonical JSON shape:
// {"entities": [...], "relationships": [...], "statistics": {...}}.
type Document struct {
	Entities      []entityDoc       `json:"entities"`
	Relationships []relationshipDoc `json:"relationships"`
	Statistics    map[string]any    `json:"statistics"`
}

func toEntityDoc(e domain.Entity) entityDoc {
	var validFrom, validUntil *string
	if e.ValidFrom != nil {
		s := e.ValidFrom.Format(timeLayout)
		validFrom = &s
	}
	if e.ValidUntil != nil {
		s := e.ValidUntil.Format(timeLayout)
		validUntil = &s
	}
	return entityDoc{
		ID:          e.ID,
		EntityType:  string(e.EntityType),
		Name:        e.Name,
		Description: e.Description,
		Tags:        e.Tags,
		Metadata:    e.Metadata,
		CreatedAt:   e.CreatedAt.Format(timeLayout),
		UpdatedAt:   e.UpdatedAt.Format(timeLayout),
		ValidFrom:   validFrom,
		ValidUntil:  validUntil,
		Version:     e.Version,
		Fields:      e.Fields,
	}
}

func toRelationshipDoc(r domain.Relationship) relationshipDoc {
	return relationshipDoc{
		ID:               r.ID,
		RelationshipType: string(r.RelationshipType),
		SourceID:         r.SourceID,
		TargetID:         r.TargetID,
		Weight:           r.Weight,
		Confidence:       r.Confidence,
		Properties:       r.Properties,
		CreatedAt:        r.CreatedAt.Format(timeLayout),
		UpdatedAt:        r.UpdatedAt.Format(timeLayout),
	}
}

func fromEntityDoc(d entityDoc) (domain.Entity, error) {
	created, err := parseTime(d.CreatedAt)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("entity %s: created_at: %w", d.ID, err)
	}
	updated, err := parseTime(d.UpdatedAt)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("entity %s: updated_at: %w", d.ID, err)
	}
	e := domain.Entity{
		ID:          d.ID,
		EntityType:  domain.EntityType(d.EntityType),
		Name:        d.Name,
		Description: d.Description,
		Tags:        d.Tags,
		Metadata:    d.Metadata,
		CreatedAt:   created,
		UpdatedAt:   updated,
		Version:     d.Version,
		Fields:      d.Fields,
	}
	if d.ValidFrom != nil {
		t, err := parseTime(*d.ValidFrom)
		if err != nil {
			return domain.Entity{}, fmt.Errorf("entity %s: valid_from: %w", d.ID, err)
		}
		e.ValidFrom = &t
	}
	if d.ValidUntil != nil {
		t, err := parseTime(*d.ValidUntil)
		if err != nil {
			return domain.Entity{}, fmt.Errorf("entity %s: valid_until: %w", d.ID, err)
		}
		e.ValidUntil = &t
	}
	if e.Fields == nil {
		e.Fields = map[string]any{}
	}
	if e.Metadata == nil {
		e.Metadata = map[string]any{}
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e, nil
}

func fromRelationshipDoc(d relationshipDoc) (domain.Relationship, error) {
	created, err := parseTime(d.CreatedAt)
	if err != nil {
		return domain.Relationship{}, fmt.Errorf("relationship %s: created_at: %w", d.ID, err)
	}
	updated, err := parseTime(d.UpdatedAt)
	if err != nil {
		return domain.Relationship{}, fmt.Errorf("relationship %s: updated_at: %w", d.ID, err)
	}
	r := domain.Relationship{
		ID:               d.ID,
		RelationshipType: domain.RelationshipType(d.RelationshipType),
		SourceID:         d.SourceID,
		TargetID:         d.TargetID,
		Weight:           d.Weight,
		Confidence:       d.Confidence,
		Properties:       d.Properties,
		CreatedAt:        created,
		UpdatedAt:        updated,
	}
	if r.Properties == nil {
		r.Properties = map[string]any{}
	}
	return r, nil
}

// Export reads the whole graph and returns its canonical JSON document.
func Export(ctx context.Context, eng engine.Engine) (Document, error) {
	entities, err := eng.AllEntities(ctx)
	if err != nil {
		return Document{}, err
	}
	rels, err := eng.AllRelationships(ctx)
	if err != nil {
		return Document{}, err
	}
	stats, err := eng.Stats(ctx)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		Entities:      make([]entityDoc, 0, len(entities)),
		Relationships: make([]relationshipDoc, 0, len(rels)),
		Statistics:    statsToMap(stats),
	}
	for _, e := range entities {
		doc.Entities = append(doc.Entities, toEntityDoc(e))
	}
	for _, r := range rels {
		doc.Relationships = append(doc.Relationships, toRelationshipDoc(r))
	}
	sortEntityDocs(doc.Entities)
	sortRelationshipDocs(doc.Relationships)
	return doc, nil
}

// Import decodes a canonical JSON document and loads it into a freshly
// cleared engine, after running the same validation the write tools run.
func Import(ctx context.Context, eng engine.Engine, doc Document) error {
	entities := make([]domain.Entity, 0, len(doc.Entities))
	for _, d := range doc.Entities {
		e, err := fromEntityDoc(d)
		if err != nil {
			return domain.NewError(domain.ErrValidation, "%v", err)
		}
		entities = append(entities, e)
	}
	rels := make([]domain.Relationship, 0, len(doc.Relationships))
	for _, d := range doc.Relationships {
		r, err := fromRelationshipDoc(d)
		if err != nil {
			return domain.NewError(domain.ErrValidation, "%v", err)
		}
		rels = append(rels, r)
	}

	if err := Validate(entities, rels); err != nil {
		return err
	}

	if err := eng.Clear(ctx); err != nil {
		return err
	}
	for _, e := range entities {
		if _, err := eng.AddEntity(ctx, e); err != nil {
			return domain.NewError(domain.ErrPersistence, "import entity %s: %v", e.ID, err)
		}
	}
	for _, r := range rels {
		if _, err := eng.AddRelationship(ctx, r); err != nil {
			return domain.NewError(domain.ErrPersistence, "import relationship %s: %v", r.ID, err)
		}
	}
	return nil
}

// Marshal renders a Document as canonical JSON bytes.
func Marshal(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal parses canonical JSON bytes into a Document. In strict mode,
// unknown top-level entity/relationship fields raise instead of being
// silently dropped (GRAPH_STRICT).
func Unmarshal(data []byte, strict bool) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return Document{}, domain.NewError(domain.ErrValidation, "malformed canonical JSON: %v", err)
	}
	return doc, nil
}

func statsToMap(s engine.Stats) map[string]any {
	byType := make(map[string]int, len(s.EntityCountByType))
	for k, v := range s.EntityCountByType {
		byType[string(k)] = v
	}
	byRelType := make(map[string]int, len(s.RelationshipCountByType))
	for k, v := range s.RelationshipCountByType {
		byRelType[string(k)] = v
	}
	return map[string]any{
		"entity_count":               s.EntityCount,
		"relationship_count":         s.RelationshipCount,
		"entity_count_by_type":       byType,
		"relationship_count_by_type": byRelType,
	}
}

func sortEntityDocs(docs []entityDoc) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
}

func sortRelationshipDocs(docs []relationshipDoc) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
}
