package tools

import "github.com/thehipsterciso/hc-enterprise-kg/internal/domain"

// compactEntity is the shape every read tool serialises entities through.
// It always carries id/entity_type/name; everything else is included only
// when present. null, empty-string, and empty-list fields are omitted, and
// created_at, updated_at, valid_from, valid_until, version, and the
// metadata bag are omitted unconditionally regardless of whether they are
// populated.
type compactEntity struct {
	ID          string         `json:"id"`
	EntityType  string         `json:"entity_type"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
}

// compactRelationship mirrors compactEntity for edges: id/relationship_type
// /src/tgt always present, everything else omitted when empty, with
// created_at/updated_at dropped unconditionally.
type compactRelationship struct {
	ID               string         `json:"id"`
	RelationshipType string         `json:"relationship_type"`
	SourceID         string         `json:"src"`
	TargetID         string         `json:"tgt"`
	Weight           float64        `json:"weight,omitempty"`
	Confidence       float64        `json:"confidence,omitempty"`
	Properties       map[string]any `json:"properties,omitempty"`
}

func compact(e domain.Entity) compactEntity {
	out := compactEntity{
		ID:         e.ID,
		EntityType: string(e.EntityType),
		Name:       e.Name,
	}
	if e.Description != "" {
		out.Description = e.Description
	}
	if len(e.Tags) > 0 {
		out.Tags = e.Tags
	}
	if len(e.Fields) > 0 {
		out.Fields = e.Fields
	}
	return out
}

func compactAll(entities []domain.Entity) []compactEntity {
	out := make([]compactEntity, 0, len(entities))
	for _, e := range entities {
		out = append(out, compact(e))
	}
	return out
}

func compactRel(r domain.Relationship) compactRelationship {
	out := compactRelationship{
		ID:               r.ID,
		RelationshipType: string(r.RelationshipType),
		SourceID:         r.SourceID,
		TargetID:         r.TargetID,
	}
	if r.Weight != 0 {
		out.Weight = r.Weight
	}
	if r.Confidence != 0 {
		out.Confidence = r.Confidence
	}
	if len(r.Properties) > 0 {
		out.Properties = r.Properties
	}
	return out
}
