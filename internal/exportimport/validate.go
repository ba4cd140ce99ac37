package exportimport

import (
	"fmt"
	"regexp"
	"time"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

const timeLayout = time.RFC3339

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	return time.Parse(timeLayout, s)
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// Validate checks a whole document: id format, entity-kind membership,
// relationship schema conformance, and metadata range. Import runs it, and
// so does every import of a merged shard tree; the write tools do not call
// it and apply their own per-relationship checks against the same catalog.
func Validate(entities []domain.Entity, rels []domain.Relationship) error {
	seen := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		if !idPattern.MatchString(e.ID) {
			return domain.NewError(domain.ErrValidation, "entity id %q has an invalid format", e.ID).WithDetail("id", e.ID)
		}
		if _, dup := seen[e.ID]; dup {
			return domain.NewError(domain.ErrValidation, "duplicate entity id %q", e.ID).WithDetail("id", e.ID)
		}
		seen[e.ID] = struct{}{}
		if !e.EntityType.IsValid() {
			return domain.NewError(domain.ErrSchemaViolation, "entity %q has unknown entity_type %q", e.ID, e.EntityType).WithDetail("id", e.ID)
		}
		if e.UpdatedAt.Before(e.CreatedAt) {
			return domain.NewError(domain.ErrValidation, "entity %q: updated_at before created_at", e.ID).WithDetail("id", e.ID)
		}
		if e.Version < 1 {
			return domain.NewError(domain.ErrValidation, "entity %q: version must be >= 1", e.ID).WithDetail("id", e.ID)
		}
	}

	relSeen := make(map[string]struct{}, len(rels))
	for i, r := range rels {
		if !idPattern.MatchString(r.ID) {
			return domain.NewError(domain.ErrValidation, "relationship id %q has an invalid format", r.ID).WithDetail("index", i)
		}
		if _, dup := relSeen[r.ID]; dup {
			return domain.NewError(domain.ErrValidation, "duplicate relationship id %q", r.ID).WithDetail("index", i)
		}
		relSeen[r.ID] = struct{}{}

		if !r.RelationshipType.IsValid() {
			return domain.NewError(domain.ErrSchemaViolation, "relationship %q has unknown relationship_type %q", r.ID, r.RelationshipType).WithDetail("index", i)
		}
		src, ok := seen[r.SourceID]
		_ = src
		if !ok {
			return domain.NewError(domain.ErrNotFound, "relationship %q: source_id %q not found", r.ID, r.SourceID).WithDetail("index", i)
		}
		if _, ok := seen[r.TargetID]; !ok {
			return domain.NewError(domain.ErrNotFound, "relationship %q: target_id %q not found", r.ID, r.TargetID).WithDetail("index", i)
		}
		if r.Weight < 0 || r.Weight > 1 {
			return domain.NewError(domain.ErrValidation, "relationship %q: weight %v out of [0,1]", r.ID, r.Weight).WithDetail("index", i)
		}
		if r.Confidence < 0 || r.Confidence > 1 {
			return domain.NewError(domain.ErrValidation, "relationship %q: confidence %v out of [0,1]", r.ID, r.Confidence).WithDetail("index", i)
		}
		if r.UpdatedAt.Before(r.CreatedAt) {
			return domain.NewError(domain.ErrValidation, "relationship %q: updated_at before created_at", r.ID).WithDetail("index", i)
		}
	}

	byID := make(map[string]domain.EntityType, len(entities))
	for _, e := range entities {
		byID[e.ID] = e.EntityType
	}
	for i, r := range rels {
		srcKind := byID[r.SourceID]
		tgtKind := byID[r.TargetID]
		if !r.RelationshipType.AllowsSourceKind(srcKind) || !r.RelationshipType.AllowsTargetKind(tgtKind) {
			return domain.NewError(domain.ErrSchemaViolation,
				"relationship %q (%s): (%s -> %s) outside declared domain/range",
				r.ID, r.RelationshipType, srcKind, tgtKind).WithDetail("index", i)
		}
	}
	return nil
}
