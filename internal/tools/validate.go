package tools

import (
	"context"
	"regexp"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
)

// idPattern mirrors exportimport's id-format rule; kept local rather than
// exported from exportimport since the write tools validate one id at a
// time against a live engine, not a whole document.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

func validateIDFormat(id string) error {
	if !idPattern.MatchString(id) {
		return domain.NewError(domain.ErrValidation, "id %q has an invalid format", id).WithDetail("id", id)
	}
	return nil
}

// validateRelationshipWrite runs every check required before a single
// relationship mutation is allowed to touch the engine: id format, catalog
// membership, endpoint existence, domain/range conformance, and the
// weight/confidence range. It never mutates.
func validateRelationshipWrite(ctx context.Context, eng engine.Engine, r domain.Relationship) error {
	if err := validateIDFormat(r.ID); err != nil {
		return err
	}
	if !r.RelationshipType.IsValid() {
		return domain.NewError(domain.ErrSchemaViolation, "unknown relationship_type %q", r.RelationshipType)
	}
	src, err := eng.GetEntity(ctx, r.SourceID)
	if err != nil {
		return domain.NewError(domain.ErrNotFound, "source %q not found", r.SourceID).WithDetail("src", r.SourceID)
	}
	tgt, err := eng.GetEntity(ctx, r.TargetID)
	if err != nil {
		return domain.NewError(domain.ErrNotFound, "target %q not found", r.TargetID).WithDetail("tgt", r.TargetID)
	}
	if !r.RelationshipType.AllowsSourceKind(src.EntityType) || !r.RelationshipType.AllowsTargetKind(tgt.EntityType) {
		return domain.NewError(domain.ErrSchemaViolation,
			"relationship type %q does not allow (%s -> %s)", r.RelationshipType, src.EntityType, tgt.EntityType)
	}
	if r.Weight < 0 || r.Weight > 1 {
		return domain.NewError(domain.ErrValidation, "weight %v out of [0,1]", r.Weight)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return domain.NewError(domain.ErrValidation, "confidence %v out of [0,1]", r.Confidence)
	}
	return nil
}
