package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

// maxBatchSize is the write-tool ceiling on add_relationships_batch.
const maxBatchSize = 500

func init() {
	register(&Tool{Name: "add_relationship_tool", Write: true, Handler: addRelationshipTool})
	register(&Tool{Name: "add_relationships_batch", Write: true, Handler: addRelationshipsBatch})
	register(&Tool{Name: "remove_relationship_tool", Write: true, Handler: removeRelationshipTool})
}

type relationshipArgs struct {
	Type       string         `json:"type"`
	Src        string         `json:"src"`
	Tgt        string         `json:"tgt"`
	Weight     *float64       `json:"weight"`
	Confidence *float64       `json:"confidence"`
	Properties map[string]any `json:"properties"`
}

// build constructs the relationship with the caller's weight/confidence
// exactly as submitted, unclamped, so validateRelationshipWrite can still
// see and reject an out-of-range value. Clamping/rounding happens only
// after validation passes, via domain.ClampRound.
func (a relationshipArgs) build(now time.Time) domain.Relationship {
	weight, confidence := 0.5, 0.5
	if a.Weight != nil {
		weight = *a.Weight
	}
	if a.Confidence != nil {
		confidence = *a.Confidence
	}
	r := domain.Relationship{
		ID:               uuid.NewString(),
		RelationshipType: domain.RelationshipType(a.Type),
		SourceID:         a.Src,
		TargetID:         a.Tgt,
		Weight:           weight,
		Confidence:       confidence,
		Properties:       map[string]any{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if len(a.Properties) > 0 {
		r.Properties = a.Properties
	}
	return r
}

func addRelationshipTool(ctx context.Context, d *Dispatcher, raw json.RawMessage) (any, error) {
	var args relationshipArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	eng, err := d.State.RequireGraph(ctx)
	if err != nil {
		return nil, err
	}

	r := args.build(time.Now().UTC())
	if err := validateRelationshipWrite(ctx, eng, r); err != nil {
		return nil, err
	}
	r.Weight = domain.ClampRound(r.Weight)
	r.Confidence = domain.ClampRound(r.Confidence)
	added, err := eng.AddRelationship(ctx, r)
	if err != nil {
		return nil, err
	}
	if err := d.State.PersistLoaded(ctx); err != nil {
		return nil, err
	}
	return compactRel(added), nil
}

// addRelationshipsBatch validates every item against the live engine
// before mutating any of it, so a single failing item rejects the whole
// batch with the graph left byte-identical to its pre-call state.
func addRelationshipsBatch(ctx context.Context, d *Dispatcher, raw json.RawMessage) (any, error) {
	var items []relationshipArgs
	if err := decodeArgs(raw, &items); err != nil {
		return nil, err
	}
	if len(items) > maxBatchSize {
		return nil, domain.NewError(domain.ErrBatchRejected, "batch of %d exceeds max size %d", len(items), maxBatchSize).
			WithDetail("size", len(items))
	}

	eng, err := d.State.RequireGraph(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	built := make([]domain.Relationship, len(items))
	seenIDs := map[string]struct{}{}
	for i, item := range items {
		r := item.build(now)
		if err := validateRelationshipWrite(ctx, eng, r); err != nil {
			return nil, domain.NewError(domain.ErrBatchRejected, "item %d rejected: %v", i, err).WithDetail("index", i)
		}
		if _, dup := seenIDs[r.ID]; dup {
			return nil, domain.NewError(domain.ErrBatchRejected, "item %d rejected: duplicate id within batch", i).WithDetail("index", i)
		}
		seenIDs[r.ID] = struct{}{}
		r.Weight = domain.ClampRound(r.Weight)
		r.Confidence = domain.ClampRound(r.Confidence)
		built[i] = r
	}

	added := make([]compactRelationship, 0, len(built))
	for _, r := range built {
		a, err := eng.AddRelationship(ctx, r)
		if err != nil {
			return nil, domain.NewError(domain.ErrInternal, "commit failed after validation passed: %v", err)
		}
		added = append(added, compactRel(a))
	}

	if err := d.State.PersistLoaded(ctx); err != nil {
		return nil, err
	}
	return added, nil
}

type removeRelationshipArgs struct {
	ID string `json:"id"`
}

func removeRelationshipTool(ctx context.Context, d *Dispatcher, raw json.RawMessage) (any, error) {
	var args removeRelationshipArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := validateIDFormat(args.ID); err != nil {
		return nil, err
	}
	eng, err := d.State.RequireGraph(ctx)
	if err != nil {
		return nil, err
	}
	if err := eng.RemoveRelationship(ctx, args.ID); err != nil {
		return nil, err
	}
	if err := d.State.PersistLoaded(ctx); err != nil {
		return nil, err
	}
	return map[string]any{"removed": args.ID}, nil
}
