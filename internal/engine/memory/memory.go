// Package memory implements engine.Engine entirely in process memory,
// backed by per-kind and per-relationship-type roaring bitmap indexes
// over a dense internal id space.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
)

func init() {
	engine.Register("memory", func() (engine.Engine, error) { return New(), nil })
}

// Backend is the in-memory multigraph. All methods hold mu for the
// duration of the call; callers needing a consistent multi-step view
// (e.g. export) should serialize through the caller's own lock, since
// Backend does not expose its mutex.
type Backend struct {
	mu sync.RWMutex

	entities map[string]domain.Entity
	entityID map[string]uint32
	nextEID  uint32
	byKind   map[domain.EntityType]*roaring.Bitmap

	relationships map[string]domain.Relationship
	relID         map[string]uint32
	nextRID       uint32
	byRelType     map[domain.RelationshipType]*roaring.Bitmap

	outEdges map[string][]string // entity id -> relationship ids, source==id
	inEdges  map[string][]string // entity id -> relationship ids, target==id
}

// New returns an empty Backend.
func New() *Backend {
	return &Backend{
		entities:      map[string]domain.Entity{},
		entityID:      map[string]uint32{},
		byKind:        map[domain.EntityType]*roaring.Bitmap{},
		relationships: map[string]domain.Relationship{},
		relID:         map[string]uint32{},
		byRelType:     map[domain.RelationshipType]*roaring.Bitmap{},
		outEdges:      map[string][]string{},
		inEdges:       map[string][]string{},
	}
}

func (b *Backend) AddEntity(_ context.Context, e domain.Entity) (domain.Entity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.entities[e.ID]; exists {
		return domain.Entity{}, domain.NewError(domain.ErrValidation, "entity id %s already exists", e.ID)
	}
	b.entities[e.ID] = e.Clone()
	id := b.nextEID
	b.nextEID++
	b.entityID[e.ID] = id
	bm, ok := b.byKind[e.EntityType]
	if !ok {
		bm = roaring.New()
		b.byKind[e.EntityType] = bm
	}
	bm.Add(id)
	return e.Clone(), nil
}

func (b *Backend) GetEntity(_ context.Context, id string) (domain.Entity, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.entities[id]
	if !ok {
		return domain.Entity{}, domain.NewError(domain.ErrNotFound, "entity %s not found", id)
	}
	return e.Clone(), nil
}

func (b *Backend) UpdateEntity(_ context.Context, id string, patch map[string]any) (domain.Entity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entities[id]
	if !ok {
		return domain.Entity{}, domain.NewError(domain.ErrNotFound, "entity %s not found", id)
	}
	applyPatch(&e, patch)
	e.Version++
	e.UpdatedAt = time.Now().UTC()
	b.entities[id] = e
	return e.Clone(), nil
}

func applyPatch(e *domain.Entity, patch map[string]any) {
	for k, v := range patch {
		switch k {
		case "name":
			if s, ok := v.(string); ok {
				e.Name = s
			}
		case "description":
			if s, ok := v.(string); ok {
				e.Description = s
			}
		case "tags":
			if s, ok := v.([]string); ok {
				e.Tags = s
			}
		case "metadata":
			if m, ok := v.(map[string]any); ok {
				e.Metadata = m
			}
		case "valid_from":
			if t, ok := v.(*time.Time); ok {
				e.ValidFrom = t
			}
		case "valid_until":
			if t, ok := v.(*time.Time); ok {
				e.ValidUntil = t
			}
		default:
			if e.Fields == nil {
				e.Fields = map[string]any{}
			}
			e.Fields[k] = v
		}
	}
}

func (b *Backend) RemoveEntity(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entities[id]
	if !ok {
		return domain.NewError(domain.ErrNotFound, "entity %s not found", id)
	}
	if bm, ok := b.byKind[e.EntityType]; ok {
		bm.Remove(b.entityID[id])
	}
	delete(b.entities, id)
	delete(b.entityID, id)
	for _, relID := range append([]string{}, b.outEdges[id]...) {
		b.removeRelationshipLocked(relID)
	}
	for _, relID := range append([]string{}, b.inEdges[id]...) {
		b.removeRelationshipLocked(relID)
	}
	delete(b.outEdges, id)
	delete(b.inEdges, id)
	return nil
}

func (b *Backend) removeRelationshipLocked(id string) {
	r, ok := b.relationships[id]
	if !ok {
		return
	}
	if bm, ok := b.byRelType[r.RelationshipType]; ok {
		bm.Remove(b.relID[id])
	}
	delete(b.relationships, id)
	delete(b.relID, id)
	b.outEdges[r.SourceID] = removeString(b.outEdges[r.SourceID], id)
	b.inEdges[r.TargetID] = removeString(b.inEdges[r.TargetID], id)
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func (b *Backend) ListEntities(_ context.Context, kind domain.EntityType, limit, offset int) ([]domain.Entity, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var ids []string
	if kind == "" {
		for id := range b.entities {
			ids = append(ids, id)
		}
	} else {
		ids = b.idsForKind(kind)
	}
	sort.Strings(ids)
	ids = paginate(ids, limit, offset)
	out := make([]domain.Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.entities[id].Clone())
	}
	return out, nil
}

func (b *Backend) idsForKind(kind domain.EntityType) []string {
	bm, ok := b.byKind[kind]
	if !ok {
		return nil
	}
	inv := make(map[uint32]string, len(b.entityID))
	for id, n := range b.entityID {
		inv[n] = id
	}
	var out []string
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, inv[it.Next()])
	}
	return out
}

func paginate(ids []string, limit, offset int) []string {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	return ids
}

func (b *Backend) CountEntities(_ context.Context, kind domain.EntityType) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if kind == "" {
		return len(b.entities), nil
	}
	bm, ok := b.byKind[kind]
	if !ok {
		return 0, nil
	}
	return int(bm.GetCardinality()), nil
}

func (b *Backend) AddRelationship(_ context.Context, r domain.Relationship) (domain.Relationship, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.relationships[r.ID]; exists {
		return domain.Relationship{}, domain.NewError(domain.ErrValidation, "relationship id %s already exists", r.ID)
	}
	src, ok := b.entities[r.SourceID]
	if !ok {
		return domain.Relationship{}, domain.NewError(domain.ErrValidation, "source %s does not exist", r.SourceID)
	}
	tgt, ok := b.entities[r.TargetID]
	if !ok {
		return domain.Relationship{}, domain.NewError(domain.ErrValidation, "target %s does not exist", r.TargetID)
	}
	if !r.RelationshipType.AllowsSourceKind(src.EntityType) || !r.RelationshipType.AllowsTargetKind(tgt.EntityType) {
		return domain.Relationship{}, domain.NewError(domain.ErrSchemaViolation,
			"relationship type %q does not allow (%s -> %s)", r.RelationshipType, src.EntityType, tgt.EntityType)
	}
	b.relationships[r.ID] = r.Clone()
	id := b.nextRID
	b.nextRID++
	b.relID[r.ID] = id
	bm, ok := b.byRelType[r.RelationshipType]
	if !ok {
		bm = roaring.New()
		b.byRelType[r.RelationshipType] = bm
	}
	bm.Add(id)
	b.outEdges[r.SourceID] = append(b.outEdges[r.SourceID], r.ID)
	b.inEdges[r.TargetID] = append(b.inEdges[r.TargetID], r.ID)
	return r.Clone(), nil
}

func (b *Backend) GetRelationship(_ context.Context, id string) (domain.Relationship, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.relationships[id]
	if !ok {
		return domain.Relationship{}, domain.NewError(domain.ErrNotFound, "relationship %s not found", id)
	}
	return r.Clone(), nil
}

func (b *Backend) RemoveRelationship(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.relationships[id]; !ok {
		return domain.NewError(domain.ErrNotFound, "relationship %s not found", id)
	}
	b.removeRelationshipLocked(id)
	return nil
}

func (b *Backend) ListRelationships(_ context.Context, kind domain.RelationshipType, limit, offset int) ([]domain.Relationship, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var ids []string
	if kind == "" {
		for id := range b.relationships {
			ids = append(ids, id)
		}
	} else {
		bm, ok := b.byRelType[kind]
		if ok {
			inv := make(map[uint32]string, len(b.relID))
			for id, n := range b.relID {
				inv[n] = id
			}
			it := bm.Iterator()
			for it.HasNext() {
				ids = append(ids, inv[it.Next()])
			}
		}
	}
	sort.Strings(ids)
	ids = paginate(ids, limit, offset)
	out := make([]domain.Relationship, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.relationships[id].Clone())
	}
	return out, nil
}

func (b *Backend) Neighbors(ctx context.Context, id string, dir engine.Direction, relTypes []domain.RelationshipType) ([]domain.Entity, error) {
	edges, err := b.EdgesOf(ctx, id, dir, relTypes)
	if err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	seen := map[string]struct{}{}
	var out []domain.Entity
	for _, r := range edges {
		other := r.TargetID
		if other == id {
			other = r.SourceID
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		if e, ok := b.entities[other]; ok {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (b *Backend) EdgesOf(_ context.Context, id string, dir engine.Direction, relTypes []domain.RelationshipType) ([]domain.Relationship, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, ok := b.entities[id]; !ok {
		return nil, domain.NewError(domain.ErrNotFound, "entity %s not found", id)
	}
	allow := func(domain.RelationshipType) bool { return true }
	if len(relTypes) > 0 {
		set := make(map[domain.RelationshipType]struct{}, len(relTypes))
		for _, t := range relTypes {
			set[t] = struct{}{}
		}
		allow = func(t domain.RelationshipType) bool { _, ok := set[t]; return ok }
	}
	var out []domain.Relationship
	if dir == engine.DirOut || dir == engine.DirBoth {
		for _, relID := range b.outEdges[id] {
			if r, ok := b.relationships[relID]; ok && allow(r.RelationshipType) {
				out = append(out, r.Clone())
			}
		}
	}
	if dir == engine.DirIn || dir == engine.DirBoth {
		for _, relID := range b.inEdges[id] {
			if r, ok := b.relationships[relID]; ok && allow(r.RelationshipType) {
				out = append(out, r.Clone())
			}
		}
	}
	return out, nil
}

func (b *Backend) HasEdge(_ context.Context, sourceID, targetID string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, relID := range b.outEdges[sourceID] {
		if r, ok := b.relationships[relID]; ok && r.TargetID == targetID {
			return true, nil
		}
	}
	return false, nil
}

func (b *Backend) AllEntities(_ context.Context) ([]domain.Entity, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Entity, 0, len(b.entities))
	for _, e := range b.entities {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (b *Backend) AllRelationships(_ context.Context) ([]domain.Relationship, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Relationship, 0, len(b.relationships))
	for _, r := range b.relationships {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (b *Backend) Stats(_ context.Context) (engine.Stats, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := engine.Stats{
		EntityCount:             len(b.entities),
		RelationshipCount:       len(b.relationships),
		EntityCountByType:       map[domain.EntityType]int{},
		RelationshipCountByType: map[domain.RelationshipType]int{},
	}
	for kind, bm := range b.byKind {
		s.EntityCountByType[kind] = int(bm.GetCardinality())
	}
	for kind, bm := range b.byRelType {
		s.RelationshipCountByType[kind] = int(bm.GetCardinality())
	}
	return s, nil
}

func (b *Backend) Clear(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entities = map[string]domain.Entity{}
	b.entityID = map[string]uint32{}
	b.nextEID = 0
	b.byKind = map[domain.EntityType]*roaring.Bitmap{}
	b.relationships = map[string]domain.Relationship{}
	b.relID = map[string]uint32{}
	b.nextRID = 0
	b.byRelType = map[domain.RelationshipType]*roaring.Bitmap{}
	b.outEdges = map[string][]string{}
	b.inEdges = map[string][]string{}
	return nil
}
