// Package sqlstore implements engine.Engine against a gorm-managed sqlite
// database, as a second, pluggable backend alongside the in-memory one.
package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
)

func init() {
	engine.Register("sqlite", func() (engine.Engine, error) { return Open(":memory:") })
}

// Backend is a gorm/sqlite-backed Engine implementation.
type Backend struct {
	db *gorm.DB
}

// Open connects to a sqlite database at dsn (use ":memory:" for a
// transient store) and runs migrations against it. DriverName is forced
// to "sqlite", the name modernc.org/sqlite's pure-Go driver registers
// itself under, overriding the dialector's cgo-driver default of
// "sqlite3".
func Open(dsn string) (*Backend, error) {
	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open: %w", err)
	}
	if err := runMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return &Backend{db: db}, nil
}

func toRow(e domain.Entity) (entityRow, error) {
	tags, err := json.Marshal(e.Tags)
	if err != nil {
		return entityRow{}, err
	}
	meta, err := json.Marshal(e.Metadata)
	if err != nil {
		return entityRow{}, err
	}
	fields, err := json.Marshal(e.Fields)
	if err != nil {
		return entityRow{}, err
	}
	return entityRow{
		ID:          e.ID,
		EntityType:  string(e.EntityType),
		Name:        e.Name,
		Description: e.Description,
		Tags:        string(tags),
		Metadata:    string(meta),
		Fields:      string(fields),
		ValidFrom:   e.ValidFrom,
		ValidUntil:  e.ValidUntil,
		Version:     e.Version,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}, nil
}

func fromRow(row entityRow) (domain.Entity, error) {
	e := domain.Entity{
		ID:          row.ID,
		EntityType:  domain.EntityType(row.EntityType),
		Name:        row.Name,
		Description: row.Description,
		ValidFrom:   row.ValidFrom,
		ValidUntil:  row.ValidUntil,
		Version:     row.Version,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.Tags), &e.Tags); err != nil {
		return domain.Entity{}, err
	}
	if err := json.Unmarshal([]byte(row.Metadata), &e.Metadata); err != nil {
		return domain.Entity{}, err
	}
	if err := json.Unmarshal([]byte(row.Fields), &e.Fields); err != nil {
		return domain.Entity{}, err
	}
	return e, nil
}

func toRelRow(r domain.Relationship) (relationshipRow, error) {
	props, err := json.Marshal(r.Properties)
	if err != nil {
		return relationshipRow{}, err
	}
	return relationshipRow{
		ID:               r.ID,
		RelationshipType: string(r.RelationshipType),
		SourceID:         r.SourceID,
		TargetID:         r.TargetID,
		Weight:           r.Weight,
		Confidence:       r.Confidence,
		Properties:       string(props),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}, nil
}

func fromRelRow(row relationshipRow) (domain.Relationship, error) {
	r := domain.Relationship{
		ID:               row.ID,
		RelationshipType: domain.RelationshipType(row.RelationshipType),
		SourceID:         row.SourceID,
		TargetID:         row.TargetID,
		Weight:           row.Weight,
		Confidence:       row.Confidence,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.Properties), &r.Properties); err != nil {
		return domain.Relationship{}, err
	}
	return r, nil
}

func (b *Backend) AddEntity(ctx context.Context, e domain.Entity) (domain.Entity, error) {
	row, err := toRow(e)
	if err != nil {
		return domain.Entity{}, domain.NewError(domain.ErrInternal, "encode entity: %v", err)
	}
	var existing int64
	if err := b.db.WithContext(ctx).Model(&entityRow{}).Where("id = ?", e.ID).Count(&existing).Error; err != nil {
		return domain.Entity{}, domain.NewError(domain.ErrPersistence, "check entity id: %v", err)
	}
	if existing > 0 {
		return domain.Entity{}, domain.NewError(domain.ErrValidation, "entity id %s already exists", e.ID)
	}
	if err := b.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Entity{}, domain.NewError(domain.ErrPersistence, "create entity: %v", err)
	}
	return e, nil
}

func (b *Backend) GetEntity(ctx context.Context, id string) (domain.Entity, error) {
	var row entityRow
	if err := b.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return domain.Entity{}, domain.NewError(domain.ErrNotFound, "entity %s not found", id)
	}
	return fromRow(row)
}

func (b *Backend) UpdateEntity(ctx context.Context, id string, patch map[string]any) (domain.Entity, error) {
	e, err := b.GetEntity(ctx, id)
	if err != nil {
		return domain.Entity{}, err
	}
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
		default:
			if e.Fields == nil {
				e.Fields = map[string]any{}
			}
			e.Fields[k] = v
		}
	}
	e.Version++
	e.UpdatedAt = time.Now().UTC()
	row, err := toRow(e)
	if err != nil {
		return domain.Entity{}, domain.NewError(domain.ErrInternal, "encode entity: %v", err)
	}
	if err := b.db.WithContext(ctx).Save(&row).Error; err != nil {
		return domain.Entity{}, domain.NewError(domain.ErrPersistence, "update entity: %v", err)
	}
	return e, nil
}

func (b *Backend) RemoveEntity(ctx context.Context, id string) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_id = ? OR target_id = ?", id, id).Delete(&relationshipRow{}).Error; err != nil {
			return domain.NewError(domain.ErrPersistence, "cascade delete relationships: %v", err)
		}
		res := tx.Delete(&entityRow{}, "id = ?", id)
		if res.Error != nil {
			return domain.NewError(domain.ErrPersistence, "delete entity: %v", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NewError(domain.ErrNotFound, "entity %s not found", id)
		}
		return nil
	})
}

func (b *Backend) ListEntities(ctx context.Context, kind domain.EntityType, limit, offset int) ([]domain.Entity, error) {
	q := b.db.WithContext(ctx).Order("id")
	if kind != "" {
		q = q.Where("entity_type = ?", string(kind))
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var rows []entityRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, domain.NewError(domain.ErrPersistence, "list entities: %v", err)
	}
	out := make([]domain.Entity, 0, len(rows))
	for _, row := range rows {
		e, err := fromRow(row)
		if err != nil {
			return nil, domain.NewError(domain.ErrInternal, "decode entity: %v", err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (b *Backend) CountEntities(ctx context.Context, kind domain.EntityType) (int, error) {
	q := b.db.WithContext(ctx).Model(&entityRow{})
	if kind != "" {
		q = q.Where("entity_type = ?", string(kind))
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, domain.NewError(domain.ErrPersistence, "count entities: %v", err)
	}
	return int(n), nil
}

func (b *Backend) AddRelationship(ctx context.Context, r domain.Relationship) (domain.Relationship, error) {
	var src, tgt entityRow
	if err := b.db.WithContext(ctx).Select("entity_type").First(&src, "id = ?", r.SourceID).Error; err != nil {
		return domain.Relationship{}, domain.NewError(domain.ErrValidation, "source %s does not exist", r.SourceID)
	}
	if err := b.db.WithContext(ctx).Select("entity_type").First(&tgt, "id = ?", r.TargetID).Error; err != nil {
		return domain.Relationship{}, domain.NewError(domain.ErrValidation, "target %s does not exist", r.TargetID)
	}
	srcKind := domain.EntityType(src.EntityType)
	tgtKind := domain.EntityType(tgt.EntityType)
	if !r.RelationshipType.AllowsSourceKind(srcKind) || !r.RelationshipType.AllowsTargetKind(tgtKind) {
		return domain.Relationship{}, domain.NewError(domain.ErrSchemaViolation,
			"relationship type %q does not allow (%s -> %s)", r.RelationshipType, srcKind, tgtKind)
	}
	row, err := toRelRow(r)
	if err != nil {
		return domain.Relationship{}, domain.NewError(domain.ErrInternal, "encode relationship: %v", err)
	}
	if err := b.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Relationship{}, domain.NewError(domain.ErrPersistence, "create relationship: %v", err)
	}
	return r, nil
}

func (b *Backend) GetRelationship(ctx context.Context, id string) (domain.Relationship, error) {
	var row relationshipRow
	if err := b.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return domain.Relationship{}, domain.NewError(domain.ErrNotFound, "relationship %s not found", id)
	}
	return fromRelRow(row)
}

func (b *Backend) RemoveRelationship(ctx context.Context, id string) error {
	res := b.db.WithContext(ctx).Delete(&relationshipRow{}, "id = ?", id)
	if res.Error != nil {
		return domain.NewError(domain.ErrPersistence, "delete relationship: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.ErrNotFound, "relationship %s not found", id)
	}
	return nil
}

func (b *Backend) ListRelationships(ctx context.Context, kind domain.RelationshipType, limit, offset int) ([]domain.Relationship, error) {
	q := b.db.WithContext(ctx).Order("id")
	if kind != "" {
		q = q.Where("relationship_type = ?", string(kind))
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var rows []relationshipRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, domain.NewError(domain.ErrPersistence, "list relationships: %v", err)
	}
	out := make([]domain.Relationship, 0, len(rows))
	for _, row := range rows {
		r, err := fromRelRow(row)
		if err != nil {
			return nil, domain.NewError(domain.ErrInternal, "decode relationship: %v", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (b *Backend) EdgesOf(ctx context.Context, id string, dir engine.Direction, relTypes []domain.RelationshipType) ([]domain.Relationship, error) {
	var cond *gorm.DB
	switch dir {
	case engine.DirOut:
		cond = b.db.WithContext(ctx).Where("source_id = ?", id)
	case engine.DirIn:
		cond = b.db.WithContext(ctx).Where("target_id = ?", id)
	default:
		cond = b.db.WithContext(ctx).Where("source_id = ? OR target_id = ?", id, id)
	}
	if len(relTypes) > 0 {
		strs := make([]string, len(relTypes))
		for i, t := range relTypes {
			strs[i] = string(t)
		}
		cond = cond.Where("relationship_type IN ?", strs)
	}
	var rows []relationshipRow
	if err := cond.Order("id").Find(&rows).Error; err != nil {
		return nil, domain.NewError(domain.ErrPersistence, "edges of %s: %v", id, err)
	}
	out := make([]domain.Relationship, 0, len(rows))
	for _, row := range rows {
		r, err := fromRelRow(row)
		if err != nil {
			return nil, domain.NewError(domain.ErrInternal, "decode relationship: %v", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (b *Backend) Neighbors(ctx context.Context, id string, dir engine.Direction, relTypes []domain.RelationshipType) ([]domain.Entity, error) {
	edges, err := b.EdgesOf(ctx, id, dir, relTypes)
	if err != nil {
		return nil, err
	}
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
		e, err := b.GetEntity(ctx, other)
		if err == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (b *Backend) HasEdge(ctx context.Context, sourceID, targetID string) (bool, error) {
	var n int64
	if err := b.db.WithContext(ctx).Model(&relationshipRow{}).
		Where("source_id = ? AND target_id = ?", sourceID, targetID).Count(&n).Error; err != nil {
		return false, domain.NewError(domain.ErrPersistence, "has edge: %v", err)
	}
	return n > 0, nil
}

func (b *Backend) AllEntities(ctx context.Context) ([]domain.Entity, error) {
	return b.ListEntities(ctx, "", 0, 0)
}

func (b *Backend) AllRelationships(ctx context.Context) ([]domain.Relationship, error) {
	return b.ListRelationships(ctx, "", 0, 0)
}

func (b *Backend) Stats(ctx context.Context) (engine.Stats, error) {
	s := engine.Stats{EntityCountByType: map[domain.EntityType]int{}, RelationshipCountByType: map[domain.RelationshipType]int{}}
	var total int64
	b.db.WithContext(ctx).Model(&entityRow{}).Count(&total)
	s.EntityCount = int(total)
	var relTotal int64
	b.db.WithContext(ctx).Model(&relationshipRow{}).Count(&relTotal)
	s.RelationshipCount = int(relTotal)

	var entityGroups []struct {
		EntityType string
		N          int
	}
	b.db.WithContext(ctx).Model(&entityRow{}).Select("entity_type, count(*) as n").Group("entity_type").Scan(&entityGroups)
	for _, g := range entityGroups {
		s.EntityCountByType[domain.EntityType(g.EntityType)] = g.N
	}

	var relGroups []struct {
		RelationshipType string
		N                 int
	}
	b.db.WithContext(ctx).Model(&relationshipRow{}).Select("relationship_type, count(*) as n").Group("relationship_type").Scan(&relGroups)
	for _, g := range relGroups {
		s.RelationshipCountByType[domain.RelationshipType(g.RelationshipType)] = g.N
	}
	return s, nil
}

func (b *Backend) Clear(ctx context.Context) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM relationships").Error; err != nil {
			return domain.NewError(domain.ErrPersistence, "clear relationships: %v", err)
		}
		if err := tx.Exec("DELETE FROM entities").Error; err != nil {
			return domain.NewError(domain.ErrPersistence, "clear entities: %v", err)
		}
		return nil
	})
}
