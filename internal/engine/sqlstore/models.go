package sqlstore

import "time"

// entityRow is the gorm row shape for an entity. Tags/Metadata/Fields are
// stored as JSON text; gorm has no native map[string]any column type for
// sqlite, so (un)marshaling happens at the repository boundary, keeping
// the row type flat with no reflection-based field mapping.
type entityRow struct {
	ID          string `gorm:"primaryKey"`
	EntityType  string `gorm:"index;not null"`
	Name        string `gorm:"not null"`
	Description string
	Tags        string `gorm:"not null;default:'[]'"`
	Metadata    string `gorm:"not null;default:'{}'"`
	Fields      string `gorm:"not null;default:'{}'"`
	ValidFrom   *time.Time
	ValidUntil  *time.Time
	Version     int `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (entityRow) TableName() string { return "entities" }

// relationshipRow is the gorm row shape for a relationship edge.
type relationshipRow struct {
	ID               string `gorm:"primaryKey"`
	RelationshipType string `gorm:"index;not null"`
	SourceID         string `gorm:"index;not null"`
	TargetID         string `gorm:"index;not null"`
	Weight           float64
	Confidence       float64
	Properties       string `gorm:"not null;default:'{}'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (relationshipRow) TableName() string { return "relationships" }
