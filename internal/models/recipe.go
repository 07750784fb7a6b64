package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// NoteTypeRecipe marks rows of the notes table that are recipes.
const NoteTypeRecipe = "recipe"

// TagList is a text[] column on Postgres and a text column elsewhere.
type TagList pq.StringArray

// Value implements the driver.Valuer interface
func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	return pq.StringArray(t).Value()
}

// Scan implements the sql.Scanner interface
func (t *TagList) Scan(src interface{}) error {
	if src == nil {
		*t = TagList{}
		return nil
	}
	return (*pq.StringArray)(t).Scan(src)
}

// GormDBDataType picks the column type per dialect.
func (TagList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Recipe is a row of the notes table with note_type "recipe". Metadata is
// stored as written by whichever client touched it last and must always be
// read through the metadata codec.
type Recipe struct {
	ID        uuid.UUID        `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	NoteType  string           `gorm:"size:32;not null;default:'recipe';index" json:"note_type"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Content   string           `gorm:"type:text" json:"content"`
	Tags      TagList          `json:"tags"`
	Metadata  datatypes.JSON   `gorm:"not null;default:'{}'" json:"metadata"`
	Embedding *pgvector.Vector `gorm:"type:vector(64)" json:"-"`
}

func (Recipe) TableName() string {
	return "notes"
}

// BeforeCreate assigns an id when the caller did not.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.NoteType == "" {
		r.NoteType = NoteTypeRecipe
	}
	return nil
}
