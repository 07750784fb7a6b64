package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/types"
)

// FreezerItem is a quantity tracked inventory entry.
type FreezerItem struct {
	ID        uuid.UUID             `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	ItemName  string                `gorm:"size:255;not null" json:"item_name"`
	Quantity  float64               `gorm:"not null;default:0" json:"quantity"`
	Unit      types.FreezerUnit     `gorm:"size:32;not null;default:'servings'" json:"unit"`
	Category  types.FreezerCategory `gorm:"size:64;not null;default:'Prepared Components'" json:"category"`
}

func (FreezerItem) TableName() string {
	return "freezer_inventory"
}

func (i *FreezerItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// UsageLogEntry records one consumption event. FreezerItemName is a snapshot
// taken at the time of use; neither id is a foreign key so deleting the
// recipe or item leaves the entry in place.
type UsageLogEntry struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	RecipeID        uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	FreezerItemID   uuid.UUID `gorm:"type:varchar(36);index" json:"freezer_item_id"`
	FreezerItemName string    `gorm:"size:255;not null" json:"freezer_item_name"`
	QuantityUsed    float64   `gorm:"not null" json:"quantity_used"`
	UsedAt          time.Time `gorm:"not null" json:"used_at"`
}

func (UsageLogEntry) TableName() string {
	return "recipe_usage_log"
}

func (e *UsageLogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.UsedAt.IsZero() {
		e.UsedAt = time.Now()
	}
	return nil
}
