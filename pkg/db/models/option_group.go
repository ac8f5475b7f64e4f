package models

import (
	"time"

	"github.com/google/uuid"
)

// OptionGroup is a named set of modifiers on a menu item ("Size", "Protein").
// MinSelections/MaxSelections bound how many options a customer may pick.
type OptionGroup struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MenuItemID    uuid.UUID `gorm:"column:menu_item_id;type:uuid;not null;index"`
	Name          string    `gorm:"column:name;not null"`
	MinSelections int       `gorm:"column:min_selections;not null;default:0"`
	MaxSelections int       `gorm:"column:max_selections;not null;default:1"`
	DisplayOrder  int       `gorm:"column:display_order;not null;default:0"`
	Options       []Option  `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Required reports whether at least one option must be picked from the group.
func (g OptionGroup) Required() bool {
	return g.MinSelections > 0
}
