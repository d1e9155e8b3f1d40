package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department is hierarchical reference data. A MANAGER only acts on requests
// whose department matches their own; the hierarchy itself does not widen that
// scope.
type Department struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Code      string       `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"`
	Name      string       `gorm:"type:varchar(255);not null" json:"name"`
	ParentID  *uuid.UUID   `gorm:"type:uuid;index" json:"parent_id"`
	Parent    *Department  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children  []Department `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Active    bool         `gorm:"default:true" json:"active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
