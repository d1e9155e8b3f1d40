package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestHistory is the append-only audit trail: exactly one entry per
// successful transition. Entries are never updated or deleted, except by the
// cascade when the request itself is removed while still editable.
type RequestHistory struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"request_id"`
	Action      string     `gorm:"type:varchar(100);not null" json:"action"`
	OldStatus   string     `gorm:"type:varchar(30)" json:"old_status"`
	NewStatus   string     `gorm:"type:varchar(30)" json:"new_status"`
	CreatedByID *uuid.UUID `gorm:"type:uuid;index" json:"created_by_id"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Comments    string     `gorm:"type:text" json:"comments"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}

func (h *RequestHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
