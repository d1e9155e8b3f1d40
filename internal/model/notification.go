package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType enum constants
const (
	NotificationApprovalPending = "APPROVAL_PENDING" // a request awaits the recipient's sign-off
	NotificationStatusChanged   = "STATUS_CHANGED"   // the recipient's request changed state
	NotificationRequestReopened = "REQUEST_REOPENED" // an approved request was reopened
)

// Notification is a per-user inbox entry created as a best-effort side effect
// of a transition. Only is_read is ever mutated after creation.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"request_id"`
	Request   *Request  `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"-"`
	Type      string    `gorm:"type:varchar(30);not null" json:"type"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
