package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/workflow"
)

// Request is the central entity: an acquisition submission moving through the
// two-tier approval workflow. The three status columns always form one of the
// valid workflow nodes; they are only ever written together by a transition.
type Request struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RequestNumber string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"request_number"`
	Description   string          `gorm:"type:text;not null" json:"description"`
	Justification string          `gorm:"type:text" json:"justification"`
	TotalValue    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_value"` // Always recomputed from items
	RequestDate   time.Time       `gorm:"not null" json:"request_date"`

	Status         workflow.Status         `gorm:"type:varchar(30);not null;index" json:"status"`
	ManagerStatus  workflow.ManagerStatus  `gorm:"type:varchar(30);index" json:"manager_status"`
	ApproverStatus workflow.ApproverStatus `gorm:"type:varchar(30);index" json:"approver_status"`

	RequesterID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"requester_id"`
	Requester    *User       `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	DepartmentID uuid.UUID   `gorm:"type:uuid;not null;index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`

	ManagerApprovedByID    *uuid.UUID `gorm:"type:uuid" json:"manager_approved_by_id"`
	ManagerApprovedBy      *User      `gorm:"foreignKey:ManagerApprovedByID" json:"manager_approved_by,omitempty"`
	ManagerApprovedAt      *time.Time `json:"manager_approved_at"`
	ManagerRejectionReason string     `gorm:"type:text" json:"manager_rejection_reason"`

	ApprovedByID    *uuid.UUID `gorm:"type:uuid" json:"approved_by_id"`
	ApprovedBy      *User      `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason"`

	ReopenedByID *uuid.UUID `gorm:"type:uuid" json:"reopened_by_id"`
	ReopenedBy   *User      `gorm:"foreignKey:ReopenedByID" json:"reopened_by,omitempty"`
	ReopenedAt   *time.Time `json:"reopened_at"`
	ReopenReason string     `gorm:"type:text" json:"reopen_reason"`

	Items   []RequestItem    `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"items"`
	History []RequestHistory `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Node returns the workflow node formed by the three status columns
func (r *Request) Node() workflow.Node {
	return workflow.Node{
		Status:         r.Status,
		ManagerStatus:  r.ManagerStatus,
		ApproverStatus: r.ApproverStatus,
	}
}

// SetNode writes all three status columns from a workflow node
func (r *Request) SetNode(n workflow.Node) {
	r.Status = n.Status
	r.ManagerStatus = n.ManagerStatus
	r.ApproverStatus = n.ApproverStatus
}

// RequestItem is a line item of a request. Items are owned exclusively by
// their request and replaced wholesale on edit; no partial item updates.
type RequestItem struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"request_id"`
	ItemName          string           `gorm:"type:varchar(255);not null" json:"item_name"`
	ItemTypeID        *uuid.UUID       `gorm:"type:uuid" json:"item_type_id"`
	ItemType          *ItemType        `gorm:"foreignKey:ItemTypeID" json:"item_type,omitempty"`
	ItemCategoryID    *uuid.UUID       `gorm:"type:uuid" json:"item_category_id"`
	ItemCategory      *ItemCategory    `gorm:"foreignKey:ItemCategoryID" json:"item_category,omitempty"`
	ContractTypeID    *uuid.UUID       `gorm:"type:uuid" json:"contract_type_id"`
	ContractType      *ContractType    `gorm:"foreignKey:ContractTypeID" json:"contract_type,omitempty"`
	AcquisitionTypeID *uuid.UUID       `gorm:"type:uuid" json:"acquisition_type_id"`
	AcquisitionType   *AcquisitionType `gorm:"foreignKey:AcquisitionTypeID" json:"acquisition_type,omitempty"`
	Quantity          int              `gorm:"not null" json:"quantity"`
	UnitValue         decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"unit_value"`
	TotalValue        decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"total_value"` // quantity × unit_value
	Specifications    string           `gorm:"type:text" json:"specifications"`
	Brand             string           `gorm:"type:varchar(100)" json:"brand"`
	Model             string           `gorm:"type:varchar(100)" json:"model"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func (i *RequestItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
