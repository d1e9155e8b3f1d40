package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/model"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/policy"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/workflow"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/apperr"
)

// --- DTOs ---

type RequestItemInput struct {
	ItemName          string `json:"item_name" binding:"required"`
	ItemTypeID        string `json:"item_type_id"`
	ItemCategoryID    string `json:"item_category_id"`
	ContractTypeID    string `json:"contract_type_id"`
	AcquisitionTypeID string `json:"acquisition_type_id"`
	Quantity          int    `json:"quantity" binding:"required,gt=0"`
	UnitValue         string `json:"unit_value" binding:"required"` // Decimal string, e.g. "149.90"
	Specifications    string `json:"specifications"`
	Brand             string `json:"brand"`
	Model             string `json:"model"`
}

type RequestInput struct {
	Description   string             `json:"description" binding:"required"`
	Justification string             `json:"justification"`
	Items         []RequestItemInput `json:"items" binding:"required,min=1,dive"`
}

type ReasonInput struct {
	Reason string `json:"reason" binding:"required"`
}

type RequestFilter struct {
	Status string // workflow status or empty for all
	Page   int
	Limit  int
}

type RequestItemResponse struct {
	ID                string  `json:"id"`
	ItemName          string  `json:"item_name"`
	ItemTypeID        *string `json:"item_type_id"`
	ItemCategoryID    *string `json:"item_category_id"`
	ContractTypeID    *string `json:"contract_type_id"`
	AcquisitionTypeID *string `json:"acquisition_type_id"`
	Quantity          int     `json:"quantity"`
	UnitValue         string  `json:"unit_value"`
	TotalValue        string  `json:"total_value"`
	Specifications    string  `json:"specifications"`
	Brand             string  `json:"brand"`
	Model             string  `json:"model"`
}

type RequestResponse struct {
	ID                     string                `json:"id"`
	RequestNumber          string                `json:"request_number"`
	Description            string                `json:"description"`
	Justification          string                `json:"justification"`
	TotalValue             string                `json:"total_value"`
	RequestDate            string                `json:"request_date"`
	Status                 string                `json:"status"`
	ManagerStatus          string                `json:"manager_status"`
	ApproverStatus         string                `json:"approver_status"`
	RequesterID            string                `json:"requester_id"`
	RequesterName          string                `json:"requester_name"`
	DepartmentID           string                `json:"department_id"`
	DepartmentName         string                `json:"department_name"`
	ManagerApprovedBy      *string               `json:"manager_approved_by"`
	ManagerApprovedAt      *string               `json:"manager_approved_at"`
	ManagerRejectionReason string                `json:"manager_rejection_reason"`
	ApprovedBy             *string               `json:"approved_by"`
	ApprovedAt             *string               `json:"approved_at"`
	RejectionReason        string                `json:"rejection_reason"`
	ReopenedBy             *string               `json:"reopened_by"`
	ReopenedAt             *string               `json:"reopened_at"`
	ReopenReason           string                `json:"reopen_reason"`
	Items                  []RequestItemResponse `json:"items"`
	CreatedAt              string                `json:"created_at"`
	UpdatedAt              string                `json:"updated_at"`
}

type HistoryResponse struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	CreatedBy string `json:"created_by"`
	Comments  string `json:"comments"`
	CreatedAt string `json:"created_at"`
}

// --- Interface ---

type RequestService interface {
	CreateRequest(ctx context.Context, actor policy.Actor, input RequestInput) (RequestResponse, error)
	UpdateRequest(ctx context.Context, actor policy.Actor, id string, input RequestInput) (RequestResponse, error)
	DeleteRequest(ctx context.Context, actor policy.Actor, id string) error
	Submit(ctx context.Context, actor policy.Actor, id string) (RequestResponse, error)
	ManagerApprove(ctx context.Context, actor policy.Actor, id string) (RequestResponse, error)
	ManagerReject(ctx context.Context, actor policy.Actor, id string, reason string) (RequestResponse, error)
	ManagerReturn(ctx context.Context, actor policy.Actor, id string, reason string) (RequestResponse, error)
	Approve(ctx context.Context, actor policy.Actor, id string) (RequestResponse, error)
	Reject(ctx context.Context, actor policy.Actor, id string, reason string) (RequestResponse, error)
	Return(ctx context.Context, actor policy.Actor, id string, reason string) (RequestResponse, error)
	Reopen(ctx context.Context, actor policy.Actor, id string, reason string) (RequestResponse, error)
	GetRequestByID(ctx context.Context, actor policy.Actor, id string) (RequestResponse, error)
	ListRequests(ctx context.Context, actor policy.Actor, filter RequestFilter) ([]RequestResponse, int64, error)
	ListHistory(ctx context.Context, actor policy.Actor, id string) ([]HistoryResponse, error)
}

type requestService struct {
	db       *gorm.DB
	notifier Notifier // optional; nil disables fan-out
}

func NewRequestService(db *gorm.DB, notifier Notifier) RequestService {
	return &requestService{db: db, notifier: notifier}
}

// --- Creation / editing ---

func (s *requestService) CreateRequest(ctx context.Context, actor policy.Actor, input RequestInput) (RequestResponse, error) {
	if err := actor.CanCreate(); err != nil {
		return RequestResponse{}, err
	}

	items, total, err := buildItems(input)
	if err != nil {
		return RequestResponse{}, err
	}

	req := model.Request{
		Description:   strings.TrimSpace(input.Description),
		Justification: input.Justification,
		TotalValue:    total,
		RequestDate:   time.Now(),
		RequesterID:   actor.ID,
		DepartmentID:  actor.DepartmentID,
		Items:         items,
	}
	req.SetNode(workflow.Node{Status: workflow.StatusOpen})

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, numErr := s.generateRequestNumber(tx)
		if numErr != nil {
			return fmt.Errorf("failed to generate request number: %w", numErr)
		}
		req.RequestNumber = number

		if createErr := tx.Create(&req).Error; createErr != nil {
			return fmt.Errorf("failed to create request: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return RequestResponse{}, err
	}

	return s.reload(ctx, req.ID)
}

func (s *requestService) UpdateRequest(ctx context.Context, actor policy.Actor, id string, input RequestInput) (RequestResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return RequestResponse{}, apperr.Validation("invalid request id")
	}

	items, total, err := buildItems(input)
	if err != nil {
		return RequestResponse{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, findErr := findForUpdate(tx, requestID)
		if findErr != nil {
			return findErr
		}

		if authErr := actor.CanModify(req); authErr != nil {
			return authErr
		}

		if _, guardErr := workflow.Apply(req.Node(), workflow.ActionEdit); guardErr != nil {
			return guardErr
		}

		// Items are replaced wholesale inside the same transaction so no
		// intermediate zero-item state is ever observable.
		if delErr := tx.Where("request_id = ?", req.ID).Delete(&model.RequestItem{}).Error; delErr != nil {
			return fmt.Errorf("failed to replace request items: %w", delErr)
		}
		for i := range items {
			items[i].RequestID = req.ID
		}
		if insErr := tx.Create(&items).Error; insErr != nil {
			return fmt.Errorf("failed to insert request items: %w", insErr)
		}

		req.Description = strings.TrimSpace(input.Description)
		req.Justification = input.Justification
		req.TotalValue = total
		if saveErr := tx.Omit(clause.Associations).Save(req).Error; saveErr != nil {
			return fmt.Errorf("failed to update request: %w", saveErr)
		}

		return appendHistory(tx, req, workflow.ActionEdit, actor, req.Status.String(), "")
	})
	if err != nil {
		return RequestResponse{}, err
	}

	return s.reload(ctx, requestID)
}

func (s *requestService) DeleteRequest(ctx context.Context, actor policy.Actor, id string) error {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid request id")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, findErr := findForUpdate(tx, requestID)
		if findErr != nil {
			return findErr
		}

		if authErr := actor.CanModify(req); authErr != nil {
			return authErr
		}

		if _, guardErr := workflow.Apply(req.Node(), workflow.ActionDelete); guardErr != nil {
			return guardErr
		}

		// The deletion entry is written first and removed again by the cascade,
		// matching the observed source behavior of the workflow.
		if histErr := appendHistory(tx, req, workflow.ActionDelete, actor, req.Status.String(), ""); histErr != nil {
			return histErr
		}

		for _, child := range []interface{}{&model.Notification{}, &model.RequestHistory{}, &model.RequestItem{}} {
			if delErr := tx.Where("request_id = ?", req.ID).Delete(child).Error; delErr != nil {
				return fmt.Errorf("failed to delete request children: %w", delErr)
			}
		}
		if delErr := tx.Delete(&model.Request{}, "id = ?", req.ID).Error; delErr != nil {
			return fmt.Errorf("failed to delete request: %w", delErr)
		}
		return nil
	})
}

// --- Transitions ---

func (s *requestService) Submit(ctx context.Context, actor policy.Actor, id string) (RequestResponse, error) {
	return s.applyTransition(ctx, actor, id, workflow.ActionSubmit, "")
}

func (s *requestService) ManagerApprove(ctx context.Context, actor policy.Actor, id string) (RequestResponse, error) {
	return s.applyTransition(ctx, actor, id, workflow.ActionManagerApprove, "")
}

func (s *requestService) ManagerReject(ctx context.Context, actor policy.Actor, id string, reason string) (RequestResponse, error) {
	return s.applyTransition(ctx, actor, id, workflow.ActionManagerReject, reason)
}

func (s *requestService) ManagerReturn(ctx context.Context, actor policy.Actor, id string, reason string) (RequestResponse, error) {
	return s.applyTransition(ctx, actor, id, workflow.ActionManagerReturn, reason)
}

func (s *requestService) Approve(ctx context.Context, actor policy.Actor, id string) (RequestResponse, error) {
	return s.applyTransition(ctx, actor, id, workflow.ActionApprove, "")
}

func (s *requestService) Reject(ctx context.Context, actor policy.Actor, id string, reason string) (RequestResponse, error) {
	return s.applyTransition(ctx, actor, id, workflow.ActionReject, reason)
}

func (s *requestService) Return(ctx context.Context, actor policy.Actor, id string, reason string) (RequestResponse, error) {
	return s.applyTransition(ctx, actor, id, workflow.ActionReturn, reason)
}

func (s *requestService) Reopen(ctx context.Context, actor policy.Actor, id string, reason string) (RequestResponse, error) {
	return s.applyTransition(ctx, actor, id, workflow.ActionReopen, reason)
}

// applyTransition is the single guarded transition path every workflow action
// goes through: re-read the fresh row under lock, authorize, validate the
// guard, persist the new node and the history entry atomically. Fan-out runs
// after commit, best-effort.
func (s *requestService) applyTransition(ctx context.Context, actor policy.Actor, id string, action workflow.Action, reason string) (RequestResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return RequestResponse{}, apperr.Validation("invalid request id")
	}

	reason = strings.TrimSpace(reason)
	if action.RequiresReason() && reason == "" {
		return RequestResponse{}, apperr.Validation("reason is required")
	}

	var req *model.Request
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var findErr error
		req, findErr = findForUpdate(tx, requestID)
		if findErr != nil {
			return findErr
		}

		if authErr := authorize(actor, req, action); authErr != nil {
			return authErr
		}

		if action == workflow.ActionSubmit {
			if valErr := validateSubmittable(tx, req); valErr != nil {
				return valErr
			}
		}

		cur := req.Node()
		next, guardErr := workflow.Apply(cur, action)
		if guardErr != nil {
			return staleGuard(req, action, guardErr)
		}

		now := time.Now()
		switch action {
		case workflow.ActionSubmit:
			// Resubmission clears the outcome of any previous pass.
			req.ManagerApprovedByID = nil
			req.ManagerApprovedAt = nil
			req.ManagerRejectionReason = ""
			req.ApprovedByID = nil
			req.ApprovedAt = nil
			req.RejectionReason = ""
		case workflow.ActionManagerApprove:
			req.ManagerApprovedByID = &actor.ID
			req.ManagerApprovedAt = &now
		case workflow.ActionManagerReject, workflow.ActionManagerReturn:
			req.ManagerRejectionReason = reason
		case workflow.ActionApprove:
			req.ApprovedByID = &actor.ID
			req.ApprovedAt = &now
		case workflow.ActionReject:
			req.ApprovedByID = &actor.ID
			req.ApprovedAt = &now
			req.RejectionReason = reason
		case workflow.ActionReturn:
			req.RejectionReason = reason
		case workflow.ActionReopen:
			req.ReopenedByID = &actor.ID
			req.ReopenedAt = &now
			req.ReopenReason = reason
		}
		req.SetNode(next)

		if saveErr := tx.Omit(clause.Associations).Save(req).Error; saveErr != nil {
			return fmt.Errorf("failed to update request: %w", saveErr)
		}

		return appendHistory(tx, req, action, actor, cur.Status.String(), reason)
	})
	if err != nil {
		return RequestResponse{}, err
	}

	if s.notifier != nil {
		s.notifier.NotifyTransition(ctx, req, action, reason)
	}

	return s.reload(ctx, requestID)
}

// --- Queries ---

func (s *requestService) GetRequestByID(ctx context.Context, actor policy.Actor, id string) (RequestResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return RequestResponse{}, apperr.Validation("invalid request id")
	}

	req, err := s.load(ctx, requestID)
	if err != nil {
		return RequestResponse{}, err
	}

	if authErr := actor.CanView(req); authErr != nil {
		return RequestResponse{}, authErr
	}

	return toRequestResponse(*req), nil
}

func (s *requestService) ListRequests(ctx context.Context, actor policy.Actor, filter RequestFilter) ([]RequestResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	scope := func(q *gorm.DB) *gorm.DB {
		// Visibility mirrors CanView: own / own department / all.
		switch actor.Role {
		case model.RoleApprover, model.RoleAdmin:
			return q
		case model.RoleManager:
			return q.Where("department_id = ? OR requester_id = ?", actor.DepartmentID, actor.ID)
		default:
			return q.Where("requester_id = ?", actor.ID)
		}
	}

	query := scope(s.db.WithContext(ctx).Model(&model.Request{}))
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	fetch := scope(s.db.WithContext(ctx).Model(&model.Request{})).
		Preload("Items").
		Preload("Requester").
		Preload("Department")
	if filter.Status != "" {
		fetch = fetch.Where("status = ?", filter.Status)
	}

	var requests []model.Request
	if err := fetch.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch requests: %w", err)
	}

	result := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, toRequestResponse(r))
	}
	return result, total, nil
}

func (s *requestService) ListHistory(ctx context.Context, actor policy.Actor, id string) ([]HistoryResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid request id")
	}

	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if authErr := actor.CanView(req); authErr != nil {
		return nil, authErr
	}

	var entries []model.RequestHistory
	if err := s.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch request history: %w", err)
	}

	res := make([]HistoryResponse, 0, len(entries))
	for _, e := range entries {
		actorName := ""
		if e.CreatedBy != nil {
			actorName = e.CreatedBy.Name
		}
		res = append(res, HistoryResponse{
			ID:        e.ID.String(),
			Action:    e.Action,
			OldStatus: e.OldStatus,
			NewStatus: e.NewStatus,
			CreatedBy: actorName,
			Comments:  e.Comments,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return res, nil
}

// --- Internals ---

// authorize dispatches to the policy capability matching the action
func authorize(actor policy.Actor, req *model.Request, action workflow.Action) error {
	switch action {
	case workflow.ActionSubmit, workflow.ActionEdit, workflow.ActionDelete:
		return actor.CanModify(req)
	case workflow.ActionManagerApprove, workflow.ActionManagerReject, workflow.ActionManagerReturn:
		return actor.CanManagerAct(req)
	case workflow.ActionApprove, workflow.ActionReject, workflow.ActionReturn:
		return actor.CanApproverAct()
	case workflow.ActionReopen:
		return actor.CanReopen()
	}
	return apperr.Unauthorized("not authorized")
}

// validateSubmittable enforces the submit payload guard against the fresh row
func validateSubmittable(tx *gorm.DB, req *model.Request) error {
	if strings.TrimSpace(req.Description) == "" {
		return apperr.Validation("description is required")
	}
	var count int64
	if err := tx.Model(&model.RequestItem{}).Where("request_id = ?", req.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count request items: %w", err)
	}
	if count == 0 {
		return apperr.Validation("request must have at least one item")
	}
	return nil
}

// staleGuard enriches a guard failure with who already processed the request,
// so a concurrent loser sees "already ... by X" instead of a bare state error
func staleGuard(req *model.Request, action workflow.Action, guardErr error) error {
	switch action {
	case workflow.ActionManagerApprove, workflow.ActionManagerReject, workflow.ActionManagerReturn:
		if req.ManagerStatus == workflow.ManagerStatusAuthorize && req.ManagerApprovedBy != nil {
			return apperr.Newf(apperr.KindInvalidState, "request already authorized by %s", req.ManagerApprovedBy.Name)
		}
	case workflow.ActionApprove, workflow.ActionReject, workflow.ActionReturn:
		if req.Status.IsTerminal() && req.ApprovedBy != nil {
			return apperr.Newf(apperr.KindInvalidState, "request already processed by %s", req.ApprovedBy.Name)
		}
	}
	return guardErr
}

// findForUpdate loads the request row under a row lock inside the transaction
func findForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Request, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var req model.Request
	if err := q.Preload("ManagerApprovedBy").Preload("ApprovedBy").First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("request not found")
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	return &req, nil
}

// appendHistory writes the single immutable audit entry for a transition
func appendHistory(tx *gorm.DB, req *model.Request, action workflow.Action, actor policy.Actor, oldStatus string, reason string) error {
	comments := action.HistoryLabel()
	if reason != "" {
		comments += ": " + reason
	}

	actorID := actor.ID
	hist := model.RequestHistory{
		RequestID:   req.ID,
		Action:      action.HistoryLabel(),
		OldStatus:   oldStatus,
		NewStatus:   req.Status.String(),
		CreatedByID: &actorID,
		Comments:    comments,
	}
	if err := tx.Create(&hist).Error; err != nil {
		return fmt.Errorf("failed to write request history: %w", err)
	}
	return nil
}

func (s *requestService) generateRequestNumber(tx *gorm.DB) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "REQ-" + today + "-"

	// Advisory lock prevents concurrent duplicate request numbers
	if tx.Dialector.Name() == "postgres" {
		tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix)
	}

	var count int64
	if err := tx.Model(&model.Request{}).
		Where("request_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// buildItems validates the payload and materializes items with their computed
// totals, returning the request total alongside
func buildItems(input RequestInput) ([]model.RequestItem, decimal.Decimal, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, decimal.Zero, apperr.Validation("description is required")
	}
	if len(input.Items) == 0 {
		return nil, decimal.Zero, apperr.Validation("request must have at least one item")
	}

	items := make([]model.RequestItem, 0, len(input.Items))
	total := decimal.Zero
	for i, in := range input.Items {
		if strings.TrimSpace(in.ItemName) == "" {
			return nil, decimal.Zero, apperr.Newf(apperr.KindValidation, "item %d: name is required", i+1)
		}
		if in.Quantity <= 0 {
			return nil, decimal.Zero, apperr.Newf(apperr.KindValidation, "item %d: quantity must be positive", i+1)
		}
		unitValue, err := decimal.NewFromString(in.UnitValue)
		if err != nil || unitValue.IsNegative() {
			return nil, decimal.Zero, apperr.Newf(apperr.KindValidation, "item %d: invalid unit value", i+1)
		}

		itemTotal := unitValue.Mul(decimal.NewFromInt(int64(in.Quantity)))
		item := model.RequestItem{
			ItemName:       strings.TrimSpace(in.ItemName),
			Quantity:       in.Quantity,
			UnitValue:      unitValue,
			TotalValue:     itemTotal,
			Specifications: in.Specifications,
			Brand:          in.Brand,
			Model:          in.Model,
		}
		if id := parseOptionalUUID(in.ItemTypeID); id != nil {
			item.ItemTypeID = id
		}
		if id := parseOptionalUUID(in.ItemCategoryID); id != nil {
			item.ItemCategoryID = id
		}
		if id := parseOptionalUUID(in.ContractTypeID); id != nil {
			item.ContractTypeID = id
		}
		if id := parseOptionalUUID(in.AcquisitionTypeID); id != nil {
			item.AcquisitionTypeID = id
		}

		items = append(items, item)
		total = total.Add(itemTotal)
	}

	return items, total, nil
}

func parseOptionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

func (s *requestService) load(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	var req model.Request
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Requester").
		Preload("Department").
		Preload("ManagerApprovedBy").
		Preload("ApprovedBy").
		Preload("ReopenedBy").
		First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("request not found")
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	return &req, nil
}

func (s *requestService) reload(ctx context.Context, id uuid.UUID) (RequestResponse, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return RequestResponse{}, fmt.Errorf("failed to reload request: %w", err)
	}
	return toRequestResponse(*req), nil
}

// --- Helpers ---

func toRequestResponse(r model.Request) RequestResponse {
	resp := RequestResponse{
		ID:                     r.ID.String(),
		RequestNumber:          r.RequestNumber,
		Description:            r.Description,
		Justification:          r.Justification,
		TotalValue:             r.TotalValue.StringFixed(2),
		RequestDate:            r.RequestDate.Format(time.RFC3339),
		Status:                 r.Status.String(),
		ManagerStatus:          r.ManagerStatus.String(),
		ApproverStatus:         r.ApproverStatus.String(),
		RequesterID:            r.RequesterID.String(),
		DepartmentID:           r.DepartmentID.String(),
		ManagerRejectionReason: r.ManagerRejectionReason,
		RejectionReason:        r.RejectionReason,
		ReopenReason:           r.ReopenReason,
		CreatedAt:              r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              r.UpdatedAt.Format(time.RFC3339),
	}

	if r.Requester != nil {
		resp.RequesterName = r.Requester.Name
	}
	if r.Department != nil {
		resp.DepartmentName = r.Department.Name
	}
	if r.ManagerApprovedBy != nil {
		name := r.ManagerApprovedBy.Name
		resp.ManagerApprovedBy = &name
	}
	if r.ManagerApprovedAt != nil {
		at := r.ManagerApprovedAt.Format(time.RFC3339)
		resp.ManagerApprovedAt = &at
	}
	if r.ApprovedBy != nil {
		name := r.ApprovedBy.Name
		resp.ApprovedBy = &name
	}
	if r.ApprovedAt != nil {
		at := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &at
	}
	if r.ReopenedBy != nil {
		name := r.ReopenedBy.Name
		resp.ReopenedBy = &name
	}
	if r.ReopenedAt != nil {
		at := r.ReopenedAt.Format(time.RFC3339)
		resp.ReopenedAt = &at
	}

	resp.Items = make([]RequestItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		resp.Items = append(resp.Items, toItemResponse(item))
	}

	return resp
}

func toItemResponse(i model.RequestItem) RequestItemResponse {
	resp := RequestItemResponse{
		ID:             i.ID.String(),
		ItemName:       i.ItemName,
		Quantity:       i.Quantity,
		UnitValue:      i.UnitValue.StringFixed(2),
		TotalValue:     i.TotalValue.StringFixed(2),
		Specifications: i.Specifications,
		Brand:          i.Brand,
		Model:          i.Model,
	}
	if i.ItemTypeID != nil {
		s := i.ItemTypeID.String()
		resp.ItemTypeID = &s
	}
	if i.ItemCategoryID != nil {
		s := i.ItemCategoryID.String()
		resp.ItemCategoryID = &s
	}
	if i.ContractTypeID != nil {
		s := i.ContractTypeID.String()
		resp.ContractTypeID = &s
	}
	if i.AcquisitionTypeID != nil {
		s := i.AcquisitionTypeID.String()
		resp.AcquisitionTypeID = &s
	}
	return resp
}
