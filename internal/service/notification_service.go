package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/model"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/websocket"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/workflow"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/apperr"
)

// --- DTOs ---

type NotificationResponse struct {
	ID        string `json:"id"`
	RequestID string `json:"request_id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// --- Interfaces ---

// Notifier fans out notifications after a committed transition. Implementations
// are best-effort: a notification failure never fails the transition.
type Notifier interface {
	NotifyTransition(ctx context.Context, req *model.Request, action workflow.Action, reason string)
}

type NotificationService interface {
	Notifier
	ListNotifications(ctx context.Context, userID uuid.UUID, page, limit int) ([]NotificationResponse, int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID uuid.UUID, id string) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	db  *gorm.DB
	hub *websocket.Hub // optional live push
}

func NewNotificationService(db *gorm.DB, hub *websocket.Hub) NotificationService {
	return &notificationService{db: db, hub: hub}
}

// --- Fan-out ---

// BuildFanOut maps a committed transition to the notification records it
// produces. Pure: the department managers (for submit) are passed in.
func BuildFanOut(action workflow.Action, req *model.Request, managers []model.User, reason string) []model.Notification {
	var out []model.Notification

	toRequester := func(ntype, title, message string) {
		out = append(out, model.Notification{
			UserID:    req.RequesterID,
			RequestID: req.ID,
			Type:      ntype,
			Title:     title,
			Message:   message,
		})
	}

	withReason := func(message string) string {
		if reason != "" {
			return message + " Motivo: " + reason
		}
		return message
	}

	switch action {
	case workflow.ActionSubmit:
		for _, m := range managers {
			out = append(out, model.Notification{
				UserID:    m.ID,
				RequestID: req.ID,
				Type:      model.NotificationApprovalPending,
				Title:     "Solicitação pendente de autorização",
				Message:   fmt.Sprintf("A solicitação %s aguarda sua autorização.", req.RequestNumber),
			})
		}

	case workflow.ActionManagerApprove:
		// Approvers discover authorized requests via the pending queue view;
		// only the requester is notified directly.
		toRequester(model.NotificationStatusChanged, "Solicitação autorizada pelo gestor",
			fmt.Sprintf("A solicitação %s foi autorizada e aguarda aprovação final.", req.RequestNumber))

	case workflow.ActionManagerReject:
		toRequester(model.NotificationStatusChanged, "Solicitação negada pelo gestor",
			withReason(fmt.Sprintf("A solicitação %s foi negada pelo gestor.", req.RequestNumber)))

	case workflow.ActionManagerReturn:
		toRequester(model.NotificationStatusChanged, "Solicitação devolvida pelo gestor",
			withReason(fmt.Sprintf("A solicitação %s foi devolvida para ajustes.", req.RequestNumber)))

	case workflow.ActionApprove:
		toRequester(model.NotificationStatusChanged, "Solicitação aprovada",
			fmt.Sprintf("A solicitação %s recebeu a aprovação final.", req.RequestNumber))

	case workflow.ActionReject:
		toRequester(model.NotificationStatusChanged, "Solicitação rejeitada",
			withReason(fmt.Sprintf("A solicitação %s foi rejeitada pelo aprovador.", req.RequestNumber)))

	case workflow.ActionReturn:
		toRequester(model.NotificationStatusChanged, "Solicitação devolvida pelo aprovador",
			withReason(fmt.Sprintf("A solicitação %s foi devolvida e exige nova autorização do gestor.", req.RequestNumber)))

	case workflow.ActionReopen:
		toRequester(model.NotificationStatusChanged, "Solicitação reaberta",
			withReason(fmt.Sprintf("A solicitação %s foi reaberta pelo aprovador.", req.RequestNumber)))
		if req.ManagerApprovedByID != nil {
			out = append(out, model.Notification{
				UserID:    *req.ManagerApprovedByID,
				RequestID: req.ID,
				Type:      model.NotificationRequestReopened,
				Title:     "Solicitação reaberta",
				Message:   fmt.Sprintf("A solicitação %s que você autorizou foi reaberta.", req.RequestNumber),
			})
		}
	}

	return out
}

// NotifyTransition persists the fan-out of a committed transition and pushes a
// live event per recipient. Failures are logged, never propagated: the state
// transition already committed and must not appear to have failed.
func (s *notificationService) NotifyTransition(ctx context.Context, req *model.Request, action workflow.Action, reason string) {
	var managers []model.User
	if action == workflow.ActionSubmit {
		if err := s.db.WithContext(ctx).
			Where("role = ? AND department_id = ? AND active = ?", model.RoleManager, req.DepartmentID, true).
			Find(&managers).Error; err != nil {
			log.Println("notification fan-out: failed to load department managers:", err)
		}
	}

	notifications := BuildFanOut(action, req, managers, reason)
	for i := range notifications {
		n := &notifications[i]
		if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
			log.Println("notification fan-out: failed to create notification:", err)
			continue
		}
		s.push(n)
	}
}

// push sends the notification over the websocket hub, if one is attached
func (s *notificationService) push(n *model.Notification) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"event":        "notification",
		"notification": toNotificationResponse(*n),
	})
	if err != nil {
		return
	}
	s.hub.NotifyUser(n.UserID, payload)
}

// --- Inbox ---

func (s *notificationService) ListNotifications(ctx context.Context, userID uuid.UUID, page, limit int) ([]NotificationResponse, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	offset := (page - 1) * limit
	var notifications []model.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	res := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		res = append(res, toNotificationResponse(n))
	}

	return res, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID uuid.UUID, id string) error {
	notificationID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid notification id")
	}

	result := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// --- Helpers ---

func toNotificationResponse(n model.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID.String(),
		RequestID: n.RequestID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
