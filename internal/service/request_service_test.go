package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/database"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/model"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/policy"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/workflow"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/apperr"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	db        *gorm.DB
	svc       RequestService
	notifier  NotificationService
	dept      model.Department
	otherDept model.Department
	requester model.User
	manager   model.User
	approver  model.User
	admin     model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	f := &fixture{db: db}
	f.dept = model.Department{Code: "TIC", Name: "Tecnologia da Informação", Active: true}
	f.otherDept = model.Department{Code: "LOG", Name: "Logística", Active: true}
	require.NoError(t, db.Create(&f.dept).Error)
	require.NoError(t, db.Create(&f.otherDept).Error)

	f.requester = f.newUser(t, "ana", model.RoleUser, f.dept.ID)
	f.manager = f.newUser(t, "bruno", model.RoleManager, f.dept.ID)
	f.approver = f.newUser(t, "clara", model.RoleApprover, f.dept.ID)
	f.admin = f.newUser(t, "davi", model.RoleAdmin, f.dept.ID)

	f.notifier = NewNotificationService(db, nil)
	f.svc = NewRequestService(db, f.notifier)
	return f
}

func (f *fixture) newUser(t *testing.T, name, role string, deptID uuid.UUID) model.User {
	t.Helper()
	u := model.User{
		Name:         name,
		Username:     name,
		Email:        name + "@example.com",
		Password:     "hash",
		Role:         role,
		DepartmentID: deptID,
		Active:       true,
	}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func actorOf(u model.User) policy.Actor {
	return policy.Actor{ID: u.ID, Name: u.Name, Role: u.Role, DepartmentID: u.DepartmentID}
}

func validInput() RequestInput {
	return RequestInput{
		Description:   "Notebooks para desenvolvimento",
		Justification: "Renovação do parque",
		Items: []RequestItemInput{
			{ItemName: "Notebook", Quantity: 2, UnitValue: "10.50"},
			{ItemName: "Dock station", Quantity: 1, UnitValue: "99.99"},
		},
	}
}

func (f *fixture) createRequest(t *testing.T) RequestResponse {
	t.Helper()
	resp, err := f.svc.CreateRequest(context.Background(), actorOf(f.requester), validInput())
	require.NoError(t, err)
	return resp
}

func (f *fixture) historyActions(t *testing.T, id string) []string {
	t.Helper()
	entries, err := f.svc.ListHistory(context.Background(), actorOf(f.admin), id)
	require.NoError(t, err)
	actions := make([]string, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	return actions
}

func assertNode(t *testing.T, resp RequestResponse, status workflow.Status, mgr workflow.ManagerStatus, appr workflow.ApproverStatus) {
	t.Helper()
	assert.Equal(t, status.String(), resp.Status)
	assert.Equal(t, mgr.String(), resp.ManagerStatus)
	assert.Equal(t, appr.String(), resp.ApproverStatus)
}

// --- Creation ---

func TestCreateRequestComputesTotals(t *testing.T) {
	f := newFixture(t)

	resp := f.createRequest(t)

	assert.Equal(t, "120.99", resp.TotalValue)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "21.00", resp.Items[0].TotalValue)
	assert.Equal(t, "99.99", resp.Items[1].TotalValue)
	assertNode(t, resp, workflow.StatusOpen, workflow.ManagerStatusNone, workflow.ApproverStatusNone)

	wantNumber := fmt.Sprintf("REQ-%s-00001", time.Now().Format("20060102"))
	assert.Equal(t, wantNumber, resp.RequestNumber)
	assert.Equal(t, f.requester.ID.String(), resp.RequesterID)
	assert.Equal(t, f.dept.ID.String(), resp.DepartmentID)
}

func TestCreateRequestNumbersAreSequentialPerDay(t *testing.T) {
	f := newFixture(t)

	first := f.createRequest(t)
	second := f.createRequest(t)

	today := time.Now().Format("20060102")
	assert.Equal(t, fmt.Sprintf("REQ-%s-00001", today), first.RequestNumber)
	assert.Equal(t, fmt.Sprintf("REQ-%s-00002", today), second.RequestNumber)
}

func TestCreateRequestValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := actorOf(f.requester)

	tests := []struct {
		name  string
		input RequestInput
	}{
		{"empty description", RequestInput{Description: "  ", Items: validInput().Items}},
		{"no items", RequestInput{Description: "x"}},
		{"zero quantity", RequestInput{Description: "x", Items: []RequestItemInput{{ItemName: "a", Quantity: 0, UnitValue: "1"}}}},
		{"negative unit value", RequestInput{Description: "x", Items: []RequestItemInput{{ItemName: "a", Quantity: 1, UnitValue: "-1"}}}},
		{"garbage unit value", RequestInput{Description: "x", Items: []RequestItemInput{{ItemName: "a", Quantity: 1, UnitValue: "abc"}}}},
		{"blank item name", RequestInput{Description: "x", Items: []RequestItemInput{{ItemName: " ", Quantity: 1, UnitValue: "1"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateRequest(ctx, actor, tt.input)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}

	var count int64
	f.db.Model(&model.Request{}).Count(&count)
	assert.Zero(t, count, "no request row may survive a failed validation")
}

// --- Happy path ---

func TestFullApprovalFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)

	resp, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)
	assertNode(t, resp, workflow.StatusPendingManagerApproval, workflow.ManagerStatusPendingAuthorization, workflow.ApproverStatusNone)

	resp, err = f.svc.ManagerApprove(ctx, actorOf(f.manager), req.ID)
	require.NoError(t, err)
	assertNode(t, resp, workflow.StatusPendingApproval, workflow.ManagerStatusAuthorize, workflow.ApproverStatusPendingApproval)
	require.NotNil(t, resp.ManagerApprovedBy)
	assert.Equal(t, f.manager.Name, *resp.ManagerApprovedBy)
	assert.NotNil(t, resp.ManagerApprovedAt)

	resp, err = f.svc.Approve(ctx, actorOf(f.approver), req.ID)
	require.NoError(t, err)
	assertNode(t, resp, workflow.StatusApproved, workflow.ManagerStatusAuthorize, workflow.ApproverStatusApprove)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, f.approver.Name, *resp.ApprovedBy)

	assert.Equal(t, []string{"Submitted", "Autorizada pelo Gestor", "Aprovação Final"},
		f.historyActions(t, req.ID))
}

// --- Manager tier ---

func TestManagerRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)
	_, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)

	_, err = f.svc.ManagerReject(ctx, actorOf(f.manager), req.ID, "  ")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	resp, err := f.svc.ManagerReject(ctx, actorOf(f.manager), req.ID, "orçamento esgotado")
	require.NoError(t, err)
	assertNode(t, resp, workflow.StatusRejected, workflow.ManagerStatusDeny, workflow.ApproverStatusNone)
	assert.Equal(t, "orçamento esgotado", resp.ManagerRejectionReason)

	entries, err := f.svc.ListHistory(ctx, actorOf(f.admin), req.ID)
	require.NoError(t, err)
	last := entries[len(entries)-1]
	assert.Equal(t, "Negada pelo Gestor", last.Action)
	assert.Contains(t, last.Comments, "orçamento esgotado")
}

func TestManagerReturnAllowsResubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)
	_, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)

	resp, err := f.svc.ManagerReturn(ctx, actorOf(f.manager), req.ID, "faltam especificações")
	require.NoError(t, err)
	assertNode(t, resp, workflow.StatusOpen, workflow.ManagerStatusReturn, workflow.ApproverStatusNone)

	// Returned requests may be edited before resubmission
	input := validInput()
	input.Items = append(input.Items, RequestItemInput{ItemName: "Monitor", Quantity: 1, UnitValue: "50.00"})
	resp, err = f.svc.UpdateRequest(ctx, actorOf(f.requester), req.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "170.99", resp.TotalValue)

	resp, err = f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)
	assertNode(t, resp, workflow.StatusPendingManagerApproval, workflow.ManagerStatusPendingAuthorization, workflow.ApproverStatusNone)
	assert.Empty(t, resp.ManagerRejectionReason, "resubmission clears the previous pass")
}

func TestManagerOfAnotherDepartmentIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)
	_, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)

	outsider := f.newUser(t, "edu", model.RoleManager, f.otherDept.ID)
	_, err = f.svc.ManagerApprove(ctx, actorOf(outsider), req.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// The request is untouched and the real manager can still act
	_, err = f.svc.ManagerApprove(ctx, actorOf(f.manager), req.ID)
	assert.NoError(t, err)
}

func TestAdminMayActOnBothTiers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)
	_, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)

	_, err = f.svc.ManagerApprove(ctx, actorOf(f.admin), req.ID)
	require.NoError(t, err)

	resp, err := f.svc.Approve(ctx, actorOf(f.admin), req.ID)
	require.NoError(t, err)
	assertNode(t, resp, workflow.StatusApproved, workflow.ManagerStatusAuthorize, workflow.ApproverStatusApprove)
}

// --- Approver tier ---

func TestApproverReturnResetsManagerGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)
	_, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)
	_, err = f.svc.ManagerApprove(ctx, actorOf(f.manager), req.ID)
	require.NoError(t, err)

	resp, err := f.svc.Return(ctx, actorOf(f.approver), req.ID, "rever quantitativos")
	require.NoError(t, err)
	assertNode(t, resp, workflow.StatusOpen, workflow.ManagerStatusPendingAuthorization, workflow.ApproverStatusReturn)

	// After resubmission the manager gate applies again in full
	_, err = f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, actorOf(f.approver), req.ID)
	require.Error(t, err, "final approval must wait for a fresh authorization")
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = f.svc.ManagerApprove(ctx, actorOf(f.manager), req.ID)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, actorOf(f.approver), req.ID)
	assert.NoError(t, err)
}

func TestApproverRejectIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)
	_, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)
	_, err = f.svc.ManagerApprove(ctx, actorOf(f.manager), req.ID)
	require.NoError(t, err)

	resp, err := f.svc.Reject(ctx, actorOf(f.approver), req.ID, "sem dotação")
	require.NoError(t, err)
	assertNode(t, resp, workflow.StatusRejected, workflow.ManagerStatusAuthorize, workflow.ApproverStatusReject)
	assert.Equal(t, "sem dotação", resp.RejectionReason)

	_, err = f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

// --- Reopen ---

func TestReopenRestartsWorkflow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)
	for _, step := range []func() (RequestResponse, error){
		func() (RequestResponse, error) { return f.svc.Submit(ctx, actorOf(f.requester), req.ID) },
		func() (RequestResponse, error) { return f.svc.ManagerApprove(ctx, actorOf(f.manager), req.ID) },
		func() (RequestResponse, error) { return f.svc.Approve(ctx, actorOf(f.approver), req.ID) },
	} {
		_, err := step()
		require.NoError(t, err)
	}

	resp, err := f.svc.Reopen(ctx, actorOf(f.approver), req.ID, "fornecedor desistiu")
	require.NoError(t, err)
	assertNode(t, resp, workflow.StatusReopened, workflow.ManagerStatusPendingAuthorization, workflow.ApproverStatusPendingApproval)
	require.NotNil(t, resp.ReopenedBy)
	assert.Equal(t, f.approver.Name, *resp.ReopenedBy)
	assert.Equal(t, "fornecedor desistiu", resp.ReopenReason)

	// A reopened request goes through the manager gate again
	resp, err = f.svc.ManagerApprove(ctx, actorOf(f.manager), req.ID)
	require.NoError(t, err)
	assertNode(t, resp, workflow.StatusPendingApproval, workflow.ManagerStatusAuthorize, workflow.ApproverStatusPendingApproval)
}

func TestReopenIsApproverOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)
	_, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)
	_, err = f.svc.ManagerApprove(ctx, actorOf(f.manager), req.ID)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, actorOf(f.approver), req.ID)
	require.NoError(t, err)

	for _, u := range []model.User{f.requester, f.manager, f.admin} {
		_, err := f.svc.Reopen(ctx, actorOf(u), req.ID, "tentativa")
		require.Error(t, err, u.Role)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err), u.Role)
	}
}

// --- Concurrency stale guard ---

func TestSecondManagerDecisionNamesTheWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)
	_, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)

	second := f.newUser(t, "fabio", model.RoleManager, f.dept.ID)

	_, err = f.svc.ManagerApprove(ctx, actorOf(f.manager), req.ID)
	require.NoError(t, err)

	_, err = f.svc.ManagerApprove(ctx, actorOf(second), req.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	assert.Contains(t, err.Error(), f.manager.Name, "the loser learns who already authorized")
}

func TestSecondApproverDecisionNamesTheWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)
	_, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)
	_, err = f.svc.ManagerApprove(ctx, actorOf(f.manager), req.ID)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, actorOf(f.approver), req.ID)
	require.NoError(t, err)

	second := f.newUser(t, "gina", model.RoleApprover, f.dept.ID)
	_, err = f.svc.Reject(ctx, actorOf(second), req.ID, "tarde demais")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	assert.Contains(t, err.Error(), f.approver.Name)
}

// --- Edit / delete guards ---

func TestEditRejectedAfterAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)
	_, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)
	_, err = f.svc.ManagerApprove(ctx, actorOf(f.manager), req.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateRequest(ctx, actorOf(f.requester), req.ID, validInput())
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	err = f.svc.DeleteRequest(ctx, actorOf(f.requester), req.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestEditByNonOwnerIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)

	other := f.newUser(t, "hugo", model.RoleUser, f.dept.ID)
	_, err := f.svc.UpdateRequest(ctx, actorOf(other), req.ID, validInput())
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestUpdateReplacesItemsWholesale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)

	input := RequestInput{
		Description: "Apenas um monitor",
		Items:       []RequestItemInput{{ItemName: "Monitor", Quantity: 3, UnitValue: "7.00"}},
	}
	resp, err := f.svc.UpdateRequest(ctx, actorOf(f.requester), req.ID, input)
	require.NoError(t, err)

	assert.Equal(t, "21.00", resp.TotalValue)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Monitor", resp.Items[0].ItemName)

	var count int64
	f.db.Model(&model.RequestItem{}).Count(&count)
	assert.EqualValues(t, 1, count, "old items must not linger")
}

func TestDeleteRemovesRequestAndChildren(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)

	require.NoError(t, f.svc.DeleteRequest(ctx, actorOf(f.requester), req.ID))

	_, err := f.svc.GetRequestByID(ctx, actorOf(f.admin), req.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	var items, history int64
	f.db.Model(&model.RequestItem{}).Count(&items)
	f.db.Model(&model.RequestHistory{}).Count(&history)
	assert.Zero(t, items)
	assert.Zero(t, history)
}

// --- Submit payload guard ---

func TestSubmitWithoutItemsFailsAtomically(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)

	// Strip the items out from under the request
	require.NoError(t, f.db.Where("request_id = ?", req.ID).Delete(&model.RequestItem{}).Error)

	_, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	reloaded, err := f.svc.GetRequestByID(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)
	assertNode(t, reloaded, workflow.StatusOpen, workflow.ManagerStatusNone, workflow.ApproverStatusNone)
	assert.Empty(t, f.historyActions(t, req.ID), "a failed submit leaves no audit trace")
}

// --- Visibility ---

func TestListRequestsIsRoleScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createRequest(t)

	outsider := f.newUser(t, "iris", model.RoleUser, f.otherDept.ID)
	outsiderReq, err := f.svc.CreateRequest(ctx, actorOf(outsider), validInput())
	require.NoError(t, err)

	own, total, err := f.svc.ListRequests(ctx, actorOf(f.requester), RequestFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, own, 1)

	managerView, total, err := f.svc.ListRequests(ctx, actorOf(f.manager), RequestFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "manager only sees their department")
	require.Len(t, managerView, 1)

	_, total, err = f.svc.ListRequests(ctx, actorOf(f.approver), RequestFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	// Direct fetch across the department boundary is rejected for USER
	_, err = f.svc.GetRequestByID(ctx, actorOf(f.requester), outsiderReq.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestGetRequestNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetRequestByID(ctx, actorOf(f.admin), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.svc.GetRequestByID(ctx, actorOf(f.admin), "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

// --- Notification fan-out ---

func TestSubmitNotifiesActiveDepartmentManagers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	second := f.newUser(t, "joao", model.RoleManager, f.dept.ID)
	inactive := f.newUser(t, "kaue", model.RoleManager, f.dept.ID)
	require.NoError(t, f.db.Model(&model.User{}).Where("id = ?", inactive.ID).Update("active", false).Error)
	f.newUser(t, "lia", model.RoleManager, f.otherDept.ID)

	req := f.createRequest(t)
	_, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)

	var notifications []model.Notification
	require.NoError(t, f.db.Find(&notifications).Error)
	require.Len(t, notifications, 2, "only active managers of the request's department are notified")

	recipients := map[uuid.UUID]bool{}
	for _, n := range notifications {
		assert.Equal(t, model.NotificationApprovalPending, n.Type)
		assert.False(t, n.IsRead)
		recipients[n.UserID] = true
	}
	assert.True(t, recipients[f.manager.ID])
	assert.True(t, recipients[second.ID])
}

func TestRejectionNotifiesRequesterWithReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)
	_, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)

	_, err = f.svc.ManagerReject(ctx, actorOf(f.manager), req.ID, "sem verba")
	require.NoError(t, err)

	var notifications []model.Notification
	require.NoError(t, f.db.Where("user_id = ?", f.requester.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationStatusChanged, notifications[0].Type)
	assert.Contains(t, notifications[0].Message, "Motivo: sem verba")
}

func TestReopenNotifiesRequesterAndAuthorizingManager(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)
	_, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID)
	require.NoError(t, err)
	_, err = f.svc.ManagerApprove(ctx, actorOf(f.manager), req.ID)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, actorOf(f.approver), req.ID)
	require.NoError(t, err)

	require.NoError(t, f.db.Where("1 = 1").Delete(&model.Notification{}).Error)

	_, err = f.svc.Reopen(ctx, actorOf(f.approver), req.ID, "revisão")
	require.NoError(t, err)

	var toRequester, toManager int64
	f.db.Model(&model.Notification{}).Where("user_id = ?", f.requester.ID).Count(&toRequester)
	f.db.Model(&model.Notification{}).Where("user_id = ? AND type = ?", f.manager.ID, model.NotificationRequestReopened).Count(&toManager)
	assert.EqualValues(t, 1, toRequester)
	assert.EqualValues(t, 1, toManager)
}

// --- History ---

func TestHistoryIsChronologicalAndComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t)

	steps := []func() error{
		func() error { _, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID); return err },
		func() error { _, err := f.svc.ManagerReturn(ctx, actorOf(f.manager), req.ID, "ajustar"); return err },
		func() error { _, err := f.svc.UpdateRequest(ctx, actorOf(f.requester), req.ID, validInput()); return err },
		func() error { _, err := f.svc.Submit(ctx, actorOf(f.requester), req.ID); return err },
		func() error { _, err := f.svc.ManagerApprove(ctx, actorOf(f.manager), req.ID); return err },
		func() error { _, err := f.svc.Approve(ctx, actorOf(f.approver), req.ID); return err },
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
	}

	want := []string{
		"Submitted",
		"Devolvida pelo Gestor",
		"Editada",
		"Submitted",
		"Autorizada pelo Gestor",
		"Aprovação Final",
	}
	assert.Equal(t, want, f.historyActions(t, req.ID))

	entries, err := f.svc.ListHistory(ctx, actorOf(f.admin), req.ID)
	require.NoError(t, err)
	for i := 1; i < len(entries); i++ {
		prev, errPrev := time.Parse(time.RFC3339, entries[i-1].CreatedAt)
		curr, errCurr := time.Parse(time.RFC3339, entries[i].CreatedAt)
		require.NoError(t, errPrev)
		require.NoError(t, errCurr)
		assert.False(t, curr.Before(prev), "history must be ordered oldest first")
	}
}
