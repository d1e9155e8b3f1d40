package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/model"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/apperr"
)

func newActor(role string) Actor {
	return Actor{ID: uuid.New(), Name: "test", Role: role, DepartmentID: uuid.New()}
}

func requestOf(requesterID, departmentID uuid.UUID) *model.Request {
	return &model.Request{RequesterID: requesterID, DepartmentID: departmentID}
}

func TestCanCreate(t *testing.T) {
	for _, role := range []string{model.RoleUser, model.RoleManager, model.RoleApprover, model.RoleAdmin} {
		assert.NoError(t, newActor(role).CanCreate(), role)
	}
	err := newActor("INTRUDER").CanCreate()
	assert.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestCanViewOwnership(t *testing.T) {
	user := newActor(model.RoleUser)

	assert.NoError(t, user.CanView(requestOf(user.ID, user.DepartmentID)))

	err := user.CanView(requestOf(uuid.New(), user.DepartmentID))
	assert.Error(t, err, "a USER must not see requests of other users, even in the same department")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestCanViewManagerScope(t *testing.T) {
	manager := newActor(model.RoleManager)

	assert.NoError(t, manager.CanView(requestOf(uuid.New(), manager.DepartmentID)))
	assert.NoError(t, manager.CanView(requestOf(manager.ID, uuid.New())), "managers always see their own requests")
	assert.Error(t, manager.CanView(requestOf(uuid.New(), uuid.New())))
}

func TestCanViewApproverAndAdminSeeAll(t *testing.T) {
	foreign := requestOf(uuid.New(), uuid.New())
	assert.NoError(t, newActor(model.RoleApprover).CanView(foreign))
	assert.NoError(t, newActor(model.RoleAdmin).CanView(foreign))
}

func TestCanModify(t *testing.T) {
	owner := newActor(model.RoleUser)
	admin := newActor(model.RoleAdmin)
	other := newActor(model.RoleUser)

	req := requestOf(owner.ID, owner.DepartmentID)
	assert.NoError(t, owner.CanModify(req))
	assert.NoError(t, admin.CanModify(req))
	assert.Error(t, other.CanModify(req))

	// An approver who does not own the request cannot modify it either
	assert.Error(t, newActor(model.RoleApprover).CanModify(req))
}

func TestCanManagerActDepartmentScope(t *testing.T) {
	manager := newActor(model.RoleManager)

	assert.NoError(t, manager.CanManagerAct(requestOf(uuid.New(), manager.DepartmentID)))
	assert.Error(t, manager.CanManagerAct(requestOf(uuid.New(), uuid.New())),
		"a manager of another department must be rejected")
	assert.NoError(t, newActor(model.RoleAdmin).CanManagerAct(requestOf(uuid.New(), uuid.New())))
	assert.Error(t, newActor(model.RoleUser).CanManagerAct(requestOf(uuid.New(), uuid.New())))
}

func TestCanApproverAct(t *testing.T) {
	assert.NoError(t, newActor(model.RoleApprover).CanApproverAct())
	assert.NoError(t, newActor(model.RoleAdmin).CanApproverAct())
	assert.Error(t, newActor(model.RoleManager).CanApproverAct())
	assert.Error(t, newActor(model.RoleUser).CanApproverAct())
}

func TestCanReopenIsApproverOnly(t *testing.T) {
	assert.NoError(t, newActor(model.RoleApprover).CanReopen())
	assert.Error(t, newActor(model.RoleAdmin).CanReopen())
	assert.Error(t, newActor(model.RoleManager).CanReopen())
	assert.Error(t, newActor(model.RoleUser).CanReopen())
}

func TestCanManageMasterData(t *testing.T) {
	assert.NoError(t, newActor(model.RoleAdmin).CanManageMasterData())
	assert.Error(t, newActor(model.RoleApprover).CanManageMasterData())
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	ghost := Actor{ID: uuid.New(), Role: ""}
	req := requestOf(uuid.New(), uuid.New())

	assert.Error(t, ghost.CanCreate())
	assert.Error(t, ghost.CanView(req))
	assert.Error(t, ghost.CanManagerAct(req))
	assert.Error(t, ghost.CanApproverAct())
	assert.Error(t, ghost.CanReopen())
}
