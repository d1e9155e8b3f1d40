package policy

import (
	"github.com/google/uuid"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/model"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/apperr"
)

// Actor is the already-authenticated identity every capability check receives
// explicitly. The policy layer never reads it from ambient request state.
type Actor struct {
	ID           uuid.UUID
	Name         string
	Role         string
	DepartmentID uuid.UUID
}

// IsAdmin reports whether the actor holds the ADMIN role
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

func notAuthorized() error {
	return apperr.Unauthorized("not authorized")
}

// CanCreate gates request creation. Any known role may create requests, but
// always for themself: the service binds the requester to the actor.
func (a Actor) CanCreate() error {
	switch a.Role {
	case model.RoleUser, model.RoleManager, model.RoleApprover, model.RoleAdmin:
		return nil
	}
	return notAuthorized()
}

// CanView gates read access: USER sees own requests, MANAGER sees their
// department, APPROVER and ADMIN see all.
func (a Actor) CanView(req *model.Request) error {
	switch a.Role {
	case model.RoleApprover, model.RoleAdmin:
		return nil
	case model.RoleManager:
		if req.DepartmentID == a.DepartmentID || req.RequesterID == a.ID {
			return nil
		}
	case model.RoleUser:
		if req.RequesterID == a.ID {
			return nil
		}
	}
	return notAuthorized()
}

// CanModify gates edit, delete and submit: the owner or an ADMIN. State guards
// are the workflow's concern, not the policy's.
func (a Actor) CanModify(req *model.Request) error {
	if a.IsAdmin() || req.RequesterID == a.ID {
		return nil
	}
	return notAuthorized()
}

// CanManagerAct gates the departmental authorization tier: a MANAGER of the
// request's own department, or an ADMIN standing in system-wide.
func (a Actor) CanManagerAct(req *model.Request) error {
	if a.IsAdmin() {
		return nil
	}
	if a.Role == model.RoleManager && req.DepartmentID == a.DepartmentID {
		return nil
	}
	return notAuthorized()
}

// CanApproverAct gates the final approval tier: APPROVER or ADMIN,
// department-agnostic.
func (a Actor) CanApproverAct() error {
	if a.Role == model.RoleApprover || a.Role == model.RoleAdmin {
		return nil
	}
	return notAuthorized()
}

// CanReopen gates reopening an approved request. Deliberately APPROVER-only:
// reopen restarts the whole workflow and is not delegated to admins.
func (a Actor) CanReopen() error {
	if a.Role == model.RoleApprover {
		return nil
	}
	return notAuthorized()
}

// CanManageMasterData gates administrative CRUD on departments, item taxonomy,
// users and system parameters.
func (a Actor) CanManageMasterData() error {
	if a.IsAdmin() {
		return nil
	}
	return notAuthorized()
}
