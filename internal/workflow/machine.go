package workflow

import (
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/apperr"
)

// Apply validates that the current node accepts the action and computes the
// next node. It is a pure function: persistence, authorization and payload
// validation are the caller's concern. A failed guard is rejected with an
// InvalidState error naming the current state, never silently ignored.
func Apply(cur Node, action Action) (Node, error) {
	switch action {
	case ActionSubmit:
		// Submission always restarts the triple, clearing any RETURN residue
		// left by a manager or approver devolution.
		if cur.Status != StatusOpen {
			return cur, invalidState(cur, action)
		}
		return Node{StatusPendingManagerApproval, ManagerStatusPendingAuthorization, ApproverStatusNone}, nil

	case ActionManagerApprove:
		if !awaitingManager(cur) {
			return cur, invalidState(cur, action)
		}
		return Node{StatusPendingApproval, ManagerStatusAuthorize, ApproverStatusPendingApproval}, nil

	case ActionManagerReject:
		if !awaitingManager(cur) {
			return cur, invalidState(cur, action)
		}
		return Node{StatusRejected, ManagerStatusDeny, ApproverStatusNone}, nil

	case ActionManagerReturn:
		if !awaitingManager(cur) {
			return cur, invalidState(cur, action)
		}
		return Node{StatusOpen, ManagerStatusReturn, ApproverStatusNone}, nil

	case ActionApprove:
		if !awaitingApprover(cur) {
			return cur, invalidState(cur, action)
		}
		return Node{StatusApproved, ManagerStatusAuthorize, ApproverStatusApprove}, nil

	case ActionReject:
		if !awaitingApprover(cur) {
			return cur, invalidState(cur, action)
		}
		return Node{StatusRejected, ManagerStatusAuthorize, ApproverStatusReject}, nil

	case ActionReturn:
		// Demotes managerStatus back to PENDING_AUTHORIZATION: a full workflow
		// reset, unlike reject which is terminal.
		if !awaitingApprover(cur) {
			return cur, invalidState(cur, action)
		}
		return Node{StatusOpen, ManagerStatusPendingAuthorization, ApproverStatusReturn}, nil

	case ActionReopen:
		if cur.Status != StatusApproved {
			return cur, invalidState(cur, action)
		}
		return Node{StatusReopened, ManagerStatusPendingAuthorization, ApproverStatusPendingApproval}, nil

	case ActionEdit, ActionDelete:
		// Content mutations keep the node; only editable statuses accept them.
		if !cur.Status.IsEditable() {
			return cur, invalidState(cur, action)
		}
		return cur, nil
	}

	return cur, apperr.Newf(apperr.KindValidation, "unknown action %q", action)
}

// awaitingManager reports whether the departmental authorization gate is the
// next stop. A reopened request goes straight back to the manager, so REOPENED
// is accepted alongside PENDING_MANAGER_APPROVAL.
func awaitingManager(cur Node) bool {
	if cur.ManagerStatus != ManagerStatusPendingAuthorization {
		return false
	}
	return cur.Status == StatusPendingManagerApproval || cur.Status == StatusReopened
}

func awaitingApprover(cur Node) bool {
	return cur.Status == StatusPendingApproval &&
		cur.ManagerStatus == ManagerStatusAuthorize &&
		cur.ApproverStatus == ApproverStatusPendingApproval
}

func invalidState(cur Node, action Action) error {
	return apperr.Newf(apperr.KindInvalidState, "action %s not allowed in state %s", action, cur)
}
