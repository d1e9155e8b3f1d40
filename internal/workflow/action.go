package workflow

// Action is an event an actor fires against a request
type Action string

const (
	ActionSubmit         Action = "SUBMIT"
	ActionManagerApprove Action = "MANAGER_APPROVE"
	ActionManagerReject  Action = "MANAGER_REJECT"
	ActionManagerReturn  Action = "MANAGER_RETURN"
	ActionApprove        Action = "APPROVE"
	ActionReject         Action = "REJECT"
	ActionReturn         Action = "RETURN"
	ActionReopen         Action = "REOPEN"
	ActionEdit           Action = "EDIT"
	ActionDelete         Action = "DELETE"
)

func (a Action) String() string { return string(a) }

// historyLabels are the human-readable audit labels recorded per action.
// Labels follow the wording the approval screens display.
var historyLabels = map[Action]string{
	ActionSubmit:         "Submitted",
	ActionManagerApprove: "Autorizada pelo Gestor",
	ActionManagerReject:  "Negada pelo Gestor",
	ActionManagerReturn:  "Devolvida pelo Gestor",
	ActionApprove:        "Aprovação Final",
	ActionReject:         "Rejeitada pelo Aprovador",
	ActionReturn:         "Devolvida pelo Aprovador",
	ActionReopen:         "REOPENED",
	ActionEdit:           "Editada",
	ActionDelete:         "Excluída",
}

// HistoryLabel returns the audit label recorded for the action
func (a Action) HistoryLabel() string {
	if label, ok := historyLabels[a]; ok {
		return label
	}
	return string(a)
}

// RequiresReason reports whether the action must carry a non-empty reason text
func (a Action) RequiresReason() bool {
	switch a {
	case ActionManagerReject, ActionManagerReturn, ActionReject, ActionReturn, ActionReopen:
		return true
	}
	return false
}
