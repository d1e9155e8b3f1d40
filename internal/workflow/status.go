package workflow

// Status is the primary lifecycle status of an acquisition request
type Status string

const (
	StatusOpen                   Status = "OPEN"
	StatusPendingManagerApproval Status = "PENDING_MANAGER_APPROVAL"
	StatusPendingApproval        Status = "PENDING_APPROVAL"
	StatusApproved               Status = "APPROVED"
	StatusRejected               Status = "REJECTED"
	StatusReopened               Status = "REOPENED"
	StatusCompleted              Status = "COMPLETED"
)

// ManagerStatus tracks the departmental authorization tier
type ManagerStatus string

const (
	ManagerStatusNone                 ManagerStatus = ""
	ManagerStatusPendingAuthorization ManagerStatus = "PENDING_AUTHORIZATION"
	ManagerStatusAuthorize            ManagerStatus = "AUTHORIZE"
	ManagerStatusDeny                 ManagerStatus = "DENY"
	ManagerStatusReturn               ManagerStatus = "RETURN"
)

// ApproverStatus tracks the final, department-agnostic approval tier
type ApproverStatus string

const (
	ApproverStatusNone            ApproverStatus = ""
	ApproverStatusPendingApproval ApproverStatus = "PENDING_APPROVAL"
	ApproverStatusApprove         ApproverStatus = "APPROVE"
	ApproverStatusReject          ApproverStatus = "REJECT"
	ApproverStatusReturn          ApproverStatus = "RETURN"
)

var terminalStatuses = map[Status]bool{
	StatusApproved:  true,
	StatusRejected:  true,
	StatusCompleted: true,
}

var editableStatuses = map[Status]bool{
	StatusOpen:                   true,
	StatusPendingManagerApproval: true,
}

// IsTerminal returns true if no action other than reopen may mutate the request
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// IsEditable returns true if the request content may still be edited or the
// request deleted by its owner
func (s Status) IsEditable() bool {
	return editableStatuses[s]
}

func (s Status) String() string { return string(s) }

func (s ManagerStatus) String() string { return string(s) }

func (s ApproverStatus) String() string { return string(s) }

// Node is one valid combination of the three status fields. The three fields
// are never set independently; every transition produces a whole Node.
type Node struct {
	Status         Status
	ManagerStatus  ManagerStatus
	ApproverStatus ApproverStatus
}

// ValidNodes enumerates every legal (status, managerStatus, approverStatus)
// combination the workflow can produce.
var ValidNodes = []Node{
	{StatusOpen, ManagerStatusNone, ApproverStatusNone},                                      // draft
	{StatusOpen, ManagerStatusReturn, ApproverStatusNone},                                    // returned by manager
	{StatusOpen, ManagerStatusPendingAuthorization, ApproverStatusReturn},                    // returned by approver
	{StatusPendingManagerApproval, ManagerStatusPendingAuthorization, ApproverStatusNone},    // submitted
	{StatusPendingApproval, ManagerStatusAuthorize, ApproverStatusPendingApproval},           // authorized by manager
	{StatusApproved, ManagerStatusAuthorize, ApproverStatusApprove},                          // final approval
	{StatusRejected, ManagerStatusDeny, ApproverStatusNone},                                  // denied by manager
	{StatusRejected, ManagerStatusAuthorize, ApproverStatusReject},                           // rejected by approver
	{StatusReopened, ManagerStatusPendingAuthorization, ApproverStatusPendingApproval},       // reopened
}

// IsValid reports whether the node is one of the enumerated legal combinations
func (n Node) IsValid() bool {
	for _, v := range ValidNodes {
		if n == v {
			return true
		}
	}
	return false
}

func (n Node) String() string {
	mgr := n.ManagerStatus.String()
	if mgr == "" {
		mgr = "-"
	}
	appr := n.ApproverStatus.String()
	if appr == "" {
		appr = "-"
	}
	return n.Status.String() + "/" + mgr + "/" + appr
}
