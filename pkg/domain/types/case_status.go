package types

import "fmt"

// CaseStatus represents the status of a case
type CaseStatus string

const (
	// CaseStatusCreated is the initial status set at command time, before the
	// backing channel exists.
	CaseStatusCreated CaseStatus = "created"
	// CaseStatusOpened means the channel is live and the welcome message is posted.
	CaseStatusOpened CaseStatus = "opened"
	// CaseStatusAdminOnly means staff visibility has been revoked. Tickets only.
	CaseStatusAdminOnly CaseStatus = "admin_only"
	// CaseStatusClosing marks a close in flight. It is persisted so that a
	// concurrent close request observes it and becomes a no-op.
	CaseStatusClosing CaseStatus = "closing"
	// CaseStatusClosed is terminal. The origin channel is deleted.
	CaseStatusClosed CaseStatus = "closed"
)

// AllCaseStatuses returns all valid case statuses
func AllCaseStatuses() []CaseStatus {
	return []CaseStatus{
		CaseStatusCreated,
		CaseStatusOpened,
		CaseStatusAdminOnly,
		CaseStatusClosing,
		CaseStatusClosed,
	}
}

// IsValid checks if the case status is valid
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusCreated,
		CaseStatusOpened,
		CaseStatusAdminOnly,
		CaseStatusClosing,
		CaseStatusClosed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition can leave the status.
func (s CaseStatus) IsTerminal() bool {
	return s == CaseStatusClosed
}

// CanClose reports whether a close request may start from this status.
// Closing and closed statuses must be treated as AlreadyClosed by the caller.
func (s CaseStatus) CanClose() bool {
	switch s {
	case CaseStatusCreated, CaseStatusOpened, CaseStatusAdminOnly:
		return true
	default:
		return false
	}
}

// transitions is the single source of truth for legal status changes.
// The closing → created/opened/admin_only edges are rollback edges used when
// the archival pipeline fails.
var transitions = map[CaseStatus][]CaseStatus{
	CaseStatusCreated:   {CaseStatusOpened, CaseStatusClosing},
	CaseStatusOpened:    {CaseStatusAdminOnly, CaseStatusClosing},
	CaseStatusAdminOnly: {CaseStatusClosing},
	CaseStatusClosing:   {CaseStatusClosed, CaseStatusCreated, CaseStatusOpened, CaseStatusAdminOnly},
	CaseStatusClosed:    {},
}

// CanTransition reports whether the transition from s to next is legal.
func (s CaseStatus) CanTransition(next CaseStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// String returns the string representation of the case status
func (s CaseStatus) String() string {
	return string(s)
}

// ParseCaseStatus parses a string into a CaseStatus
func ParseCaseStatus(s string) (CaseStatus, error) {
	status := CaseStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid case status: %s", s)
	}
	return status, nil
}
