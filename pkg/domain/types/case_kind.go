package types

import "fmt"

// CaseKind distinguishes the two flavors of case
type CaseKind string

const (
	// CaseKindTicket is a support ticket (reports, questions, appeals)
	CaseKindTicket CaseKind = "ticket"
	// CaseKindApplication is a role application (staff, builder)
	CaseKindApplication CaseKind = "application"
)

// IsValid checks if the case kind is valid
func (k CaseKind) IsValid() bool {
	return k == CaseKindTicket || k == CaseKindApplication
}

// SupportsAdminOnly reports whether the kind allows the admin_only
// escalation. Applications have no staff-exclusion step.
func (k CaseKind) SupportsAdminOnly() bool {
	return k == CaseKindTicket
}

// String returns the string representation of the case kind
func (k CaseKind) String() string {
	return string(k)
}

// ParseCaseKind parses a string into a CaseKind
func ParseCaseKind(s string) (CaseKind, error) {
	kind := CaseKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid case kind: %s", s)
	}
	return kind, nil
}
