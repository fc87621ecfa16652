package model

// Role is the coarse job function assigned to a subject.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
	RoleAuditor Role = "AUDITOR"
)

// Department identifies the organizational unit a subject or resource
// belongs to.
type Department string

const (
	DepartmentIT      Department = "IT"
	DepartmentHR      Department = "HR"
	DepartmentFinance Department = "FINANCE"
	DepartmentSales   Department = "SALES"
)

// Level is an ordinal security level. It serves both as a subject's
// clearance and a resource's classification; the two are compared on
// the same scale.
type Level int

const (
	LevelPublic Level = iota
	LevelInternal
	LevelConfidential
	LevelTopSecret
)

func (l Level) String() string {
	switch l {
	case LevelPublic:
		return "PUBLIC"
	case LevelInternal:
		return "INTERNAL"
	case LevelConfidential:
		return "CONFIDENTIAL"
	case LevelTopSecret:
		return "TOP_SECRET"
	default:
		return "UNKNOWN"
	}
}

// Subject is a user known to the engine.
//
// FailureCount and LockState are mutated only through the subject
// registry under per-subject exclusion; LockState is derived, true iff
// FailureCount has reached the lockout threshold, until an admin
// explicitly clears it.
type Subject struct {
	ID               string     `json:"id" validate:"required"`
	Username         string     `json:"username" validate:"required"`
	Role             Role       `json:"role" validate:"required,oneof=ADMIN MANAGER STAFF AUDITOR"`
	Department       Department `json:"department" validate:"required,oneof=IT HR FINANCE SALES"`
	ClearanceLevel   Level      `json:"clearance_level" validate:"min=0,max=3"`
	CredentialDigest string     `json:"-"`
	MFAEnabled       bool       `json:"mfa_enabled"`
	LockState        bool       `json:"lock_state"`
	FailureCount     int        `json:"failure_count" validate:"min=0"`
}
