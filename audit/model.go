package audit

import "time"

// Event kinds recorded on the trail.
const (
	EventAccessGranted = "access.granted"
	EventAccessDenied  = "access.denied"
	EventAuthenticated = "auth.authenticated"
	EventAuthFailed    = "auth.failed"
	EventLockout       = "auth.lockout"
	EventAdminUnlock   = "auth.admin_unlock"
	EventShared        = "resource.shared"
)

type AuditLog struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Event         string    `json:"event"`
	SubjectID     string    `json:"subject_id"`
	ResourceID    string    `json:"resource_id,omitempty"`
	AccessGranted bool      `json:"access_granted"`
	Model         string    `json:"model,omitempty"`
	Reason        string    `json:"reason,omitempty"`
}
