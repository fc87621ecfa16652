package model

// Resource is a protected object. Classification uses the same ordered
// scale as subject clearance. OwnerID need not appear in SharedWith.
type Resource struct {
	ID             string     `json:"id" validate:"required"`
	Name           string     `json:"name"`
	Classification Level      `json:"classification" validate:"min=0,max=3"`
	Department     Department `json:"department" validate:"required,oneof=IT HR FINANCE SALES"`
	OwnerID        string     `json:"owner_id" validate:"required"`
	SharedWith     []string   `json:"shared_with,omitempty"`
}

// SharedWithSubject reports whether the resource has been explicitly
// shared with the given subject id.
func (r *Resource) SharedWithSubject(subjectID string) bool {
	for _, id := range r.SharedWith {
		if id == subjectID {
			return true
		}
	}
	return false
}
