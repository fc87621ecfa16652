package model

// PolicyConfig toggles the five access models independently and carries
// the working-hour window used by the rule-based model. It is immutable
// for the duration of one evaluation; callers construct a fresh value
// to change policy.
//
// The window [WorkingHoursStart, WorkingHoursEnd) is a half-open hour
// interval. A window with start > end (intended to wrap past midnight)
// is not given wrap-around semantics; the literal interval check runs
// as written and such a window admits no hour at all.
type PolicyConfig struct {
	EnableMAC   bool `json:"enable_mac"`
	EnableDAC   bool `json:"enable_dac"`
	EnableRBAC  bool `json:"enable_rbac"`
	EnableABAC  bool `json:"enable_abac"`
	EnableRuBAC bool `json:"enable_rubac"`

	WorkingHoursStart int `json:"working_hours_start" validate:"min=0,max=23"`
	WorkingHoursEnd   int `json:"working_hours_end" validate:"min=0,max=23"`
}

// AllEnabled returns the strictest configuration: every model on, with
// the given working-hour window.
func AllEnabled(startHour, endHour int) PolicyConfig {
	return PolicyConfig{
		EnableMAC:         true,
		EnableDAC:         true,
		EnableRBAC:        true,
		EnableABAC:        true,
		EnableRuBAC:       true,
		WorkingHoursStart: startHour,
		WorkingHoursEnd:   endHour,
	}
}
