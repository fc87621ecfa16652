package engine

import (
	"time"

	"github.com/aegis-iam/aegis/engine/model"
	pdp_model "github.com/aegis-iam/aegis/engine/pdp/model"
)

// PolicyEvaluator renders a single allow/deny verdict by composing five
// independently-toggleable access models. It is stateless and safe for
// concurrent use; Evaluate never mutates its inputs.
//
// The models run in a fixed order: MAC, ABAC, RBAC, RuBAC, DAC. Each
// enabled model may short-circuit with a deny; only the first failing
// model is reported even when later models would also deny. If no
// enabled model denies, the request is granted.
type PolicyEvaluator struct {
	now func() time.Time
}

// NewPolicyEvaluator returns an evaluator whose rule-based model reads
// the wall clock.
func NewPolicyEvaluator() *PolicyEvaluator {
	return &PolicyEvaluator{now: time.Now}
}

// NewPolicyEvaluatorWithClock returns an evaluator with an injected
// clock, keeping time-dependent evaluation deterministic under test.
func NewPolicyEvaluatorWithClock(now func() time.Time) *PolicyEvaluator {
	return &PolicyEvaluator{now: now}
}

// Evaluate combines the enabled models into one Decision. It is pure
// apart from the clock read performed by the rule-based model, and it
// is deterministic for a fixed clock.
func (pe *PolicyEvaluator) Evaluate(subject model.Subject, resource model.Resource, cfg model.PolicyConfig) pdp_model.Decision {
	if cfg.EnableMAC {
		if d, denied := evaluateMAC(subject, resource); denied {
			return d
		}
	}
	if cfg.EnableABAC {
		if d, denied := evaluateABAC(subject, resource); denied {
			return d
		}
	}
	if cfg.EnableRBAC {
		if d, denied := evaluateRBAC(subject, resource); denied {
			return d
		}
	}
	if cfg.EnableRuBAC {
		if d, denied := pe.evaluateRuBAC(subject, cfg); denied {
			return d
		}
	}
	if cfg.EnableDAC {
		if d, denied := evaluateDAC(subject, resource); denied {
			return d
		}
	}
	return pdp_model.Granted()
}

// evaluateMAC gates on the ordinal comparison of clearance against
// classification. Equality is sufficient; only a strictly lower
// clearance denies.
func evaluateMAC(subject model.Subject, resource model.Resource) (pdp_model.Decision, bool) {
	if subject.ClearanceLevel < resource.Classification {
		return pdp_model.Denied(pdp_model.ModelMAC,
			"clearance %s is below classification %s",
			subject.ClearanceLevel, resource.Classification), true
	}
	return pdp_model.Decision{}, false
}

// evaluateABAC gates on department match. PUBLIC resources are exempt
// from the department check, and ADMIN bypasses it entirely.
func evaluateABAC(subject model.Subject, resource model.Resource) (pdp_model.Decision, bool) {
	if subject.Role != model.RoleAdmin &&
		subject.Department != resource.Department &&
		resource.Classification > model.LevelPublic {
		return pdp_model.Denied(pdp_model.ModelABAC,
			"department %s does not match resource department %s",
			subject.Department, resource.Department), true
	}
	return pdp_model.Decision{}, false
}

// evaluateRBAC gates role against classification: TOP_SECRET is
// admin-only, and STAFF stops at INTERNAL.
func evaluateRBAC(subject model.Subject, resource model.Resource) (pdp_model.Decision, bool) {
	if resource.Classification == model.LevelTopSecret && subject.Role != model.RoleAdmin {
		return pdp_model.Denied(pdp_model.ModelRBAC,
			"role %s may not access TOP_SECRET resources", subject.Role), true
	}
	if resource.Classification >= model.LevelConfidential && subject.Role == model.RoleStaff {
		return pdp_model.Denied(pdp_model.ModelRBAC,
			"role STAFF may not access %s resources", resource.Classification), true
	}
	return pdp_model.Decision{}, false
}

// evaluateRuBAC gates on the configured working-hour window. ADMIN
// bypasses the window unconditionally. The window is a literal
// half-open interval [start, end); a start past end admits no hour.
func (pe *PolicyEvaluator) evaluateRuBAC(subject model.Subject, cfg model.PolicyConfig) (pdp_model.Decision, bool) {
	if subject.Role == model.RoleAdmin {
		return pdp_model.Decision{}, false
	}
	hour := pe.now().Hour()
	if hour < cfg.WorkingHoursStart || hour >= cfg.WorkingHoursEnd {
		return pdp_model.Denied(pdp_model.ModelRuBAC,
			"access outside working hours [%02d:00, %02d:00)",
			cfg.WorkingHoursStart, cfg.WorkingHoursEnd), true
	}
	return pdp_model.Decision{}, false
}

// evaluateDAC grants on ownership, explicit sharing, the ADMIN role, or
// a manager reaching into their own department. PUBLIC resources need
// no grant at all.
func evaluateDAC(subject model.Subject, resource model.Resource) (pdp_model.Decision, bool) {
	if subject.ID == resource.OwnerID {
		return pdp_model.Decision{}, false
	}
	if resource.SharedWithSubject(subject.ID) {
		return pdp_model.Decision{}, false
	}
	if subject.Role == model.RoleAdmin {
		return pdp_model.Decision{}, false
	}
	if subject.Role == model.RoleManager && subject.Department == resource.Department {
		return pdp_model.Decision{}, false
	}
	if resource.Classification > model.LevelPublic {
		return pdp_model.Denied(pdp_model.ModelDAC,
			"subject %s is neither owner of %s nor granted access",
			subject.ID, resource.ID), true
	}
	return pdp_model.Decision{}, false
}
