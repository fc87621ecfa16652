package model

import "fmt"

// Names of the access models, used to attribute a denial to exactly
// one model.
const (
	ModelMAC   = "MAC"
	ModelDAC   = "DAC"
	ModelRBAC  = "RBAC"
	ModelABAC  = "ABAC"
	ModelRuBAC = "RuBAC"
)

// ReasonGranted is the fixed reason carried by every allow decision.
const ReasonGranted = "granted"

// Decision is the engine's verdict. It is a value type and is never
// mutated after creation. When Allowed is false, Model names the single
// access model that produced the denial and Reason is a human-auditable
// explanation; when Allowed is true, Model is empty and Reason is
// ReasonGranted.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Model   string `json:"model,omitempty"`
	Reason  string `json:"reason"`
}

// Granted is the sole allow decision.
func Granted() Decision {
	return Decision{Allowed: true, Reason: ReasonGranted}
}

// Denied builds a deny decision attributed to the given model.
func Denied(model, format string, args ...interface{}) Decision {
	return Decision{
		Allowed: false,
		Model:   model,
		Reason:  fmt.Sprintf("%s: %s", model, fmt.Sprintf(format, args...)),
	}
}
