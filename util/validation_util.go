package util

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/aegis-iam/aegis/engine/model"
)

// ValidationUtil checks subjects, resources and policy configs at the
// registry boundary. An unrecognized role or department is a caller
// programming error, so it is rejected here before it can reach the
// evaluator.
type ValidationUtil struct {
	validate *validator.Validate
}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{validate: validator.New()}
}

func (v *ValidationUtil) ValidateSubject(subject model.Subject) error {
	if err := v.validate.Struct(subject); err != nil {
		return fmt.Errorf("invalid subject %q: %w", subject.ID, err)
	}
	if subject.LockState && subject.FailureCount == 0 {
		// AdminUnlock clears the counter and the lock together; a
		// locked subject with a reset counter cannot occur.
		return fmt.Errorf("invalid subject %q: lock state inconsistent with failure count", subject.ID)
	}
	return nil
}

func (v *ValidationUtil) ValidateResource(resource model.Resource) error {
	if err := v.validate.Struct(resource); err != nil {
		return fmt.Errorf("invalid resource %q: %w", resource.ID, err)
	}
	return nil
}

func (v *ValidationUtil) ValidatePolicyConfig(cfg model.PolicyConfig) error {
	if err := v.validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid policy config: %w", err)
	}
	return nil
}
