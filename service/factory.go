package service

import (
	"github.com/aegis-iam/aegis/engine/audit"
	"github.com/aegis-iam/aegis/engine/authn"
	"github.com/aegis-iam/aegis/engine/config"
	"github.com/aegis-iam/aegis/engine/credential"
	"github.com/aegis-iam/aegis/engine/pdp/engine"
	"github.com/aegis-iam/aegis/engine/registry"
	"github.com/aegis-iam/aegis/engine/util"
)

// MFA mode names accepted in configuration.
const (
	MFAModeStatic = "static"
	MFAModeTOTP   = "totp"
)

// NewAccessServiceFromConfig assembles the full engine from loaded
// configuration: pepper-configured hasher, config-selected second
// factor, bounded in-memory audit trail, wall-clock evaluator. Pass a
// non-nil secondFactor to override the configured mode, for example a
// TOTP verifier with pre-enrolled subjects.
func NewAccessServiceFromConfig(
	cfg *config.Configuration,
	subjects registry.SubjectRegistry,
	resources registry.ResourceRegistry,
	captcha authn.CaptchaVerifier,
	secondFactor credential.SecondFactorVerifier,
	eventBus *util.EventBus,
) *AccessService {
	if secondFactor == nil {
		switch cfg.Security.MFAMode {
		case MFAModeTOTP:
			secondFactor = credential.NewTOTPVerifier()
		default:
			secondFactor = credential.NewStaticTokenVerifier(cfg.Security.StaticToken)
		}
	}

	return NewAccessService(
		subjects,
		resources,
		engine.NewPolicyEvaluator(),
		cfg.PolicyConfig(),
		credential.NewHasherWithPepper(cfg.Security.Pepper),
		secondFactor,
		captcha,
		cfg.Security.LockThreshold,
		audit.NewService(audit.NewInMemoryRepository(cfg.Audit.Retention)),
		eventBus,
	)
}
