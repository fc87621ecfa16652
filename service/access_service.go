package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/aegis-iam/aegis/engine/audit"
	"github.com/aegis-iam/aegis/engine/authn"
	"github.com/aegis-iam/aegis/engine/credential"
	aegis_errors "github.com/aegis-iam/aegis/engine/errors"
	logger "github.com/aegis-iam/aegis/engine/logging"
	"github.com/aegis-iam/aegis/engine/model"
	"github.com/aegis-iam/aegis/engine/pdp/engine"
	pdp_model "github.com/aegis-iam/aegis/engine/pdp/model"
	"github.com/aegis-iam/aegis/engine/registry"
	"github.com/aegis-iam/aegis/engine/util"
)

// IAccessService is the application-facing boundary around the engine:
// authentication sessions, access requests, sharing and administrative
// updates. The decision and state-transition machinery underneath stays
// pure; the service owns the audit append and event publication that
// follow each outcome.
type IAccessService interface {
	NewLogin() *LoginSession
	RegisterSubject(ctx context.Context, actorID string, subject model.Subject, password string) error
	RequestAccess(ctx context.Context, subjectID, resourceID string) (pdp_model.Decision, error)
	ShareResource(ctx context.Context, actorID, resourceID, granteeID string) error
	UpdateSubjectAttributes(ctx context.Context, actorID, subjectID string, role model.Role, department model.Department, clearance model.Level) error
	AdminUnlock(ctx context.Context, actorID, subjectID string) error
}

// AccessService composes the authentication state machine, the policy
// evaluator and the registries, and records every outcome on the audit
// trail.
type AccessService struct {
	subjects     registry.SubjectRegistry
	resources    registry.ResourceRegistry
	evaluator    *engine.PolicyEvaluator
	policy       model.PolicyConfig
	hasher       *credential.Hasher
	secondFactor credential.SecondFactorVerifier
	captcha      authn.CaptchaVerifier
	lockLimit    int
	auditSvc     audit.Service
	eventBus     *util.EventBus
	validation   *util.ValidationUtil
}

var _ IAccessService = &AccessService{}

// NewAccessService creates a new instance of AccessService and wires
// the audit trail onto the event bus.
func NewAccessService(
	subjects registry.SubjectRegistry,
	resources registry.ResourceRegistry,
	evaluator *engine.PolicyEvaluator,
	policy model.PolicyConfig,
	hasher *credential.Hasher,
	secondFactor credential.SecondFactorVerifier,
	captcha authn.CaptchaVerifier,
	lockLimit int,
	auditSvc audit.Service,
	eventBus *util.EventBus,
) *AccessService {
	service := &AccessService{
		subjects:     subjects,
		resources:    resources,
		evaluator:    evaluator,
		policy:       policy,
		hasher:       hasher,
		secondFactor: secondFactor,
		captcha:      captcha,
		lockLimit:    lockLimit,
		auditSvc:     auditSvc,
		eventBus:     eventBus,
		validation:   util.NewValidationUtil(),
	}

	eventBus.Subscribe(audit.EventLockout, service.handleAuditEvent)
	eventBus.Subscribe(audit.EventShared, service.handleAuditEvent)
	eventBus.Subscribe(audit.EventAdminUnlock, service.handleAuditEvent)

	return service
}

func (s *AccessService) handleAuditEvent(ctx context.Context, event util.Event) error {
	record, ok := event.Payload.(audit.AuditLog)
	if !ok {
		return nil
	}
	if err := s.auditSvc.LogAccess(ctx, record); err != nil {
		logger.Error("Failed to append audit record", zap.Error(err), zap.String("event", event.Type))
		return err
	}
	return nil
}

// NewLogin opens a fresh authentication session. The session publishes
// auth events and appends audit records around the pure state-machine
// transitions.
func (s *AccessService) NewLogin() *LoginSession {
	return &LoginSession{
		sm:  authn.NewStateMachine(s.subjects, s.hasher, s.secondFactor, s.captcha, s.lockLimit),
		svc: s,
	}
}

// RegisterSubject validates and stores a new subject with the digest
// of the given password. ADMIN only; the password must satisfy the
// strength policy.
func (s *AccessService) RegisterSubject(ctx context.Context, actorID string, subject model.Subject, password string) error {
	actor, err := s.subjects.GetSubject(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != model.RoleAdmin {
		return &aegis_errors.PrivilegeError{ActorID: actorID, Operation: "register subject"}
	}
	if err := s.validation.ValidateSubject(subject); err != nil {
		return err
	}
	if err := credential.ValidateStrength(password); err != nil {
		return &aegis_errors.ValidationError{Field: "password", Detail: err.Error()}
	}

	subject.CredentialDigest = s.hasher.Hash(password)
	if err := s.subjects.CreateSubject(ctx, subject); err != nil {
		return err
	}
	logger.Info("Subject registered",
		zap.String("subjectID", subject.ID),
		zap.String("role", string(subject.Role)),
		zap.String("department", string(subject.Department)))
	return nil
}

// RequestAccess loads the subject and resource, runs the evaluator and
// appends the decision to the audit trail. A locked subject is refused
// before evaluation. The Decision itself is a normal return value,
// never an error.
func (s *AccessService) RequestAccess(ctx context.Context, subjectID, resourceID string) (pdp_model.Decision, error) {
	subject, err := s.subjects.GetSubject(ctx, subjectID)
	if err != nil {
		return pdp_model.Decision{}, err
	}
	if subject.LockState {
		return pdp_model.Decision{}, &aegis_errors.LockedAccountError{SubjectID: subjectID}
	}
	resource, err := s.resources.GetResource(ctx, resourceID)
	if err != nil {
		return pdp_model.Decision{}, err
	}

	decision := s.evaluator.Evaluate(*subject, *resource, s.policy)

	event := audit.EventAccessDenied
	if decision.Allowed {
		event = audit.EventAccessGranted
	}
	record := audit.AuditLog{
		Timestamp:     time.Now(),
		Event:         event,
		SubjectID:     subjectID,
		ResourceID:    resourceID,
		AccessGranted: decision.Allowed,
		Model:         decision.Model,
		Reason:        decision.Reason,
	}
	if err := s.auditSvc.LogAccess(ctx, record); err != nil {
		logger.Error("Failed to append access audit record",
			zap.Error(err), zap.String("subjectID", subjectID), zap.String("resourceID", resourceID))
	}
	s.eventBus.Publish(ctx, event, record)

	logger.Info("Access decision rendered",
		zap.String("subjectID", subjectID),
		zap.String("resourceID", resourceID),
		zap.Bool("allowed", decision.Allowed),
		zap.String("reason", decision.Reason))
	return decision, nil
}

// ShareResource adds granteeID to the resource's sharedWith set. Only
// the owner or an ADMIN may share; the grantee must exist.
func (s *AccessService) ShareResource(ctx context.Context, actorID, resourceID, granteeID string) error {
	actor, err := s.subjects.GetSubject(ctx, actorID)
	if err != nil {
		return err
	}
	resource, err := s.resources.GetResource(ctx, resourceID)
	if err != nil {
		return err
	}
	if actor.ID != resource.OwnerID && actor.Role != model.RoleAdmin {
		return &aegis_errors.PrivilegeError{ActorID: actorID, Operation: "share resource"}
	}
	if _, err := s.subjects.GetSubject(ctx, granteeID); err != nil {
		return err
	}
	if _, err := s.resources.Share(ctx, resourceID, granteeID); err != nil {
		return err
	}

	s.eventBus.Publish(ctx, audit.EventShared, audit.AuditLog{
		Timestamp:  time.Now(),
		Event:      audit.EventShared,
		SubjectID:  actorID,
		ResourceID: resourceID,
		Reason:     "shared with " + granteeID,
	})
	logger.Info("Resource shared",
		zap.String("resourceID", resourceID),
		zap.String("actorID", actorID),
		zap.String("granteeID", granteeID))
	return nil
}

// UpdateSubjectAttributes is the administrative update operation for
// role, department and clearance. ADMIN only.
func (s *AccessService) UpdateSubjectAttributes(ctx context.Context, actorID, subjectID string, role model.Role, department model.Department, clearance model.Level) error {
	actor, err := s.subjects.GetSubject(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != model.RoleAdmin {
		return &aegis_errors.PrivilegeError{ActorID: actorID, Operation: "update subject attributes"}
	}

	updated, err := s.subjects.UpdateSubject(ctx, subjectID, func(sub *model.Subject) error {
		sub.Role = role
		sub.Department = department
		sub.ClearanceLevel = clearance
		return s.validation.ValidateSubject(*sub)
	})
	if err != nil {
		return err
	}
	logger.Info("Subject attributes updated",
		zap.String("subjectID", updated.ID),
		zap.String("role", string(updated.Role)),
		zap.String("department", string(updated.Department)),
		zap.String("clearance", updated.ClearanceLevel.String()))
	return nil
}

// AdminUnlock clears a subject's lockout on behalf of an ADMIN actor
// and records the intervention.
func (s *AccessService) AdminUnlock(ctx context.Context, actorID, subjectID string) error {
	if err := authn.AdminUnlock(ctx, s.subjects, actorID, subjectID); err != nil {
		var pe *aegis_errors.PrivilegeError
		if errors.As(err, &pe) {
			logger.Warn("Unlock refused for non-admin actor",
				zap.String("actorID", actorID), zap.String("subjectID", subjectID))
		}
		return err
	}
	s.eventBus.Publish(ctx, audit.EventAdminUnlock, audit.AuditLog{
		Timestamp: time.Now(),
		Event:     audit.EventAdminUnlock,
		SubjectID: subjectID,
		Reason:    "unlocked by " + actorID,
	})
	logger.Info("Account unlocked", zap.String("subjectID", subjectID), zap.String("actorID", actorID))
	return nil
}
