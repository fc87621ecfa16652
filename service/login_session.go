package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/aegis-iam/aegis/engine/audit"
	"github.com/aegis-iam/aegis/engine/authn"
	aegis_errors "github.com/aegis-iam/aegis/engine/errors"
	logger "github.com/aegis-iam/aegis/engine/logging"
	"github.com/aegis-iam/aegis/engine/model"
)

// LoginSession wraps one authentication state machine and performs the
// effectful follow-up the engine itself must not: event publication and
// audit appends for every transition outcome.
type LoginSession struct {
	sm  *authn.StateMachine
	svc *AccessService
}

// State returns the session's position in the authentication flow.
func (ls *LoginSession) State() authn.State {
	return ls.sm.State()
}

// Subject returns the authenticated subject, or nil before the session
// reaches Authenticated.
func (ls *LoginSession) Subject() *model.Subject {
	return ls.sm.Subject()
}

// SubmitCredentials forwards to the state machine and records the
// outcome. A failure that tips the subject over the lockout threshold
// additionally produces a lockout event.
func (ls *LoginSession) SubmitCredentials(ctx context.Context, username, password, captchaAnswer string) (authn.State, error) {
	state, err := ls.sm.SubmitCredentials(ctx, username, password, captchaAnswer)
	if err == nil {
		if state == authn.StateAuthenticated {
			ls.recordAuth(ctx, audit.EventAuthenticated, ls.sm.Subject().ID, "credentials accepted")
		}
		return state, nil
	}

	var authErr *aegis_errors.AuthenticationError
	if errors.As(err, &authErr) {
		ls.recordAuth(ctx, audit.EventAuthFailed, username, authErr.Error())
		// A bad-password failure may just have locked the account;
		// subsequent attempts surface LockedAccountError instead, so
		// a locked subject here marks the transition itself.
		if subject, ferr := ls.svc.subjects.FindByUsername(ctx, username); ferr == nil && subject.LockState {
			ls.publishLockout(ctx, subject.ID)
		}
		return state, err
	}

	var lockErr *aegis_errors.LockedAccountError
	if errors.As(err, &lockErr) {
		ls.recordAuth(ctx, audit.EventAuthFailed, lockErr.SubjectID, "attempt against locked account")
	}
	return state, err
}

// SubmitSecondFactor forwards to the state machine and records the
// outcome, publishing a lockout event when the failed token locks the
// account.
func (ls *LoginSession) SubmitSecondFactor(ctx context.Context, token string) (authn.State, error) {
	before := ls.sm.State()
	state, err := ls.sm.SubmitSecondFactor(ctx, token)
	if err == nil {
		ls.recordAuth(ctx, audit.EventAuthenticated, ls.sm.Subject().ID, "second factor accepted")
		return state, nil
	}

	var lockErr *aegis_errors.LockedAccountError
	if errors.As(err, &lockErr) {
		ls.recordAuth(ctx, audit.EventAuthFailed, lockErr.SubjectID, "bad second factor")
		if before != authn.StateLocked && state == authn.StateLocked {
			ls.publishLockout(ctx, lockErr.SubjectID)
		}
		return state, err
	}

	var authErr *aegis_errors.AuthenticationError
	if errors.As(err, &authErr) {
		ls.recordAuth(ctx, audit.EventAuthFailed, authErr.Username, authErr.Error())
	}
	return state, err
}

func (ls *LoginSession) recordAuth(ctx context.Context, event, subjectID, reason string) {
	record := audit.AuditLog{
		Timestamp:     time.Now(),
		Event:         event,
		SubjectID:     subjectID,
		AccessGranted: event == audit.EventAuthenticated,
		Reason:        reason,
	}
	if err := ls.svc.auditSvc.LogAccess(ctx, record); err != nil {
		logger.Error("Failed to append auth audit record", zap.Error(err), zap.String("subjectID", subjectID))
	}
}

func (ls *LoginSession) publishLockout(ctx context.Context, subjectID string) {
	logger.Warn("Account locked after repeated failures", zap.String("subjectID", subjectID))
	ls.svc.eventBus.Publish(ctx, audit.EventLockout, audit.AuditLog{
		Timestamp: time.Now(),
		Event:     audit.EventLockout,
		SubjectID: subjectID,
		Reason:    "failure threshold reached",
	})
}
