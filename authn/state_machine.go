package authn

import (
	"context"
	"sync"

	"github.com/aegis-iam/aegis/engine/credential"
	aegis_errors "github.com/aegis-iam/aegis/engine/errors"
	"github.com/aegis-iam/aegis/engine/model"
	"github.com/aegis-iam/aegis/engine/registry"
)

// DefaultLockThreshold is the number of consecutive failures after
// which an account locks.
const DefaultLockThreshold = 3

// State is the position of one login attempt in the authentication
// flow.
type State int

const (
	StateAwaitingCredentials State = iota
	StateAwaitingSecondFactor
	StateAuthenticated
	StateLocked
)

func (s State) String() string {
	switch s {
	case StateAwaitingCredentials:
		return "AwaitingCredentials"
	case StateAwaitingSecondFactor:
		return "AwaitingSecondFactor"
	case StateAuthenticated:
		return "Authenticated"
	case StateLocked:
		return "Locked"
	default:
		return "Unknown"
	}
}

// CaptchaVerifier checks the auxiliary captcha answer supplied with a
// credential submission. Puzzle generation belongs to the caller, which
// must present a fresh puzzle per attempt.
type CaptchaVerifier interface {
	VerifyCaptcha(answer string) bool
}

// ExpectedAnswerVerifier accepts a single expected answer. It exists
// for wiring and tests; real deployments inject their own verifier.
type ExpectedAnswerVerifier struct {
	Expected string
}

func (v ExpectedAnswerVerifier) VerifyCaptcha(answer string) bool {
	return answer == v.Expected
}

// StateMachine drives one login attempt from AwaitingCredentials
// through an optional second factor to Authenticated, locking the
// account after repeated failures. Counter updates go through the
// subject registry's atomic update operation, so concurrent attempts
// against the same subject still produce a monotone counter and a
// single lock transition.
//
// A StateMachine instance represents one session; methods on it are
// serialized by an internal mutex.
type StateMachine struct {
	subjects      registry.SubjectRegistry
	hasher        *credential.Hasher
	secondFactor  credential.SecondFactorVerifier
	captcha       CaptchaVerifier
	lockThreshold int

	mu      sync.Mutex
	state   State
	pending *model.Subject
}

// NewStateMachine wires a state machine over the given collaborators.
// A lockThreshold below 1 falls back to the default.
func NewStateMachine(subjects registry.SubjectRegistry, hasher *credential.Hasher, secondFactor credential.SecondFactorVerifier, captcha CaptchaVerifier, lockThreshold int) *StateMachine {
	if lockThreshold < 1 {
		lockThreshold = DefaultLockThreshold
	}
	return &StateMachine{
		subjects:      subjects,
		hasher:        hasher,
		secondFactor:  secondFactor,
		captcha:       captcha,
		lockThreshold: lockThreshold,
		state:         StateAwaitingCredentials,
	}
}

// State returns the current position in the flow.
func (sm *StateMachine) State() State {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.state
}

// Subject returns the authenticated subject, or nil before the flow
// reaches Authenticated.
func (sm *StateMachine) Subject() *model.Subject {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.state != StateAuthenticated {
		return nil
	}
	out := *sm.pending
	return &out
}

// SubmitCredentials runs the first transition. The captcha is checked
// before anything else, and a locked account is rejected before the
// password comparison so lock status never reveals credential
// correctness. A password mismatch increments the subject's failure
// counter and re-derives the lock state atomically.
func (sm *StateMachine) SubmitCredentials(ctx context.Context, username, password, captchaAnswer string) (State, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.state != StateAwaitingCredentials {
		return sm.state, &aegis_errors.ValidationError{Field: "state", Detail: "credentials already submitted"}
	}
	if !sm.captcha.VerifyCaptcha(captchaAnswer) {
		return sm.state, &aegis_errors.ValidationError{Field: "captcha", Detail: "incorrect captcha answer"}
	}

	subject, err := sm.subjects.FindByUsername(ctx, username)
	if err != nil {
		return sm.state, &aegis_errors.AuthenticationError{Username: username, Cause: aegis_errors.ErrUnknownUser}
	}
	if subject.LockState {
		return sm.state, &aegis_errors.LockedAccountError{SubjectID: subject.ID}
	}

	if !sm.hasher.Verify(password, subject.CredentialDigest) {
		if _, uerr := sm.recordFailure(ctx, subject.ID); uerr != nil {
			return sm.state, uerr
		}
		return sm.state, &aegis_errors.AuthenticationError{Username: username, Cause: aegis_errors.ErrBadPassword}
	}

	if subject.MFAEnabled {
		sm.pending = subject
		sm.state = StateAwaitingSecondFactor
		return sm.state, nil
	}

	updated, err := sm.recordSuccess(ctx, subject.ID)
	if err != nil {
		return sm.state, err
	}
	sm.pending = updated
	sm.state = StateAuthenticated
	return sm.state, nil
}

// SubmitSecondFactor runs the second transition. A correct token
// clears the failure counter and authenticates; an incorrect one
// increments it, leaving the flow in AwaitingSecondFactor unless the
// increment locked the account.
func (sm *StateMachine) SubmitSecondFactor(ctx context.Context, token string) (State, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	switch sm.state {
	case StateAwaitingSecondFactor:
	case StateLocked:
		return sm.state, &aegis_errors.LockedAccountError{SubjectID: sm.pending.ID}
	default:
		return sm.state, &aegis_errors.ValidationError{Field: "state", Detail: "no second factor expected"}
	}

	if !sm.secondFactor.VerifyToken(sm.pending.ID, token) {
		updated, uerr := sm.recordFailure(ctx, sm.pending.ID)
		if uerr != nil {
			return sm.state, uerr
		}
		if updated.LockState {
			sm.state = StateLocked
			return sm.state, &aegis_errors.LockedAccountError{SubjectID: sm.pending.ID}
		}
		return sm.state, &aegis_errors.AuthenticationError{Username: sm.pending.Username, Cause: aegis_errors.ErrBadSecondFactor}
	}

	updated, err := sm.recordSuccess(ctx, sm.pending.ID)
	if err != nil {
		return sm.state, err
	}
	sm.pending = updated
	sm.state = StateAuthenticated
	return sm.state, nil
}

// AdminUnlock clears the failure counter and lock state of a subject.
// Only an ADMIN actor may call it; there is no time-based unlock.
func AdminUnlock(ctx context.Context, subjects registry.SubjectRegistry, actorID, subjectID string) error {
	actor, err := subjects.GetSubject(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != model.RoleAdmin {
		return &aegis_errors.PrivilegeError{ActorID: actorID, Operation: "admin unlock"}
	}
	_, err = subjects.UpdateSubject(ctx, subjectID, func(s *model.Subject) error {
		s.FailureCount = 0
		s.LockState = false
		return nil
	})
	return err
}

func (sm *StateMachine) recordFailure(ctx context.Context, subjectID string) (*model.Subject, error) {
	return sm.subjects.UpdateSubject(ctx, subjectID, func(s *model.Subject) error {
		s.FailureCount++
		if s.FailureCount >= sm.lockThreshold {
			s.LockState = true
		}
		return nil
	})
}

func (sm *StateMachine) recordSuccess(ctx context.Context, subjectID string) (*model.Subject, error) {
	return sm.subjects.UpdateSubject(ctx, subjectID, func(s *model.Subject) error {
		s.FailureCount = 0
		return nil
	})
}
