package authn_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-iam/aegis/engine/authn"
	"github.com/aegis-iam/aegis/engine/credential"
	aegis_errors "github.com/aegis-iam/aegis/engine/errors"
	"github.com/aegis-iam/aegis/engine/model"
	"github.com/aegis-iam/aegis/engine/registry"
)

const (
	testPassword = "Str0ng!pass"
	testCaptcha  = "7"
	testToken    = "246810"
)

func newFixture(t *testing.T, mfa bool) (*registry.InMemorySubjectRegistry, *authn.StateMachine, *credential.Hasher) {
	t.Helper()
	subjects := registry.NewInMemorySubjectRegistry()
	hasher := credential.NewHasher()

	require.NoError(t, subjects.CreateSubject(context.Background(), model.Subject{
		ID:               "u-1",
		Username:         "alice",
		Role:             model.RoleStaff,
		Department:       model.DepartmentIT,
		ClearanceLevel:   model.LevelInternal,
		CredentialDigest: hasher.Hash(testPassword),
		MFAEnabled:       mfa,
	}))
	require.NoError(t, subjects.CreateSubject(context.Background(), model.Subject{
		ID:               "u-admin",
		Username:         "root",
		Role:             model.RoleAdmin,
		Department:       model.DepartmentIT,
		ClearanceLevel:   model.LevelTopSecret,
		CredentialDigest: hasher.Hash(testPassword),
	}))

	sm := authn.NewStateMachine(subjects,
		hasher,
		credential.NewStaticTokenVerifier(testToken),
		authn.ExpectedAnswerVerifier{Expected: testCaptcha},
		authn.DefaultLockThreshold)
	return subjects, sm, hasher
}

func getSubject(t *testing.T, subjects *registry.InMemorySubjectRegistry, id string) *model.Subject {
	t.Helper()
	s, err := subjects.GetSubject(context.Background(), id)
	require.NoError(t, err)
	return s
}

func TestSubmitCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("WrongCaptcha", func(t *testing.T) {
		_, sm, _ := newFixture(t, false)
		state, err := sm.SubmitCredentials(ctx, "alice", testPassword, "wrong")

		var verr *aegis_errors.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, authn.StateAwaitingCredentials, state)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, sm, _ := newFixture(t, false)
		_, err := sm.SubmitCredentials(ctx, "nobody", testPassword, testCaptcha)

		var aerr *aegis_errors.AuthenticationError
		assert.ErrorAs(t, err, &aerr)
		assert.ErrorIs(t, err, aegis_errors.ErrUnknownUser)
	})

	t.Run("DirectAuthenticationWithoutMFA", func(t *testing.T) {
		_, sm, _ := newFixture(t, false)
		state, err := sm.SubmitCredentials(ctx, "alice", testPassword, testCaptcha)

		require.NoError(t, err)
		assert.Equal(t, authn.StateAuthenticated, state)
		require.NotNil(t, sm.Subject())
		assert.Equal(t, "u-1", sm.Subject().ID)
	})

	t.Run("MFARoutesToSecondFactor", func(t *testing.T) {
		_, sm, _ := newFixture(t, true)
		state, err := sm.SubmitCredentials(ctx, "alice", testPassword, testCaptcha)

		require.NoError(t, err)
		assert.Equal(t, authn.StateAwaitingSecondFactor, state)
		assert.Nil(t, sm.Subject())
	})

	t.Run("BadPasswordIncrementsFailureCount", func(t *testing.T) {
		subjects, sm, _ := newFixture(t, false)
		_, err := sm.SubmitCredentials(ctx, "alice", "nope", testCaptcha)

		assert.ErrorIs(t, err, aegis_errors.ErrBadPassword)
		s := getSubject(t, subjects, "u-1")
		assert.Equal(t, 1, s.FailureCount)
		assert.False(t, s.LockState)
	})

	t.Run("SuccessResetsFailureCount", func(t *testing.T) {
		subjects, _, _ := newFixture(t, false)
		for i := 0; i < 2; i++ {
			sm := authn.NewStateMachine(subjects, credential.NewHasher(),
				credential.NewStaticTokenVerifier(testToken),
				authn.ExpectedAnswerVerifier{Expected: testCaptcha}, authn.DefaultLockThreshold)
			_, err := sm.SubmitCredentials(ctx, "alice", "nope", testCaptcha)
			assert.Error(t, err)
		}
		assert.Equal(t, 2, getSubject(t, subjects, "u-1").FailureCount)

		sm := authn.NewStateMachine(subjects, credential.NewHasher(),
			credential.NewStaticTokenVerifier(testToken),
			authn.ExpectedAnswerVerifier{Expected: testCaptcha}, authn.DefaultLockThreshold)
		state, err := sm.SubmitCredentials(ctx, "alice", testPassword, testCaptcha)
		require.NoError(t, err)
		assert.Equal(t, authn.StateAuthenticated, state)
		assert.Equal(t, 0, getSubject(t, subjects, "u-1").FailureCount)
	})
}

func TestLockout(t *testing.T) {
	ctx := context.Background()

	t.Run("ThreeBadPasswordsLockTheAccount", func(t *testing.T) {
		subjects, _, _ := newFixture(t, false)
		for i := 0; i < 3; i++ {
			sm := authn.NewStateMachine(subjects, credential.NewHasher(),
				credential.NewStaticTokenVerifier(testToken),
				authn.ExpectedAnswerVerifier{Expected: testCaptcha}, authn.DefaultLockThreshold)
			_, err := sm.SubmitCredentials(ctx, "alice", "nope", testCaptcha)
			assert.ErrorIs(t, err, aegis_errors.ErrBadPassword)
		}

		s := getSubject(t, subjects, "u-1")
		assert.Equal(t, 3, s.FailureCount)
		assert.True(t, s.LockState)
	})

	t.Run("LockedAccountRejectedBeforePasswordCheck", func(t *testing.T) {
		subjects, _, _ := newFixture(t, false)
		_, err := subjects.UpdateSubject(ctx, "u-1", func(s *model.Subject) error {
			s.FailureCount = 3
			s.LockState = true
			return nil
		})
		require.NoError(t, err)

		// The correct password draws the same error as a wrong one.
		for _, password := range []string{testPassword, "nope"} {
			sm := authn.NewStateMachine(subjects, credential.NewHasher(),
				credential.NewStaticTokenVerifier(testToken),
				authn.ExpectedAnswerVerifier{Expected: testCaptcha}, authn.DefaultLockThreshold)
			_, err := sm.SubmitCredentials(ctx, "alice", password, testCaptcha)

			var lerr *aegis_errors.LockedAccountError
			assert.ErrorAs(t, err, &lerr)
		}
		// The probes above never touched the counter.
		assert.Equal(t, 3, getSubject(t, subjects, "u-1").FailureCount)
	})

	t.Run("SecondFactorFailuresCountTowardLock", func(t *testing.T) {
		subjects, sm, _ := newFixture(t, true)
		state, err := sm.SubmitCredentials(ctx, "alice", testPassword, testCaptcha)
		require.NoError(t, err)
		require.Equal(t, authn.StateAwaitingSecondFactor, state)

		for i := 0; i < 2; i++ {
			state, err = sm.SubmitSecondFactor(ctx, "000000")
			assert.ErrorIs(t, err, aegis_errors.ErrBadSecondFactor)
			assert.Equal(t, authn.StateAwaitingSecondFactor, state)
		}

		state, err = sm.SubmitSecondFactor(ctx, "000000")
		var lerr *aegis_errors.LockedAccountError
		assert.ErrorAs(t, err, &lerr)
		assert.Equal(t, authn.StateLocked, state)
		assert.True(t, getSubject(t, subjects, "u-1").LockState)

		// Locked sessions refuse further tokens, even correct ones.
		_, err = sm.SubmitSecondFactor(ctx, testToken)
		assert.ErrorAs(t, err, &lerr)
	})
}

func TestSubmitSecondFactor(t *testing.T) {
	ctx := context.Background()

	t.Run("CorrectTokenAuthenticatesAndResetsCounter", func(t *testing.T) {
		subjects, sm, _ := newFixture(t, true)
		_, err := subjects.UpdateSubject(ctx, "u-1", func(s *model.Subject) error {
			s.FailureCount = 2
			return nil
		})
		require.NoError(t, err)

		_, err = sm.SubmitCredentials(ctx, "alice", testPassword, testCaptcha)
		require.NoError(t, err)

		state, err := sm.SubmitSecondFactor(ctx, testToken)
		require.NoError(t, err)
		assert.Equal(t, authn.StateAuthenticated, state)
		assert.Equal(t, 0, getSubject(t, subjects, "u-1").FailureCount)
	})

	t.Run("NoSecondFactorExpected", func(t *testing.T) {
		_, sm, _ := newFixture(t, false)
		_, err := sm.SubmitSecondFactor(ctx, testToken)

		var verr *aegis_errors.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestAdminUnlock(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminClearsLock", func(t *testing.T) {
		subjects, _, _ := newFixture(t, false)
		_, err := subjects.UpdateSubject(ctx, "u-1", func(s *model.Subject) error {
			s.FailureCount = 3
			s.LockState = true
			return nil
		})
		require.NoError(t, err)

		require.NoError(t, authn.AdminUnlock(ctx, subjects, "u-admin", "u-1"))
		s := getSubject(t, subjects, "u-1")
		assert.False(t, s.LockState)
		assert.Equal(t, 0, s.FailureCount)
	})

	t.Run("NonAdminRefused", func(t *testing.T) {
		subjects, _, _ := newFixture(t, false)
		err := authn.AdminUnlock(ctx, subjects, "u-1", "u-admin")

		var perr *aegis_errors.PrivilegeError
		assert.ErrorAs(t, err, &perr)
	})
}

func TestConcurrentFailures(t *testing.T) {
	// Concurrent bad-password attempts against one subject must still
	// produce a monotone counter and a single lock transition.
	ctx := context.Background()
	subjects, _, _ := newFixture(t, false)

	const attempts = 8
	done := make(chan struct{}, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			sm := authn.NewStateMachine(subjects, credential.NewHasher(),
				credential.NewStaticTokenVerifier(testToken),
				authn.ExpectedAnswerVerifier{Expected: testCaptcha}, authn.DefaultLockThreshold)
			_, _ = sm.SubmitCredentials(ctx, "alice", "nope", testCaptcha)
		}()
	}
	for i := 0; i < attempts; i++ {
		<-done
	}

	s := getSubject(t, subjects, "u-1")
	// Some attempts are refused up front once the lock engages, so the
	// counter lands between the threshold and the attempt count.
	assert.GreaterOrEqual(t, s.FailureCount, 3)
	assert.LessOrEqual(t, s.FailureCount, attempts)
	assert.True(t, s.LockState)
}
