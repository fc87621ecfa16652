package credential

import (
	"sync"

	"github.com/pquerna/otp/totp"
)

// DefaultStaticToken is the token accepted by the static verifier when
// none is configured.
const DefaultStaticToken = "246810"

// SecondFactorVerifier checks a subject's second-factor token.
// Implementations must be safe for concurrent use.
type SecondFactorVerifier interface {
	VerifyToken(subjectID, token string) bool
}

// StaticTokenVerifier accepts a single fixed token for every subject.
// This reproduces the original fixed-value check; a deployment wanting
// real one-time codes selects the TOTP verifier instead.
type StaticTokenVerifier struct {
	Token string
}

// NewStaticTokenVerifier returns a verifier for the given token, or the
// default token when empty.
func NewStaticTokenVerifier(token string) *StaticTokenVerifier {
	if token == "" {
		token = DefaultStaticToken
	}
	return &StaticTokenVerifier{Token: token}
}

func (v *StaticTokenVerifier) VerifyToken(_, token string) bool {
	return token == v.Token
}

// TOTPVerifier validates time-based one-time codes against per-subject
// shared secrets. Subjects without an enrolled secret always fail.
type TOTPVerifier struct {
	mu      sync.RWMutex
	secrets map[string]string
}

func NewTOTPVerifier() *TOTPVerifier {
	return &TOTPVerifier{secrets: make(map[string]string)}
}

// Enroll registers the TOTP secret for a subject, replacing any
// previous one.
func (v *TOTPVerifier) Enroll(subjectID, secret string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.secrets[subjectID] = secret
}

func (v *TOTPVerifier) VerifyToken(subjectID, token string) bool {
	v.mu.RLock()
	secret, ok := v.secrets[subjectID]
	v.mu.RUnlock()
	if !ok {
		return false
	}
	return totp.Validate(token, secret)
}
