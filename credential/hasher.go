package credential

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// defaultPepper is the fixed system-wide constant mixed into every
// digest. A per-subject random salt would be the hardening step for a
// production deployment; the engine deliberately keeps the digest
// deterministic so that digest equality is the sole basis of
// credential verification.
const defaultPepper = "aegis-credential-pepper-v1"

const (
	pbkdf2Iterations = 4096
	pbkdf2KeyLength  = 32
)

// Hasher produces a deterministic one-way digest of a secret combined
// with a fixed pepper. It holds no mutable state and is safe for
// concurrent use.
type Hasher struct {
	pepper []byte
}

// NewHasher returns a Hasher using the built-in system pepper.
func NewHasher() *Hasher {
	return &Hasher{pepper: []byte(defaultPepper)}
}

// NewHasherWithPepper returns a Hasher using the given pepper. An empty
// pepper falls back to the built-in one.
func NewHasherWithPepper(pepper string) *Hasher {
	if pepper == "" {
		pepper = defaultPepper
	}
	return &Hasher{pepper: []byte(pepper)}
}

// Hash derives the digest for a secret. Identical secrets always yield
// identical digests under the same pepper.
func (h *Hasher) Hash(secret string) string {
	key := pbkdf2.Key([]byte(secret), h.pepper, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return hex.EncodeToString(key)
}

// Verify reports whether the secret hashes to the stored digest.
func (h *Hasher) Verify(secret, digest string) bool {
	return h.Hash(secret) == digest
}
