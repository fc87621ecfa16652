package credential_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aegis-iam/aegis/engine/credential"
)

func TestHasher(t *testing.T) {
	hasher := credential.NewHasher()

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, hasher.Hash("secret"), hasher.Hash("secret"))
	})

	t.Run("DistinctSecretsDistinctDigests", func(t *testing.T) {
		assert.NotEqual(t, hasher.Hash("secret"), hasher.Hash("secre"))
	})

	t.Run("DigestNotPlaintext", func(t *testing.T) {
		assert.NotContains(t, hasher.Hash("secret"), "secret")
	})

	t.Run("Verify", func(t *testing.T) {
		digest := hasher.Hash("secret")
		assert.True(t, hasher.Verify("secret", digest))
		assert.False(t, hasher.Verify("other", digest))
	})

	t.Run("PepperChangesDigest", func(t *testing.T) {
		other := credential.NewHasherWithPepper("deployment-specific")
		assert.NotEqual(t, hasher.Hash("secret"), other.Hash("secret"))
	})

	t.Run("EmptyPepperFallsBack", func(t *testing.T) {
		fallback := credential.NewHasherWithPepper("")
		assert.Equal(t, hasher.Hash("secret"), fallback.Hash("secret"))
	})
}
