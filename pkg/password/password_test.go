package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashVerify(t *testing.T) {
	h, err := HashWithCost("Xy7kPq2mNa", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "Xy7kPq2mNa", h)
	assert.True(t, Verify("Xy7kPq2mNa", h))
	assert.False(t, Verify("xy7kpq2mna", h))
	assert.False(t, Verify("Xy7kPq2mNa", "no-es-un-hash"))
}
