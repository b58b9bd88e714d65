package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", h)
	require.True(t, IsHash(h))

	require.NoError(t, CheckPassword(h, "secret1"))
	require.ErrorIs(t, CheckPassword(h, "Secret1"), ErrMismatch)
}

func TestCheckPassword_PlainStoredValue(t *testing.T) {
	require.False(t, IsHash("cityslicka"))
	require.NoError(t, CheckPassword("cityslicka", "cityslicka"))
	require.ErrorIs(t, CheckPassword("cityslicka", "cityslick"), ErrMismatch)
}

func TestCheckPassword_EmptyStoredNeverMatches(t *testing.T) {
	require.ErrorIs(t, CheckPassword("", ""), ErrMismatch)
}
