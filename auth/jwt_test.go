package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("secret")

	token, err := GenerateToken("user-1", secret, time.Minute)
	require.NoError(t, err)

	userID, err := GetUserIDFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestGetUserIDFromToken_Rejects(t *testing.T) {
	secret := []byte("secret")

	expired, err := GenerateToken("user-1", secret, -time.Minute)
	require.NoError(t, err)
	_, err = GetUserIDFromToken(expired, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := GenerateToken("user-1", []byte("other"), time.Minute)
	require.NoError(t, err)
	_, err = GetUserIDFromToken(other, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = GetUserIDFromToken("not-a-token", secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	})
	s, err := noUser.SignedString(secret)
	require.NoError(t, err)
	_, err = GetUserIDFromToken(s, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	tok, err = BearerToken("bearer   xyz ")
	require.NoError(t, err)
	assert.Equal(t, "xyz", tok)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer  "} {
		_, err := BearerToken(h)
		assert.ErrorIs(t, err, ErrNoToken, h)
	}
}

func TestUserIDForEmail(t *testing.T) {
	a := UserIDForEmail("Ana@Example.com ")
	b := UserIDForEmail("ana@example.com")
	c := UserIDForEmail("bia@example.com")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 36)
}
