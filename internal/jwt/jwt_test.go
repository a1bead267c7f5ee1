package jwt

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_errors "github.com/gibber-dev/gibber/internal/errors"
)

func TestNewTokenRoundTrip(t *testing.T) {
	service := New("secret", time.Hour)

	tokenStr, err := service.NewToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	token, err := service.DecodeToken(tokenStr)
	require.NoError(t, err)
	assert.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["aid"])

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.Greater(t, exp, float64(time.Now().Unix()))
}

func TestDecodeTokenWrongKey(t *testing.T) {
	tokenStr, err := New("secret", time.Hour).NewToken(42)
	require.NoError(t, err)

	_, err = New("other-secret", time.Hour).DecodeToken(tokenStr)
	var statusErr *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestDecodeTokenExpired(t *testing.T) {
	service := New("secret", -time.Minute)

	tokenStr, err := service.NewToken(42)
	require.NoError(t, err)

	_, err = service.DecodeToken(tokenStr)
	var statusErr *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestDecodeTokenGarbage(t *testing.T) {
	_, err := New("secret", time.Hour).DecodeToken("not.a.token")
	var statusErr *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}
