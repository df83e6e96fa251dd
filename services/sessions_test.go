package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIssueValidateRoundTrip(t *testing.T) {
	s, err := NewSessionIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := s.Issue("65a000000000000000000001")
	require.NoError(t, err)

	subject, err := s.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "65a000000000000000000001", subject)
}

func TestSessionValidateMissing(t *testing.T) {
	s, err := NewSessionIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = s.Validate("  ")
	assert.ErrorIs(t, err, ErrTokenMissing)
}

func TestSessionValidateExpired(t *testing.T) {
	s, err := NewSessionIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	issuedAt := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return issuedAt }
	token, err := s.Issue("abc")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSessionValidateWrongSecret(t *testing.T) {
	a, err := NewSessionIssuer("secret-a", time.Hour)
	require.NoError(t, err)
	b, err := NewSessionIssuer("secret-b", time.Hour)
	require.NoError(t, err)

	token, err := a.Issue("abc")
	require.NoError(t, err)

	_, err = b.Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSessionValidateRejectsOtherAlgorithms(t *testing.T) {
	s, err := NewSessionIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{
		Subject:   "abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSessionValidateGarbage(t *testing.T) {
	s, err := NewSessionIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = s.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewSessionIssuerRequiresSecretAndTTL(t *testing.T) {
	_, err := NewSessionIssuer("", time.Hour)
	assert.Error(t, err)

	_, err = NewSessionIssuer("secret", 0)
	assert.Error(t, err)
}
