package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("", "HS256", time.Minute)
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestNewIssuerRejectsNonHMAC(t *testing.T) {
	_, err := NewIssuer("secret", "RS256", time.Minute)
	require.Error(t, err)

	_, err = NewIssuer("secret", "none", time.Minute)
	require.Error(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer, err := NewIssuer("secret", "HS256", 15*time.Minute)
	require.NoError(t, err)

	token, err := issuer.Issue(42, "ann@example.com", RoleUser)
	require.NoError(t, err)

	result := issuer.Verify(token)
	require.True(t, result.Valid)
	assert.False(t, result.Expired)
	require.NotNil(t, result.Claims)
	assert.Equal(t, "42", result.Claims.Subject)
	assert.Equal(t, "ann@example.com", result.Claims.Email)
	assert.Equal(t, RoleUser, result.Claims.Role)
	assert.NotEmpty(t, result.Claims.ID)
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer, err := NewIssuer("secret", "HS256", time.Nanosecond)
	require.NoError(t, err)

	token, err := issuer.Issue(42, "ann@example.com", RoleUser)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	result := issuer.Verify(token)
	assert.False(t, result.Valid)
	assert.True(t, result.Expired, "lapsed window must report expired, not invalid")
	require.Error(t, result.Err)
}

func TestVerifyRejectsForeignAlgorithm(t *testing.T) {
	hs512, err := NewIssuer("secret", "HS512", time.Minute)
	require.NoError(t, err)
	token, err := hs512.Issue(42, "ann@example.com", RoleUser)
	require.NoError(t, err)

	hs256, err := NewIssuer("secret", "HS256", time.Minute)
	require.NoError(t, err)

	result := hs256.Verify(token)
	assert.False(t, result.Valid)
	assert.False(t, result.Expired)
	require.Error(t, result.Err)
}

func TestVerifyTamperedToken(t *testing.T) {
	issuer, err := NewIssuer("secret", "HS256", time.Minute)
	require.NoError(t, err)

	token, err := issuer.Issue(42, "ann@example.com", RoleUser)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	result := issuer.Verify(tampered)
	assert.False(t, result.Valid)
	assert.False(t, result.Expired)
	require.Error(t, result.Err)
}

func TestDecodeWithoutVerification(t *testing.T) {
	issuer, err := NewIssuer("secret", "HS256", time.Minute)
	require.NoError(t, err)

	token, err := issuer.Issue(42, "ann@example.com", RoleAdmin)
	require.NoError(t, err)

	claims := issuer.Decode(token)
	require.NotNil(t, claims)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)

	assert.Nil(t, issuer.Decode("garbage"))
}
