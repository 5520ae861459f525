package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLoginAndValidate(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-signing-key")

	resp, err := svc.Login("admin", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.AdminID)

	claims, err := svc.ValidateAdminToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.AdminID, claims.AdminID)
}

func TestAdminLoginBadCredentials(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-signing-key")

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("someone", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidatorTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-signing-key")

	token, err := svc.IssueValidatorToken("val-1", "tennant-creek")
	require.NoError(t, err)

	claims, err := svc.ValidateValidatorToken(token)
	require.NoError(t, err)
	assert.Equal(t, "val-1", claims.ValidatorID)
	assert.Equal(t, "tennant-creek", claims.CommunityID)
}

func TestTokenSecretMismatch(t *testing.T) {
	issuer := NewAuthService("admin", "secret", "key-a")
	verifier := NewAuthService("admin", "secret", "key-b")

	token, err := issuer.IssueValidatorToken("val-1", "tennant-creek")
	require.NoError(t, err)

	_, err = verifier.ValidateValidatorToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenTypeConfusion(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-signing-key")

	validatorToken, err := svc.IssueValidatorToken("val-1", "tennant-creek")
	require.NoError(t, err)

	// A validator token carries no admin ID and must not pass the admin check
	_, err = svc.ValidateAdminToken(validatorToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageToken(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-signing-key")

	_, err := svc.ValidateAdminToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateValidatorToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
