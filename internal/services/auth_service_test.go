package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aplv/catalogo-api/internal/config"
	"github.com/aplv/catalogo-api/internal/utils"
)

// fakeVerifier accepts credentials listed in identities.
type fakeVerifier struct {
	identities map[string]*Identity
	audience   string
}

func (f *fakeVerifier) Verify(ctx context.Context, credential, audience string) (*Identity, error) {
	f.audience = audience
	id, ok := f.identities[credential]
	if !ok {
		return nil, errors.New("token signature mismatch")
	}
	return id, nil
}

func authConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 2},
		Auth: config.AuthConfig{
			GoogleClientID: "client-id.apps.googleusercontent.com",
			AdminEmails:    []string{"admin@example.com"},
		},
	}
}

func TestLoginWithGoogle(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	verifier := &fakeVerifier{identities: map[string]*Identity{
		"admin-token":      {Email: "Admin@Example.com", Name: "Admin", EmailVerified: true},
		"visitor-token":    {Email: "visitor@example.com", EmailVerified: true},
		"unverified-token": {Email: "admin@example.com", EmailVerified: false},
	}}
	svc := NewAuthService(authConfig(), verifier)
	ctx := context.Background()

	resp, err := svc.LoginWithGoogle(ctx, &GoogleLoginRequest{Credential: "admin-token"})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", resp.Email)
	assert.Equal(t, 7200, resp.ExpiresIn)
	assert.Equal(t, "client-id.apps.googleusercontent.com", verifier.audience)

	claims, err := utils.ValidateJWT(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, utils.RoleAdmin, claims.Role)

	_, err = svc.LoginWithGoogle(ctx, &GoogleLoginRequest{Credential: "visitor-token"})
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = svc.LoginWithGoogle(ctx, &GoogleLoginRequest{Credential: "unverified-token"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.LoginWithGoogle(ctx, &GoogleLoginRequest{Credential: "forged"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.LoginWithGoogle(ctx, &GoogleLoginRequest{})
	assert.True(t, utils.IsValidationError(err))
}

func TestLoginWithGoogleNotConfigured(t *testing.T) {
	cfg := authConfig()
	cfg.Auth.GoogleClientID = ""
	svc := NewAuthService(cfg, &fakeVerifier{})

	_, err := svc.LoginWithGoogle(context.Background(), &GoogleLoginRequest{Credential: "x"})
	assert.ErrorIs(t, err, ErrAuthNotConfigured)
}
