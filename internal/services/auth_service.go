// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"

	"github.com/aplv/catalogo-api/internal/config"
	"github.com/aplv/catalogo-api/internal/utils"
)

var (
	ErrInvalidCredential = errors.New("invalid google credential")
	ErrNotAdmin          = errors.New("account is not an administrator")
	ErrAuthNotConfigured = errors.New("google sign-in is not configured")
)

// Identity is the verified owner of a Google credential.
type Identity struct {
	Email         string
	Name          string
	EmailVerified bool
}

// CredentialVerifier checks a Google ID token for the given audience.
type CredentialVerifier interface {
	Verify(ctx context.Context, credential, audience string) (*Identity, error)
}

// GoogleVerifier validates ID tokens against Google's published keys.
type GoogleVerifier struct{}

func (GoogleVerifier) Verify(ctx context.Context, credential, audience string) (*Identity, error) {
	payload, err := idtoken.Validate(ctx, credential, audience)
	if err != nil {
		return nil, err
	}
	id := &Identity{}
	id.Email, _ = payload.Claims["email"].(string)
	id.Name, _ = payload.Claims["name"].(string)
	id.EmailVerified, _ = payload.Claims["email_verified"].(bool)
	return id, nil
}

type AuthService struct {
	cfg      *config.Config
	verifier CredentialVerifier
}

type GoogleLoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type AuthResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"` // in seconds
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
}

func NewAuthService(cfg *config.Config, verifier CredentialVerifier) *AuthService {
	if verifier == nil {
		verifier = GoogleVerifier{}
	}
	return &AuthService{
		cfg:      cfg,
		verifier: verifier,
	}
}

// LoginWithGoogle exchanges a Google credential of an allowlisted admin for
// an API token.
func (s *AuthService) LoginWithGoogle(ctx context.Context, req *GoogleLoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if s.cfg.Auth.GoogleClientID == "" {
		return nil, ErrAuthNotConfigured
	}

	identity, err := s.verifier.Verify(ctx, req.Credential, s.cfg.Auth.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if identity.Email == "" || !identity.EmailVerified {
		return nil, ErrInvalidCredential
	}
	email := strings.ToLower(identity.Email)
	if !s.cfg.Auth.IsAdmin(email) {
		return nil, ErrNotAdmin
	}

	token, err := utils.GenerateJWT(email, identity.Name, utils.RoleAdmin, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: s.cfg.JWT.AccessTokenTTL * 3600,
		Email:     email,
		Name:      identity.Name,
	}, nil
}
