package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aplv/catalogo-api/internal/models"
)

type productPayload struct {
	Slug      string            `json:"slug" validate:"required,slug"`
	Atributos models.Attributes `json:"atributos" validate:"attribute_keys"`
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		slug  string
		valid bool
	}{
		{"bolo-de-cenoura", true},
		{"suco2", true},
		{"Bolo", false},
		{"bolo--cenoura", false},
		{"-bolo", false},
		{"pão", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			err := ValidateStruct(productPayload{Slug: tt.slug, Atributos: models.Attributes{}})
			assert.Equal(t, tt.valid, err == nil, "err: %v", err)
		})
	}
}

func TestValidateAttributeKeys(t *testing.T) {
	ok := productPayload{Slug: "a", Atributos: models.Attributes{"contem_ovos": models.Contains, "pode_conter_leite": models.FreeOf}}
	assert.NoError(t, ValidateStruct(ok))

	bad := productPayload{Slug: "a", Atributos: models.Attributes{"contem_plutonio": models.Contains}}
	err := fmt.Errorf("validation failed: %w", ValidateStruct(bad))
	require.True(t, IsValidationError(err))

	details := GetValidationErrors(err)
	require.Len(t, details, 1)
	assert.Equal(t, "atributos", details[0].Field)
	assert.Equal(t, "attribute_keys", details[0].Tag)

	assert.False(t, IsValidationError(errors.New("boom")))
	assert.Empty(t, GetValidationErrors(errors.New("boom")))
}

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT("admin@example.com", "Admin", RoleAdmin, 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "admin@example.com", claims.Subject)

	SetJWTSecret("another-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestCatalogETag(t *testing.T) {
	a := CatalogETag(3, "sem_ovos=true")
	assert.Equal(t, a, CatalogETag(3, "sem_ovos=true"))
	assert.NotEqual(t, a, CatalogETag(4, "sem_ovos=true"))
	assert.NotEqual(t, a, CatalogETag(3, ""))
	assert.Regexp(t, `^W/"3-[0-9a-f]{16}"$`, a)
}
