// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aplv/catalogo-api/internal/catalog"
	"github.com/aplv/catalogo-api/internal/models"
)

var (
	validate *validator.Validate
	slugRe   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("slug", validateSlug)
	validate.RegisterValidation("attribute_keys", validateAttributeKeys)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validateSlug accepts lowercase words joined by single hyphens, up to 200
// characters.
func validateSlug(fl validator.FieldLevel) bool {
	return IsSlug(fl.Field().String())
}

// IsSlug reports whether s is a well-formed product slug.
func IsSlug(s string) bool {
	return len(s) <= 200 && slugRe.MatchString(s)
}

func validateAttributeKeys(fl validator.FieldLevel) bool {
	attrs, ok := fl.Field().Interface().(models.Attributes)
	if !ok {
		return false
	}
	for key := range attrs {
		if !catalog.IsAttributeKey(key) {
			return false
		}
	}
	return true
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

// IsValidationError reports whether err carries validator failures.
func IsValidationError(err error) bool {
	var validationErrs validator.ValidationErrors
	return errors.As(err, &validationErrs)
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "url":
		return e.Field() + " must be an absolute URL"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "slug":
		return "Slug must contain only lowercase letters, numbers and single hyphens"
	case "attribute_keys":
		return "Atributos contains an unknown attribute key"
	default:
		return e.Field() + " is invalid"
	}
}
