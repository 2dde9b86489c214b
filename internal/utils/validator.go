// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("product_code", validateProductCode)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// IsWalletAddress reports whether s is a 0x-prefixed 40-hex-char address.
// Comparisons between addresses are always case-insensitive; this only
// checks the format.
func IsWalletAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// SameAddress compares two wallet addresses case-insensitively.
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

func validateProductCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()

	// Product codes end up in QR payloads and URLs: alphanumeric plus
	// dash/underscore, 3-100 characters.
	if len(code) < 3 || len(code) > 100 {
		return false
	}

	matched, _ := regexp.MatchString("^[a-zA-Z0-9_-]+$", code)
	return matched
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "eth_addr":
		return e.Field() + " must be a 0x-prefixed 40-character hex address"
	case "product_code":
		return "Product code must be 3-100 characters of letters, numbers, dashes, or underscores"
	default:
		return e.Field() + " is invalid"
	}
}
