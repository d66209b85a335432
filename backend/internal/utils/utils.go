package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags and reports the first failing field as a 400.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()),
			StatusCode: http.StatusBadRequest,
		}
	}
	return &internal_errors.ErrorWithStatusCode{Message: "Invalid input", StatusCode: http.StatusBadRequest}
}

func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return &internal_errors.ErrorWithStatusCode{Message: "Email is invalid", StatusCode: http.StatusBadRequest}
	}
	return nil
}

// GenerateConfirmationCode returns the first n characters of a random UUID.
func GenerateConfirmationCode(n int) string {
	code := uuid.NewString()
	return code[:n]
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizeEmail lower-cases and trims an address so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
