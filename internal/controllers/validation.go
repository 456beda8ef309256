package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/rmartinsanz/gin-userbase-api/internal/models"
)

var validate = validator.New()

var errInvalidEmail = errors.New("email must be a valid address")

// normalizeEmailInput trims and lowercases the address before checking its
// format, so padded or oddly-cased input like " Alice@X.com " is accepted and
// stored in canonical form rather than rejected outright.
func normalizeEmailInput(email string) (string, error) {
	normalized := models.NormalizeEmail(email)
	if err := validate.Var(normalized, "required,email"); err != nil {
		return "", errInvalidEmail
	}
	return normalized, nil
}
