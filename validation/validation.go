// Package validation checks the shape of GraphQL input DTOs. Functions are
// pure: they collect per-field messages and return a single 422 validation
// error carrying all of them, or nil when the input is acceptable.
package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/user/blogql-go/apperror"
)

// minFieldLength is the minimum length for passwords, titles and content.
const minFieldLength = 5

var validate = validator.New(validator.WithRequiredStructEnabled())

// UserInput validates registration input. The password must be non-empty and
// at least five characters long.
func UserInput(email, password string) error {
	var data []apperror.FieldMessage

	if err := validate.Var(email, "required,email"); err != nil {
		data = append(data, apperror.FieldMessage{Message: "email is invalid"})
	}
	if password == "" || len(password) < minFieldLength {
		data = append(data, apperror.FieldMessage{Message: "password is too short"})
	}

	if len(data) > 0 {
		return apperror.NewValidationError("invalid input", data)
	}
	return nil
}

// PostInput validates post creation input. Title and content must each be
// non-empty and at least five characters long; both messages are collected
// when both fields fail.
func PostInput(title, content string) error {
	var data []apperror.FieldMessage

	if title == "" || len(title) < minFieldLength {
		data = append(data, apperror.FieldMessage{Message: "title is invalid"})
	}
	if content == "" || len(content) < minFieldLength {
		data = append(data, apperror.FieldMessage{Message: "content is invalid"})
	}

	if len(data) > 0 {
		return apperror.NewValidationError("invalid input", data)
	}
	return nil
}
