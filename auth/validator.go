package auth

import (
	"chat-hub/errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SignupRequest carries the credentials of a signup or login attempt.
// Fields only need to be present and bounded; credential strength is a
// policy concern left to the operator, not enforced here.
type SignupRequest struct {
	Username string `validate:"required,min=1,max=64"`
	Secret   string `validate:"required,min=1,max=72"`
}

func ValidateSignup(req SignupRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	return nil
}
