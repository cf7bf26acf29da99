package models

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic("models: register username validation: " + err.Error())
	}
	return v
}

var errInvalidInput = &ErrorResponse{Message: "Invalid input"}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=20,username"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r *RegisterRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return errInvalidInput
	}
	// bcrypt only reads the first 72 bytes.
	if len(r.Password) > 72 {
		return errInvalidInput
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20,username"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return errInvalidInput
	}
	return nil
}

type GenerateQuestRequest struct {
	Stat string `json:"stat"`
}

func (r *GenerateQuestRequest) Validate() error {
	if _, ok := ParseStat(r.Stat); !ok {
		return &ErrorResponse{Message: "Invalid stat"}
	}
	return nil
}
