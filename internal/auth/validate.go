package auth

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one violated constraint on an input payload.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// SignUpPayload is the registration request body.
type SignUpPayload struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64,password"`
	Role     string `json:"role" validate:"oneof=user admin"`
}

// Normalize trims and case-folds fields prior to validation and applies the
// default role.
func (p *SignUpPayload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Role == "" {
		p.Role = RoleUser
	}
}

// SignInPayload is the authentication request body. Password complexity is
// not re-checked here; it is enforced at registration only.
type SignInPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

// Normalize applies the same email normalization as registration.
func (p *SignInPayload) Normalize() {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
}

// SignOutPayload is the sign-out request body. The refresh token is accepted
// for forward compatibility; nothing is revoked with it today.
type SignOutPayload struct {
	RefreshToken string `json:"refreshToken" validate:"omitempty,min=1"`
}

// NewValidator builds the validator instance used for all auth payloads,
// with json field names in error paths and the password complexity rule.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("password", validPassword)
	return v
}

// validPassword requires at least one lowercase, one uppercase, one digit,
// and one non-alphanumeric character. Length is checked separately.
func validPassword(fl validator.FieldLevel) bool {
	var lower, upper, digit, symbol bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// CollectFieldErrors converts a validator error into the full list of field
// errors. Callers surface all violations together rather than only the first.
func CollectFieldErrors(err error) []FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Path: "body", Message: "Invalid request body.", Code: "invalid"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Path:    fe.Field(),
			Message: fieldMessage(fe),
			Code:    fe.Tag(),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "password":
		switch fe.Tag() {
		case "min":
			return "Password must be at least 8 characters long."
		case "max":
			return "Password must be at most 64 characters long."
		case "password":
			return "Password must include uppercase, lowercase, number, and special character."
		case "required":
			return "Password is required."
		}
	case "name":
		switch fe.Tag() {
		case "min":
			return "Name must be at least 2 characters."
		case "max":
			return "Name must be at most 50 characters."
		case "required":
			return "Name is required."
		}
	case "email":
		if fe.Tag() == "required" {
			return "Email is required."
		}
		return "Invalid email address."
	case "role":
		return "Role must be either user or admin."
	}
	return "Validation failed."
}
