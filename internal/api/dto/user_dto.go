package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// bcrypt ignores input past 72 bytes, so longer passwords are refused.
const maxPasswordLength = 72

// SignupRequest payload for new users. Names must be present but may be
// empty strings.
type SignupRequest struct {
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// Validate checks the signup shape.
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(1, maxPasswordLength)),
		validation.Field(&r.FirstName, validation.NotNil),
		validation.Field(&r.LastName, validation.NotNil),
	)
}

// SigninRequest payload for login.
type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the signin shape.
func (r SigninRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(1, maxPasswordLength)),
	)
}

// UpdateRequest payload for self-updates. Every field is optional; fields
// not listed here (id, username) are dropped when decoding.
type UpdateRequest struct {
	Password  *string `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// Validate checks the update shape. A present password must be 4..72 long.
func (r UpdateRequest) Validate() error {
	passwordRules := []validation.Rule{validation.Length(4, maxPasswordLength)}
	if r.Password != nil {
		passwordRules = append(passwordRules, validation.Required)
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, passwordRules...),
	)
}

// SignupResponse is returned after a successful signup.
type SignupResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// SigninResponse is returned after a successful signin.
type SigninResponse struct {
	Token string `json:"token"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// DirectoryUser is one entry of the public directory.
type DirectoryUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ID        string `json:"_id"`
}

// BulkResponse wraps directory search results.
type BulkResponse struct {
	User []DirectoryUser `json:"user"`
}
