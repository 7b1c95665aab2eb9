package internal

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// User owns tasks.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// RegisterParams defines the arguments used for registering users.
type RegisterParams struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the username and email.
func (r RegisterParams) Normalize() RegisterParams {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	return r
}

// Validate indicates whether the fields are valid or not.
func (r RegisterParams) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required.ErrorObject(ErrMissingField), validation.RuneLength(3, 80)),
		validation.Field(&r.Email, validation.Required.ErrorObject(ErrMissingField), is.EmailFormat),
		// bcrypt ignores anything after 72 bytes.
		validation.Field(&r.Password, validation.Required.ErrorObject(ErrMissingField), validation.Length(6, 72)),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid user")
	}

	return nil
}

// LoginParams defines the arguments used for authenticating users.
type LoginParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate indicates whether the fields are valid or not.
func (l LoginParams) Validate() error {
	if err := validation.ValidateStruct(&l,
		validation.Field(&l.Username, validation.Required.ErrorObject(ErrMissingField)),
		validation.Field(&l.Password, validation.Required.ErrorObject(ErrMissingField)),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid credentials")
	}

	return nil
}
