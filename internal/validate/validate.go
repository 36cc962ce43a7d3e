package validate

import (
	"strings"
)

// Reason is one of the fixed ways a request can fail validation. Handlers
// never build ad hoc error shapes; every failure maps to a Reason.
type Reason int

const (
	ReasonEmailInvalid Reason = iota
	ReasonUsernameTooShort
	ReasonUsernameHasAt
	ReasonPasswordTooShort
	ReasonUsernameTaken
	ReasonEmailTaken
	ReasonUnknownUser
	ReasonWrongPassword
	ReasonBadResetCode
	ReasonNotAuthenticated
	ReasonPostNotFound
	ReasonBadDirection
)

// FieldError is the wire shape for one validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (r Reason) FieldError() FieldError {
	switch r {
	case ReasonEmailInvalid:
		return FieldError{Field: "email", Message: "Must be a valid email"}
	case ReasonUsernameTooShort:
		return FieldError{Field: "username", Message: "Username must be greater than 2"}
	case ReasonUsernameHasAt:
		return FieldError{Field: "username", Message: "Username cannot include an @"}
	case ReasonPasswordTooShort:
		return FieldError{Field: "password", Message: "Password must be greater than 5"}
	case ReasonUsernameTaken:
		return FieldError{Field: "username", Message: "Username already taken"}
	case ReasonEmailTaken:
		return FieldError{Field: "email", Message: "Email already registered"}
	case ReasonUnknownUser:
		return FieldError{Field: "usernameOrEmail", Message: "That account doesn't exist"}
	case ReasonWrongPassword:
		return FieldError{Field: "password", Message: "Incorrect password"}
	case ReasonBadResetCode:
		return FieldError{Field: "code", Message: "Reset code is wrong or expired"}
	case ReasonNotAuthenticated:
		return FieldError{Field: "session", Message: "Not authenticated"}
	case ReasonPostNotFound:
		return FieldError{Field: "id", Message: "Post not found"}
	case ReasonBadDirection:
		return FieldError{Field: "direction", Message: "Direction must be up or down"}
	}
	return FieldError{Field: "request", Message: "Invalid request"}
}

// Register checks the signup fields and returns every failed reason as a
// field error, empty slice meaning valid.
func Register(username, email, password string) []FieldError {
	var errs []FieldError
	if !strings.Contains(email, "@") {
		errs = append(errs, ReasonEmailInvalid.FieldError())
	}
	if len(username) <= 2 {
		errs = append(errs, ReasonUsernameTooShort.FieldError())
	}
	if strings.Contains(username, "@") {
		errs = append(errs, ReasonUsernameHasAt.FieldError())
	}
	if len(password) <= 5 {
		errs = append(errs, ReasonPasswordTooShort.FieldError())
	}
	return errs
}

// Password checks a new password on its own, for the reset flow.
func Password(password string) []FieldError {
	if len(password) <= 5 {
		return []FieldError{ReasonPasswordTooShort.FieldError()}
	}
	return nil
}
