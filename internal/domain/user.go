package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Password length bounds. The upper bound is bcrypt's input limit.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User is the identity record behind a Profile. It carries only what the
// identity boundary needs: an id, an email address and a password hash.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, only set while registering or resetting
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and password.
// The caller must hash the password before storing the user.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return &ValidationError{Field: "email", Reason: "is required", Err: ErrEmptyEmail}
	}
	if !validEmail(u.Email) {
		return &ValidationError{Field: "email", Reason: "is not a valid address", Err: ErrInvalidEmail}
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}
	if u.HashedPassword == "" {
		return &ValidationError{Field: "password", Reason: "is required", Err: ErrEmptyPassword}
	}
	return nil
}

// ValidatePassword enforces the password length bounds.
func ValidatePassword(password string) error {
	switch n := len(password); {
	case n == 0:
		return &ValidationError{Field: "password", Reason: "is required", Err: ErrEmptyPassword}
	case n < MinPasswordLength:
		return &ValidationError{Field: "password", Reason: "must be at least 6 characters", Err: ErrPasswordTooShort}
	case n > MaxPasswordLength:
		return &ValidationError{Field: "password", Reason: "must be at most 72 characters", Err: ErrPasswordTooLong}
	}
	return nil
}

// ValidatePasswordConfirmation checks the password and that the
// confirmation matches it.
func ValidatePasswordConfirmation(password, confirmation string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if password != confirmation {
		return &ValidationError{Field: "confirm_password", Reason: "does not match", Err: ErrPasswordMismatch}
	}
	return nil
}

// NormalizeEmail trims and lower-cases an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
