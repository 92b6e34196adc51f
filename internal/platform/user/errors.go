package user

import "errors"

// User validation errors
var (
	ErrInvalidUsername     = errors.New("username must be 3-32 characters of letters, digits, '.', '_' or '-'")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrInvalidPasswordHash = errors.New("invalid password hash")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user with this username already exists")

	// ErrInvalidCredentials is returned by SignIn for both unknown usernames and
	// wrong passwords
	ErrInvalidCredentials = errors.New("invalid username or password")
)
