package directory

import "errors"

var (
	ErrNotFound       = errors.New("user not found")
	ErrEmailTaken     = errors.New("account already exists")
	ErrBadCredentials = errors.New("incorrect credentials")
	ErrValidation     = errors.New("missing details")
)
