package medicine

import "errors"

var (
	ErrNotFound          = errors.New("medicine not found")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrValidation        = errors.New("name and price are required")
)
