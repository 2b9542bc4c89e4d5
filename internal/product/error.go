package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidInput    = errors.New("invalid product input")
	ErrInvalidStatus   = errors.New("invalid product status")
	ErrNotOwner        = errors.New("product does not belong to caller's store")
)
