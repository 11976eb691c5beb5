package domain

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateCode     = errors.New("product code already exists")
	ErrDuplicateRequest  = errors.New("duplicate request")
)
