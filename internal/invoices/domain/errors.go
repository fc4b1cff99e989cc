package domain

import "errors"

var (
	ErrNotFound         = errors.New("invoice not found")
	ErrCustomerNotFound = errors.New("customer not found")
)
