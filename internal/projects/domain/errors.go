package domain

import "errors"

var (
	ErrNotFound         = errors.New("project not found")
	ErrCustomerNotFound = errors.New("customer not found")
)
