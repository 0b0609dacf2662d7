package domainadmin

import "errors"

var (
	ErrDomainNotFound = errors.New("domain not found")
	ErrDuplicateCode  = errors.New("domain code already exists")
	ErrMissingFields  = errors.New("missing required fields")
)
