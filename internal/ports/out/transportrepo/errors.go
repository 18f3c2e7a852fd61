package transportrepo

import "errors"

var (
	ErrNotFound      = errors.New("transportation not found")
	ErrAlreadyExists = errors.New("transportation already exists")
)
