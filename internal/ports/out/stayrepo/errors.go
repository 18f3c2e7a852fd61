package stayrepo

import "errors"

var (
	ErrNotFound      = errors.New("accommodation not found")
	ErrAlreadyExists = errors.New("accommodation already exists")
)
