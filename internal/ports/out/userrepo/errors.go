package userrepo

import "errors"

var (
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyExists indicates a user already exists with the provided ID.
	ErrAlreadyExists = errors.New("user already exists")

	// ErrSubjectAlreadyBound indicates a user already exists for the provided subject.
	ErrSubjectAlreadyBound = errors.New("user subject already bound")
)
