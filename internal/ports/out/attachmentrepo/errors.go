package attachmentrepo

import "errors"

var (
	ErrNotFound      = errors.New("attachment not found")
	ErrAlreadyExists = errors.New("attachment already exists")
)
