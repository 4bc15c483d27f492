package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this username already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrTodoNotFound indicates that todo was not found
	ErrTodoNotFound = errors.New("todo not found")

	// ErrTagNotFound indicates that tag was not found
	ErrTagNotFound = errors.New("tag not found")

	// ErrTagAlreadyExists indicates that tag with this name already exists
	ErrTagAlreadyExists = errors.New("tag already exists")

	// ErrTagInUse indicates that a todo still references the tag
	ErrTagInUse = errors.New("tag is in use")
)
