package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when no task matches both the task ID and owner ID
	ErrTaskNotFound = errors.New("task not found")

	// ErrEmailTaken is returned when an account with the same email already exists
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidID is returned when an identifier is not well formed for the backing store
	ErrInvalidID = errors.New("invalid id")
)
