package repository

import "errors"

// Common repository errors
var (
	ErrBoardNotFound  = errors.New("board not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrCardNotFound   = errors.New("card not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")

	// ErrAlreadyShared is returned when a grant already exists for the (board, user) pair
	ErrAlreadyShared = errors.New("board already shared with this user")
)
