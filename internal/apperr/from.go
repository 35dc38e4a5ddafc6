package apperr

import (
	"errors"

	"github.com/aliciamunhoz/kanban-next/internal/repository"
)

// From translates err into a client-facing Error. Errors that already carry a
// kind pass through; unknown errors become Internal with a generic message.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, repository.ErrBoardNotFound):
		return Wrap(NotFound, "Board not found", err)
	case errors.Is(err, repository.ErrColumnNotFound):
		return Wrap(NotFound, "Column not found", err)
	case errors.Is(err, repository.ErrCardNotFound):
		return Wrap(NotFound, "Card not found", err)
	case errors.Is(err, repository.ErrUserNotFound):
		return Wrap(NotFound, "User not found", err)
	case errors.Is(err, repository.ErrEmailTaken):
		return Wrap(Conflict, "User with this email already exists", err)
	case errors.Is(err, repository.ErrAlreadyShared):
		return Wrap(Conflict, "Board already shared with this user", err)
	}
	return Wrap(Internal, "Internal server error", err)
}
