package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"Child_Shield/internal/pkg/logctx"
)

var (
	// ErrInvalidArgument covers missing required fields and bad enum values.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrNotFound = errors.New("not found")

	// ErrConflict rejects an operation that repeats a state change, like a second attend.
	ErrConflict = errors.New("conflict")

	// ErrAlreadyExists is a uniqueness violation: username or email.
	ErrAlreadyExists = errors.New("already exists")

	ErrForbidden    = errors.New("permission denied")
	ErrUnauthorized = errors.New("unauthenticated")

	// ErrInternal hides store failures; details are logged, not returned.
	ErrInternal = errors.New("internal error")
)

// Error is a domain error with a message that is safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func invalid(format string, args ...any) error {
	return &Error{Kind: ErrInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return &Error{Kind: ErrNotFound, Message: what + " not found"}
}

func conflict(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func alreadyExists(msg string) error {
	return &Error{Kind: ErrAlreadyExists, Message: msg}
}

func forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

func unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

// internal logs the store failure and returns an opaque ErrInternal. Cancellation and
// deadline errors are returned as such, so callers can tell them from store faults.
func internal(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}

	logctx.From(ctx).LogAttrs(ctx, slog.LevelError, "storage failure",
		slog.String("op", op),
		slog.String("err", err.Error()),
	)
	return fmt.Errorf("%s: %w", op, ErrInternal)
}
