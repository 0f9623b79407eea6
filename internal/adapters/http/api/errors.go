package api

import (
	"errors"
	"net/http"

	library "github.com/okian/nextalbum/internal/adapters/library"
	repository "github.com/okian/nextalbum/internal/adapters/repository"
	service "github.com/okian/nextalbum/internal/app"
	scoring "github.com/okian/nextalbum/internal/domain/scoring"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// Error is an API failure labelled with the operation that produced it.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Op + ": " + e.Kind.Error()
	case e.Kind == nil:
		return e.Op + ": " + e.Err.Error()
	default:
		return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
	}
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewKind returns an error of the given kind raised by op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind labels err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap labels err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// statusFor maps an error onto an HTTP status and an error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, library.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, library.ErrLibraryUnavailable):
		return http.StatusServiceUnavailable, "library_unavailable"
	case errors.Is(err, repository.ErrStorage):
		return http.StatusInternalServerError, "storage_error"
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, service.ErrStaleCursor):
		return http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrNoCurrentAlbum),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, repository.ErrInvalidPreference),
		errors.Is(err, scoring.ErrUnknownSortKey),
		errors.Is(err, scoring.ErrUnknownDirection):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
