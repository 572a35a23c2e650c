package adapter

import "errors"

// Transport errors mapped from HTTP status codes.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
)

// ErrMissingSessionToken is returned when a record store client is built
// from credentials without a session token.
var ErrMissingSessionToken = errors.New("credentials carry no session token")
