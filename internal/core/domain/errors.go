package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrUpstream           = errors.New("upstream request failed")
	ErrMalformedPayload   = errors.New("malformed upstream payload")
)
