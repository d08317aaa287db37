package services

import "errors"

// Dashboard service errors
var (
	ErrUnknownDimension = errors.New("dimension not found")
	ErrDomainNotFound   = errors.New("domain value not found")
	ErrUnknownYear      = errors.New("unknown year choice")
	ErrInvalidInput     = errors.New("invalid input")
)
