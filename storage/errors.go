package storage

import "errors"

var (
	ErrNotFound    = errors.New("storage: not found")
	ErrTimeout     = errors.New("storage: timeout")
	ErrInvalidCID  = errors.New("storage: invalid cid")
	ErrCIDMismatch = errors.New("storage: cid mismatch")
	ErrImmutable   = errors.New("storage: immutable object mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }
