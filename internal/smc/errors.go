package smc

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection means the SMC channel could not be opened (or closed)
	ErrConnection = errors.New("SMC connection error")
	// ErrClosed is returned for calls on a bridge that has already been closed
	ErrClosed = errors.New("SMC bridge is closed")

	ErrKeyInfoUnavailable = errors.New("key info unavailable")
	ErrReadFailed         = errors.New("read failed")
	ErrWriteFailed        = errors.New("write failed")
	ErrSizeMismatch       = errors.New("data size mismatch")
)

// ResultError is a non successful result code reported by the SMC
type ResultError struct {
	Command Command
	Code    uint8
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("SMC %s returned result %#02x", e.Command, e.Code)
}

// BridgeError is returned by every Bridge operation on failure.
// errors.Is matches it against its Kind (ErrKeyInfoUnavailable, ErrReadFailed, ...)
// as well as against the wrapped cause.
type BridgeError struct {
	Op   string
	Key  Key
	Kind error
	Err  error
}

func (e *BridgeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Key, e.Kind, e.Err)
}

func (e *BridgeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Code returns the SMC result code of the failed exchange, or 0 if the failure
// did not originate from the SMC itself
func (e *BridgeError) Code() uint8 {
	var resultErr *ResultError
	if errors.As(e.Err, &resultErr) {
		return resultErr.Code
	}
	return 0
}
