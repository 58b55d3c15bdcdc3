//go:build !darwin || !cgo

package smc

import "errors"

// OpenIOKit is only available on macOS
func OpenIOKit() (Channel, error) {
	return nil, errors.New("IOKit is only available on macOS (built with cgo)")
}
