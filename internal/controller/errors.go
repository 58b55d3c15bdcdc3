package controller

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	// ErrSensorRead means the temperature sensor could not be read or has an unexpected format
	ErrSensorRead = errors.New("temperature sensor read failed")
	// ErrImplausibleTemperature means the sensor returned a value above the plausibility threshold
	ErrImplausibleTemperature = errors.New("implausible temperature")
)

// FanWriteError is the failure to set the minimum speed of a single fan
type FanWriteError struct {
	Fan    int
	Target uint32
	Err    error
}

func (e *FanWriteError) Error() string {
	return fmt.Sprintf("fan %d: cannot set minimum speed to %d: %v", e.Fan, e.Target, e.Err)
}

func (e *FanWriteError) Unwrap() error {
	return e.Err
}

// PartialWriteError is returned when at least one fan write of a cycle failed.
// All other fans have still been written.
type PartialWriteError struct {
	Total int
	Err   error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%d of %d fan writes failed: %v", len(e.Failures()), e.Total, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// Failures returns the individual fan failures
func (e *PartialWriteError) Failures() []*FanWriteError {
	var result []*FanWriteError
	for _, err := range multierr.Errors(e.Err) {
		var fanErr *FanWriteError
		if errors.As(err, &fanErr) {
			result = append(result, fanErr)
		}
	}
	return result
}
