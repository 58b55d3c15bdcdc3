package controller

import (
	"fmt"
	"sync"

	"github.com/asecurityteam/rolling"
	"github.com/markusressel/keepcool/internal/curves"
	"github.com/markusressel/keepcool/internal/smc"
	"github.com/markusressel/keepcool/internal/ui"
	"github.com/markusressel/keepcool/internal/util"
	"github.com/qdm12/reprint"
	"go.uber.org/multierr"
)

// MaxFans is the maximum number of fans handled by a controller
const MaxFans = smc.MaxFans

// Bridge is the part of the SMC bridge used by the controller
type Bridge interface {
	ReadKey(key smc.Key) (smc.Value, error)
	WriteKey(value smc.Value) error
}

type Config struct {
	TemperatureKey smc.Key
	MinTemperature uint32
	MaxTemperature uint32
	Speeds         curves.SpeedRange
	Curve          curves.CurveId
	// DryRun computes everything but never writes to the SMC
	DryRun bool
	// ImplausibleTemperature is the lowest reading that is rejected as a sensor glitch
	ImplausibleTemperature float64
	WindowSize             int
}

// FanState is the last known state of a single fan
type FanState struct {
	Index        int
	MinSpeed     uint32
	CurrentSpeed uint32
}

// State is a point in time copy of the controller state
type State struct {
	Curve              curves.CurveId
	Temperature        float64
	TemperatureAverage float64
	TemperatureMax     float64
	TargetSpeed        uint32
	Fans               []FanState
}

// FanController holds the per fan state and implements the individual steps of a control cycle.
// It is safe for concurrent use, but cycle steps are expected to be called from a single goroutine.
type FanController struct {
	bridge Bridge
	config Config

	mu                  sync.RWMutex
	curve               curves.CurveId
	fans                []FanState
	temperature         float64
	targetSpeed         uint32
	window              *rolling.PointPolicy
	windowSize          int
	windowFilled        bool
	temperatureOverride *float64
}

func NewFanController(bridge Bridge, config Config) *FanController {
	windowSize := config.WindowSize
	if windowSize < 1 {
		windowSize = 1
	}
	return &FanController{
		bridge:     bridge,
		config:     config,
		curve:      config.Curve,
		window:     util.CreateRollingWindow(windowSize),
		windowSize: windowSize,
	}
}

func (f *FanController) Config() Config {
	return f.config
}

func (f *FanController) Curve() curves.CurveId {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.curve
}

func (f *FanController) SetCurve(curve curves.CurveId) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.curve != curve {
		ui.Info("Switching curve from %s to %s", f.curve, curve)
	}
	f.curve = curve
}

// OverrideTemperature makes SampleTemperature return the given value instead of reading the sensor
func (f *FanController) OverrideTemperature(celsius float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.temperatureOverride = &celsius
}

// SampleTemperature reads the configured temperature sensor.
// Unreadable or non sp78 sensors result in ErrSensorRead, readings at or above
// the plausibility threshold in ErrImplausibleTemperature.
func (f *FanController) SampleTemperature() (float64, error) {
	f.mu.RLock()
	override := f.temperatureOverride
	f.mu.RUnlock()

	var temperature float64
	if override != nil {
		temperature = *override
	} else {
		value, err := f.bridge.ReadKey(f.config.TemperatureKey)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrSensorRead, err)
		}
		if value.DataType != smc.DataTypeSP78 || value.DataSize < 2 {
			return 0, fmt.Errorf("%w: %s has type '%s' with size %d, expected '%s'",
				ErrSensorRead, f.config.TemperatureKey, value.DataType, value.DataSize, smc.DataTypeSP78)
		}
		temperature = smc.DecodeTemperature(value.Data())
	}

	if f.config.ImplausibleTemperature > 0 && temperature >= f.config.ImplausibleTemperature {
		return temperature, fmt.Errorf("%w: %.2f°C", ErrImplausibleTemperature, temperature)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.windowFilled {
		// fill the window so the average starts at the first reading instead of 0
		util.FillWindow(f.window, f.windowSize, temperature)
		f.windowFilled = true
	} else {
		f.window.Append(temperature)
	}
	f.temperature = temperature
	return temperature, nil
}

// Refresh discovers the fans and reads their minimum and current speed.
// Fans that cannot be read keep their previous state, the failures are returned combined.
func (f *FanController) Refresh() error {
	value, err := f.bridge.ReadKey(smc.MustParseKey(smc.KeyFanCount))
	if err != nil {
		return fmt.Errorf("cannot read fan count: %w", err)
	}
	count := int(smc.DecodeUnsignedInteger(value.Data(), value.DataSize))
	if count > MaxFans {
		ui.Debug("SMC reports %d fans, only the first %d are controlled", count, MaxFans)
		count = MaxFans
	}

	f.mu.RLock()
	previous := f.fans
	f.mu.RUnlock()

	var errs error
	states := make([]FanState, count)
	for i := 0; i < count; i++ {
		state := FanState{Index: i}
		if i < len(previous) {
			state = previous[i]
		}

		if speed, err := f.readSpeed(i, smc.FanSuffixMinimum); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			state.MinSpeed = speed
		}
		if speed, err := f.readSpeed(i, smc.FanSuffixActual); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			state.CurrentSpeed = speed
		}
		states[i] = state
	}

	f.mu.Lock()
	f.fans = states
	f.mu.Unlock()

	return errs
}

func (f *FanController) readSpeed(fan int, suffix string) (uint32, error) {
	value, err := f.bridge.ReadKey(smc.FanKey(fan, suffix))
	if err != nil {
		return 0, fmt.Errorf("fan %d: %w", fan, err)
	}
	return smc.DecodeFanSpeed(value), nil
}

// TargetSpeed evaluates the active curve for the given temperature
func (f *FanController) TargetSpeed(temperature float64) uint32 {
	curve := f.Curve()
	target := curves.ComputeTargetSpeed(curve, temperature, f.config.MinTemperature, f.config.MaxTemperature, f.config.Speeds)
	f.mu.Lock()
	f.targetSpeed = target
	f.mu.Unlock()
	return target
}

// Apply sets the minimum speed of every fan whose minimum speed differs from target.
// It returns the number of performed writes. Failing fans don't stop the others,
// their failures are returned as a *PartialWriteError.
func (f *FanController) Apply(target uint32) (int, error) {
	f.mu.RLock()
	states := make([]FanState, len(f.fans))
	copy(states, f.fans)
	f.mu.RUnlock()

	written := 0
	var errs error
	for i, state := range states {
		if state.MinSpeed == target {
			continue
		}
		if f.config.DryRun {
			ui.Info("Dry run: fan %d minimum speed %d -> %d", state.Index, state.MinSpeed, target)
			continue
		}

		ui.Debug("Setting fan %d minimum speed %d -> %d", state.Index, state.MinSpeed, target)
		value := smc.Value{
			Key:      smc.FanKey(state.Index, smc.FanSuffixMinimum),
			DataSize: 2,
			DataType: smc.DataTypeFPE2,
		}
		copy(value.Bytes[:], smc.EncodeFanSpeed(target))

		if err := f.bridge.WriteKey(value); err != nil {
			errs = multierr.Append(errs, &FanWriteError{Fan: state.Index, Target: target, Err: err})
			continue
		}
		written++
		states[i].MinSpeed = target
	}

	f.mu.Lock()
	if len(f.fans) == len(states) {
		f.fans = states
	}
	f.mu.Unlock()

	if errs != nil {
		return written, &PartialWriteError{Total: len(states), Err: errs}
	}
	return written, nil
}

// Restore hands the fans back to the SMC by switching to the Reset curve
// and performing a single write pass
func (f *FanController) Restore() (int, error) {
	f.SetCurve(curves.Reset)
	if err := f.Refresh(); err != nil {
		ui.Warning("Error refreshing fan state before restore: %v", err)
	}
	return f.Apply(f.TargetSpeed(f.lastTemperature()))
}

func (f *FanController) lastTemperature() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.temperature
}

// Snapshot returns a deep copy of the current controller state
func (f *FanController) Snapshot() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	state := State{
		Curve:       f.curve,
		Temperature: f.temperature,
		TargetSpeed: f.targetSpeed,
		Fans:        f.fans,
	}
	if f.windowFilled {
		state.TemperatureAverage = util.GetWindowAvg(f.window)
		state.TemperatureMax = util.GetWindowMax(f.window)
	}
	return reprint.This(state).(State)
}
