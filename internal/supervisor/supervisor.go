package supervisor

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/markusressel/keepcool/internal/controller"
	"github.com/markusressel/keepcool/internal/curves"
	"github.com/markusressel/keepcool/internal/ui"
)

const commandBufferSize = 16

// Controller is the fan controller driven by the supervisor
type Controller interface {
	SampleTemperature() (float64, error)
	Refresh() error
	TargetSpeed(temperature float64) uint32
	Apply(target uint32) (int, error)
	Restore() (int, error)
	Curve() curves.CurveId
	SetCurve(curve curves.CurveId)
}

// CycleResult describes a single control cycle
type CycleResult struct {
	Temperature float64
	Target      uint32
	Written     int
	// Skipped is true if the temperature could not be used and nothing was written
	Skipped bool
}

// Supervisor runs the control loop: sample, compute, write, sleep.
// It owns the bridge and closes it on shutdown.
type Supervisor struct {
	controller   Controller
	bridge       io.Closer
	period       time.Duration
	defaultCurve curves.CurveId

	commands chan Command
	state    atomic.Int32

	cycles        atomic.Uint64
	skipped       atomic.Uint64
	writes        atomic.Uint64
	writeFailures atomic.Uint64
	curveSwitches atomic.Uint64

	shutdownOnce sync.Once
}

func NewSupervisor(controller Controller, bridge io.Closer, period time.Duration) *Supervisor {
	return &Supervisor{
		controller:   controller,
		bridge:       bridge,
		period:       period,
		defaultCurve: controller.Curve(),
		commands:     make(chan Command, commandBufferSize),
	}
}

func (s *Supervisor) State() State {
	return State(s.state.Load())
}

func (s *Supervisor) setState(state State) {
	previous := State(s.state.Swap(int32(state)))
	if previous != state {
		ui.Debug("Supervisor state %s -> %s", previous, state)
	}
}

// Submit queues a command without blocking. It returns false if the queue is full.
func (s *Supervisor) Submit(command Command) bool {
	select {
	case s.commands <- command:
		return true
	default:
		ui.Warning("Command queue is full, dropping command %d", command.Type)
		return false
	}
}

func (s *Supervisor) Statistics() Statistics {
	return Statistics{
		Cycles:        s.cycles.Load(),
		Skipped:       s.skipped.Load(),
		Writes:        s.writes.Load(),
		WriteFailures: s.writeFailures.Load(),
		CurveSwitches: s.curveSwitches.Load(),
	}
}

// Run executes control cycles until ctx is done or a shutdown command is received.
// The fans are always restored and the bridge is closed before Run returns.
func (s *Supervisor) Run(ctx context.Context) error {
	ui.Info("Starting control loop with curve %s, update period %s", s.controller.Curve(), s.period)
	for {
		if ctx.Err() != nil || s.processCommands() {
			break
		}

		if _, err := s.RunCycle(); err != nil {
			ui.Warning("%v", err)
		}

		if s.sleep(ctx) {
			break
		}
	}
	s.shutdown()
	return nil
}

// RunCycle performs a single control cycle
func (s *Supervisor) RunCycle() (CycleResult, error) {
	defer s.cycles.Add(1)

	s.setState(StateSampling)
	temperature, err := s.controller.SampleTemperature()
	if err != nil {
		s.skipped.Add(1)
		s.setState(StateIdle)
		if errors.Is(err, controller.ErrImplausibleTemperature) {
			ui.Debug("Skipping cycle: %v", err)
		}
		return CycleResult{Temperature: temperature, Skipped: true}, err
	}
	if err := s.controller.Refresh(); err != nil {
		ui.Warning("Error reading fan state: %v", err)
	}

	s.setState(StateComputing)
	target := s.controller.TargetSpeed(temperature)
	ui.Debug("Temperature %.2f°C, curve %s, target speed %d", temperature, s.controller.Curve(), target)

	s.setState(StateWriting)
	written, err := s.controller.Apply(target)
	s.writes.Add(uint64(written))
	var partial *controller.PartialWriteError
	if errors.As(err, &partial) {
		s.writeFailures.Add(uint64(len(partial.Failures())))
	}

	s.setState(StateIdle)
	return CycleResult{Temperature: temperature, Target: target, Written: written}, err
}

// processCommands handles all pending commands and reports whether a shutdown was requested
func (s *Supervisor) processCommands() bool {
	for {
		select {
		case command := <-s.commands:
			if s.handle(command) {
				return true
			}
		default:
			return false
		}
	}
}

func (s *Supervisor) handle(command Command) (shutdown bool) {
	switch command.Type {
	case CommandSwitchCurve:
		s.switchCurve(command.Curve)
	case CommandNextCurve:
		s.switchCurve(s.controller.Curve().Next())
	case CommandDefaultCurve:
		s.switchCurve(s.defaultCurve)
	case CommandShutdown:
		return true
	default:
		ui.Warning("Ignoring unknown command %d", command.Type)
	}
	return false
}

func (s *Supervisor) switchCurve(curve curves.CurveId) {
	if curve == curves.Reset {
		ui.Warning("The reset curve can only be activated by shutting down")
		return
	}
	if s.controller.Curve() == curve {
		return
	}
	s.controller.SetCurve(curve)
	s.curveSwitches.Add(1)
}

// sleep waits for the update period while handling commands.
// It reports whether the loop should stop.
func (s *Supervisor) sleep(ctx context.Context) bool {
	s.setState(StateSleeping)
	timer := time.NewTimer(s.period)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return true
		case command := <-s.commands:
			if s.handle(command) {
				return true
			}
		case <-timer.C:
			return false
		}
	}
}

// shutdown performs a single restore pass and closes the bridge, regardless of errors
func (s *Supervisor) shutdown() {
	s.shutdownOnce.Do(func() {
		s.setState(StateShuttingDown)
		ui.Info("Restoring fan control to the SMC...")

		if _, err := s.controller.Restore(); err != nil {
			ui.ErrorAndNotify("Fan restore failed", "Unable to restore all fans, make sure they are running: %v", err)
		} else {
			ui.Success("Fans restored")
		}

		if err := s.bridge.Close(); err != nil {
			ui.Warning("Error closing SMC connection: %v", err)
		}
	})
}
