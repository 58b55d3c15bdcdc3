package supervisor

import (
	"github.com/markusressel/keepcool/internal/curves"
)

// State is the phase of the control loop the supervisor is currently in
type State int32

const (
	StateIdle State = iota
	StateSampling
	StateComputing
	StateWriting
	StateSleeping
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSampling:
		return "sampling"
	case StateComputing:
		return "computing"
	case StateWriting:
		return "writing"
	case StateSleeping:
		return "sleeping"
	case StateShuttingDown:
		return "shutting down"
	default:
		return "unknown"
	}
}

type CommandType int

const (
	// CommandSwitchCurve activates Command.Curve
	CommandSwitchCurve CommandType = iota
	// CommandNextCurve activates the curve following the active one
	CommandNextCurve
	// CommandDefaultCurve activates the configured curve again
	CommandDefaultCurve
	// CommandShutdown stops the loop after restoring the fans
	CommandShutdown
)

// Command is a request to the supervisor. Commands are only processed
// between two cycles and while sleeping.
type Command struct {
	Type  CommandType
	Curve curves.CurveId
}

func SwitchCurve(curve curves.CurveId) Command {
	return Command{Type: CommandSwitchCurve, Curve: curve}
}

// Statistics are the counters of a supervisor since it was created
type Statistics struct {
	Cycles        uint64
	Skipped       uint64
	Writes        uint64
	WriteFailures uint64
	CurveSwitches uint64
}
