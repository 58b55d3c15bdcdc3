package curves

import (
	"fmt"
	"math"
	"strings"

	"github.com/markusressel/keepcool/internal/util"
)

// CurveId selects the function used to map a temperature to a fan speed
type CurveId int

const (
	Linear CurveId = iota
	Logarithmic
	Quadratic
	Cubic
	InverseCubic
	// Reset hands control back to the SMC by writing the idle speed
	Reset
)

// IdleSpeed is written as minimum speed when the fans should be controlled by the SMC again
const IdleSpeed uint32 = 0

var curveNames = map[CurveId]string{
	Linear:       "linear",
	Logarithmic:  "logarithmic",
	Quadratic:    "quadratic",
	Cubic:        "cubic",
	InverseCubic: "inverse-cubic",
	Reset:        "reset",
}

// single letter codes accepted on the command line
var curveLetters = map[string]CurveId{
	"e": Linear,
	"c": Logarithmic,
	"s": Quadratic,
	"b": Cubic,
	"i": InverseCubic,
	"r": Reset,
}

// SpeedRange is the range of fan speeds (in rpm) a curve is mapped to
type SpeedRange struct {
	Min uint32
	Max uint32
}

func (c CurveId) String() string {
	if name, ok := curveNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CurveId(%d)", int(c))
}

// ParseCurveId accepts the name of a curve as well as its single letter code
func ParseCurveId(value string) (CurveId, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if id, ok := curveLetters[value]; ok {
		return id, nil
	}
	for id, name := range curveNames {
		if name == value {
			return id, nil
		}
	}
	return Linear, fmt.Errorf("unknown curve '%s'", value)
}

// All returns all curves that can be used to control the fans, in cycle order
func All() []CurveId {
	return []CurveId{Linear, Logarithmic, Quadratic, Cubic, InverseCubic}
}

// Next returns the curve following c in cycle order. Reset is never returned.
func (c CurveId) Next() CurveId {
	all := All()
	for i, id := range all {
		if id == c {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// ComputeTargetSpeed maps the given temperature to a fan speed in speedRange.
// Temperatures at or below minTemp (and the Reset curve) result in IdleSpeed,
// temperatures at or above maxTemp in the maximum speed.
func ComputeTargetSpeed(curve CurveId, temp float64, minTemp uint32, maxTemp uint32, speedRange SpeedRange) uint32 {
	if curve == Reset || temp <= float64(minTemp) {
		return IdleSpeed
	}
	if temp >= float64(maxTemp) {
		return speedRange.Max
	}

	n := util.Ratio(temp, float64(minTemp), float64(maxTemp))
	span := float64(speedRange.Max) - float64(speedRange.Min)

	var increment float64
	switch curve {
	case Linear:
		increment = n * span
	case Logarithmic:
		increment = span / 2 * (2 + math.Log10(n))
	case Quadratic:
		increment = n * n * span
	case Cubic:
		increment = span / 2 * (1 + math.Pow(2*n-1, 3))
	case InverseCubic:
		if n < 0.5 {
			increment = span / 2 * math.Pow(2*n, 3)
		} else {
			increment = span / 2 * (2 - math.Pow(2-2*n, 3))
		}
	default:
		return IdleSpeed
	}

	increment = math.Max(increment, 0)
	return util.Coerce(speedRange.Min+uint32(math.Floor(increment)), speedRange.Min, speedRange.Max)
}
