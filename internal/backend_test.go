package internal

import (
	"testing"
	"time"

	"github.com/markusressel/keepcool/internal/configuration"
	"github.com/markusressel/keepcool/internal/curves"
	"github.com/markusressel/keepcool/internal/smc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useSimulator(curve curves.CurveId) {
	configuration.CurrentConfig = configuration.Configuration{
		TemperatureKey:         "TCXC",
		MinTemperature:         60,
		MaxTemperature:         92,
		MinSpeed:               2000,
		MaxSpeed:               6200,
		Curve:                  curve,
		UpdatePeriod:           time.Second,
		ImplausibleTemperature: 120,
		TemperatureWindowSize:  10,
		Channel: configuration.ChannelConfig{
			Type: smc.ChannelTypeSimulator,
		},
	}
}

func TestRunOnce(t *testing.T) {
	// GIVEN
	useSimulator(curves.Quadratic)

	// WHEN
	result, err := RunOnce()

	// THEN
	require.NoError(t, err)
	// the simulated sensor reports 48.5°C, so the fans are handed back to the SMC
	assert.Equal(t, 48.5, result.Temperature)
	assert.Equal(t, curves.IdleSpeed, result.Target)
	assert.Equal(t, 2, result.Written)
}

func TestSimulate(t *testing.T) {
	// GIVEN
	useSimulator(curves.Quadratic)

	// WHEN
	result, err := Simulate(76)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 76.0, result.Temperature)
	assert.Equal(t, uint32(3050), result.Target)
	assert.Equal(t, 2, result.Written)
}

func TestSimulate_DryRun(t *testing.T) {
	// GIVEN
	useSimulator(curves.Linear)
	configuration.CurrentConfig.DryRun = true

	// WHEN
	result, err := Simulate(68)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, uint32(3050), result.Target)
	assert.Equal(t, 0, result.Written)
}

func TestSimulate_Implausible(t *testing.T) {
	// GIVEN
	useSimulator(curves.Linear)

	// WHEN
	result, err := Simulate(125)

	// THEN
	assert.Error(t, err)
	assert.True(t, result.Skipped)
}

func TestReadTemperature(t *testing.T) {
	// GIVEN
	useSimulator(curves.Linear)

	// WHEN
	temperature, err := ReadTemperature()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 48.5, temperature)
}

func TestOpenBridge_UnknownChannel(t *testing.T) {
	// GIVEN
	useSimulator(curves.Linear)
	configuration.CurrentConfig.Channel.Type = "usb"

	// WHEN
	_, err := OpenBridge()

	// THEN
	assert.ErrorIs(t, err, smc.ErrConnection)
}
