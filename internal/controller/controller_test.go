package controller

import (
	"errors"
	"testing"

	"github.com/markusressel/keepcool/internal/curves"
	"github.com/markusressel/keepcool/internal/smc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var temperatureKey = smc.MustParseKey("TCXC")

func createConfig() Config {
	return Config{
		TemperatureKey:         temperatureKey,
		MinTemperature:         60,
		MaxTemperature:         92,
		Speeds:                 curves.SpeedRange{Min: 2000, Max: 6200},
		Curve:                  curves.Linear,
		ImplausibleTemperature: 120,
		WindowSize:             4,
	}
}

func createController(fans int, config Config) (*FanController, *smc.Simulator) {
	simulator := smc.NewDefaultSimulator(fans)
	bridge := smc.NewBridge(simulator, nil)
	return NewFanController(bridge, config), simulator
}

// runCycle performs sample, refresh, compute and apply
func runCycle(t *testing.T, f *FanController) (uint32, int, error) {
	temperature, err := f.SampleTemperature()
	require.NoError(t, err)
	require.NoError(t, f.Refresh())
	target := f.TargetSpeed(temperature)
	written, err := f.Apply(target)
	return target, written, err
}

func TestSampleTemperature(t *testing.T) {
	// GIVEN
	f, simulator := createController(2, createConfig())
	simulator.SetTemperature(temperatureKey, 68.25)

	// WHEN
	temperature, err := f.SampleTemperature()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 68.25, temperature)
	assert.Equal(t, 68.25, f.Snapshot().TemperatureAverage)
}

func TestSampleTemperature_Average(t *testing.T) {
	// GIVEN
	f, simulator := createController(2, createConfig())
	simulator.SetTemperature(temperatureKey, 60)
	_, err := f.SampleTemperature()
	require.NoError(t, err)

	// WHEN
	simulator.SetTemperature(temperatureKey, 80)
	_, err = f.SampleTemperature()
	require.NoError(t, err)

	// THEN
	snapshot := f.Snapshot()
	assert.Equal(t, 80.0, snapshot.Temperature)
	assert.Equal(t, 65.0, snapshot.TemperatureAverage)
	assert.Equal(t, 80.0, snapshot.TemperatureMax)
}

func TestSampleTemperature_ReadFailure(t *testing.T) {
	// GIVEN
	f, simulator := createController(2, createConfig())
	simulator.Fail(temperatureKey, smc.CommandReadBytes, smc.ResultFailure)

	// WHEN
	_, err := f.SampleTemperature()

	// THEN
	assert.ErrorIs(t, err, ErrSensorRead)
	assert.ErrorIs(t, err, smc.ErrReadFailed)
	assert.NotErrorIs(t, err, ErrImplausibleTemperature)
}

func TestSampleTemperature_UnexpectedType(t *testing.T) {
	// GIVEN
	f, simulator := createController(2, createConfig())
	simulator.SetRegister(temperatureKey, smc.DataTypeFPE2, smc.EncodeFanSpeed(3000))

	// WHEN
	_, err := f.SampleTemperature()

	// THEN
	assert.ErrorIs(t, err, ErrSensorRead)
}

func TestSampleTemperature_Implausible(t *testing.T) {
	// GIVEN
	f, simulator := createController(2, createConfig())
	simulator.SetTemperature(temperatureKey, 130)

	// WHEN
	temperature, err := f.SampleTemperature()

	// THEN
	assert.ErrorIs(t, err, ErrImplausibleTemperature)
	assert.NotErrorIs(t, err, ErrSensorRead)
	assert.Equal(t, 130.0, temperature)
}

func TestSampleTemperature_Override(t *testing.T) {
	// GIVEN
	f, simulator := createController(2, createConfig())
	simulator.Fail(temperatureKey, smc.CommandReadBytes, smc.ResultFailure)

	// WHEN
	f.OverrideTemperature(76)
	temperature, err := f.SampleTemperature()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 76.0, temperature)
}

func TestRefresh(t *testing.T) {
	// GIVEN
	f, simulator := createController(2, createConfig())
	simulator.SetFanSpeeds(1, 2500, 2480)

	// WHEN
	err := f.Refresh()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []FanState{
		{Index: 0, MinSpeed: 2000, CurrentSpeed: 2000},
		{Index: 1, MinSpeed: 2500, CurrentSpeed: 2480},
	}, f.Snapshot().Fans)
}

func TestRefresh_CapsFanCount(t *testing.T) {
	// GIVEN
	f, _ := createController(7, createConfig())

	// WHEN
	err := f.Refresh()

	// THEN
	assert.NoError(t, err)
	assert.Len(t, f.Snapshot().Fans, MaxFans)
}

func TestRefresh_KeepsStateOfUnreadableFans(t *testing.T) {
	// GIVEN
	f, simulator := createController(2, createConfig())
	require.NoError(t, f.Refresh())
	simulator.SetFanSpeeds(0, 3000, 3100)
	simulator.SetFanSpeeds(1, 3000, 3100)
	simulator.Fail(smc.FanKey(1, smc.FanSuffixActual), smc.CommandReadBytes, smc.ResultFailure)

	// WHEN
	err := f.Refresh()

	// THEN
	assert.Error(t, err)
	fans := f.Snapshot().Fans
	assert.Equal(t, uint32(3100), fans[0].CurrentSpeed)
	assert.Equal(t, uint32(3000), fans[1].MinSpeed)
	assert.Equal(t, uint32(2000), fans[1].CurrentSpeed)
}

func TestApply_WritesOnlyChangedFans(t *testing.T) {
	// GIVEN
	f, simulator := createController(2, createConfig())
	simulator.SetTemperature(temperatureKey, 68)

	// WHEN
	target, written, err := runCycle(t, f)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, uint32(3050), target)
	assert.Equal(t, 2, written)
	assert.Equal(t, uint32(3050), simulator.FanMinimum(0))
	assert.Equal(t, uint32(3050), simulator.FanMinimum(1))
	assert.Equal(t, uint64(2), simulator.Requests(smc.CommandWriteBytes))
}

func TestApply_SuppressesRepeatedWrites(t *testing.T) {
	// GIVEN
	f, simulator := createController(2, createConfig())
	simulator.SetTemperature(temperatureKey, 68)
	_, _, err := runCycle(t, f)
	require.NoError(t, err)

	// WHEN
	_, written, err := runCycle(t, f)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 0, written)
	assert.Equal(t, uint64(2), simulator.Requests(smc.CommandWriteBytes))
}

func TestApply_DryRun(t *testing.T) {
	// GIVEN
	config := createConfig()
	config.DryRun = true
	f, simulator := createController(2, config)
	simulator.SetTemperature(temperatureKey, 80)

	// WHEN
	_, written, err := runCycle(t, f)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 0, written)
	assert.Equal(t, uint64(0), simulator.Requests(smc.CommandWriteBytes))
	assert.Equal(t, uint32(2000), simulator.FanMinimum(0))
}

func TestApply_PartialFailure(t *testing.T) {
	// GIVEN
	f, simulator := createController(3, createConfig())
	simulator.SetTemperature(temperatureKey, 68)
	simulator.Fail(smc.FanKey(1, smc.FanSuffixMinimum), smc.CommandWriteBytes, smc.ResultFailure)

	// WHEN
	_, written, err := runCycle(t, f)

	// THEN
	assert.Equal(t, 2, written)
	assert.Equal(t, uint32(3050), simulator.FanMinimum(0))
	assert.Equal(t, uint32(2000), simulator.FanMinimum(1))
	assert.Equal(t, uint32(3050), simulator.FanMinimum(2))

	var partial *PartialWriteError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, 3, partial.Total)
	failures := partial.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, 1, failures[0].Fan)
	assert.ErrorIs(t, err, smc.ErrWriteFailed)

	// the failed fan is retried on the next cycle
	simulator.Recover(smc.FanKey(1, smc.FanSuffixMinimum), smc.CommandWriteBytes)
	_, written, err = runCycle(t, f)
	assert.NoError(t, err)
	assert.Equal(t, 1, written)
	assert.Equal(t, uint32(3050), simulator.FanMinimum(1))
}

func TestRestore(t *testing.T) {
	// GIVEN
	f, simulator := createController(2, createConfig())
	simulator.SetTemperature(temperatureKey, 80)
	_, _, err := runCycle(t, f)
	require.NoError(t, err)

	// WHEN
	written, err := f.Restore()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.Equal(t, curves.Reset, f.Curve())
	assert.Equal(t, curves.IdleSpeed, simulator.FanMinimum(0))
	assert.Equal(t, curves.IdleSpeed, simulator.FanMinimum(1))
}

func TestSnapshot_IsACopy(t *testing.T) {
	// GIVEN
	f, _ := createController(2, createConfig())
	require.NoError(t, f.Refresh())

	// WHEN
	snapshot := f.Snapshot()
	snapshot.Fans[0].MinSpeed = 1234

	// THEN
	assert.Equal(t, uint32(2000), f.Snapshot().Fans[0].MinSpeed)
}
