package statistics

import (
	"testing"

	"github.com/markusressel/keepcool/internal/controller"
	"github.com/markusressel/keepcool/internal/curves"
	"github.com/markusressel/keepcool/internal/supervisor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockSource struct {
	state controller.State
	stats supervisor.Statistics
}

func (s MockSource) Snapshot() controller.State {
	return s.state
}

func (s MockSource) Statistics() supervisor.Statistics {
	return s.stats
}

// gather returns all metric values by name, with the label value appended for labeled metrics
func gather(t *testing.T, source MockSource) map[string]float64 {
	registry := prometheus.NewPedanticRegistry()
	require.NoError(t, RegisterAll(registry, source, source))

	families, err := registry.Gather()
	require.NoError(t, err)

	result := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			name := family.GetName()
			for _, label := range metric.GetLabel() {
				name += "/" + label.GetValue()
			}
			if metric.GetGauge() != nil {
				result[name] = metric.GetGauge().GetValue()
			} else {
				result[name] = metric.GetCounter().GetValue()
			}
		}
	}
	return result
}

func TestRegisterAll(t *testing.T) {
	// GIVEN
	source := MockSource{
		state: controller.State{
			Curve:              curves.Cubic,
			Temperature:        76,
			TemperatureAverage: 74.5,
			TemperatureMax:     78.25,
			TargetSpeed:        4100,
			Fans: []controller.FanState{
				{Index: 0, MinSpeed: 4100, CurrentSpeed: 4080},
				{Index: 1, MinSpeed: 4100, CurrentSpeed: 4120},
			},
		},
		stats: supervisor.Statistics{Cycles: 10, Skipped: 1, Writes: 4, WriteFailures: 2, CurveSwitches: 3},
	}

	// WHEN
	metrics := gather(t, source)

	// THEN
	assert.Equal(t, 76.0, metrics["keepcool_sensor_temperature"])
	assert.Equal(t, 74.5, metrics["keepcool_sensor_temperature_avg"])
	assert.Equal(t, 78.25, metrics["keepcool_sensor_temperature_max"])
	assert.Equal(t, 4100.0, metrics["keepcool_fan_target_speed"])
	assert.Equal(t, 4100.0, metrics["keepcool_fan_min_speed/1"])
	assert.Equal(t, 4120.0, metrics["keepcool_fan_speed/1"])
	assert.Equal(t, 1.0, metrics["keepcool_curve_active/cubic"])
	assert.Equal(t, 0.0, metrics["keepcool_curve_active/linear"])
	assert.Equal(t, 10.0, metrics["keepcool_supervisor_cycles_total"])
	assert.Equal(t, 1.0, metrics["keepcool_supervisor_skipped_cycles_total"])
	assert.Equal(t, 4.0, metrics["keepcool_supervisor_writes_total"])
	assert.Equal(t, 2.0, metrics["keepcool_supervisor_write_failures_total"])
	assert.Equal(t, 3.0, metrics["keepcool_supervisor_curve_switches_total"])
}

func TestRegisterAll_Twice(t *testing.T) {
	// GIVEN
	registry := prometheus.NewRegistry()
	require.NoError(t, RegisterAll(registry, MockSource{}, MockSource{}))

	// WHEN
	err := RegisterAll(registry, MockSource{}, MockSource{})

	// THEN
	assert.Error(t, err)
}
