package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemSensor = "sensor"

type SensorCollector struct {
	state StateSource

	temperature    *prometheus.Desc
	temperatureAvg *prometheus.Desc
	temperatureMax *prometheus.Desc
}

func NewSensorCollector(state StateSource) *SensorCollector {
	return &SensorCollector{
		state: state,
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "temperature"),
			"Last plausible reading of the temperature sensor in °C",
			nil, nil,
		),
		temperatureAvg: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "temperature_avg"),
			"Moving average of the temperature sensor in °C",
			nil, nil,
		),
		temperatureMax: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "temperature_max"),
			"Highest temperature within the moving window in °C",
			nil, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.temperature
	ch <- collector.temperatureAvg
	ch <- collector.temperatureMax
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	state := collector.state.Snapshot()
	ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, state.Temperature)
	ch <- prometheus.MustNewConstMetric(collector.temperatureAvg, prometheus.GaugeValue, state.TemperatureAverage)
	ch <- prometheus.MustNewConstMetric(collector.temperatureMax, prometheus.GaugeValue, state.TemperatureMax)
}
