package statistics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const fanSubsystem = "fan"

type FanCollector struct {
	state StateSource

	minSpeed     *prometheus.Desc
	currentSpeed *prometheus.Desc
	targetSpeed  *prometheus.Desc
}

func NewFanCollector(state StateSource) *FanCollector {
	return &FanCollector{
		state: state,
		minSpeed: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "min_speed"),
			"Current minimum speed of the fan in rpm",
			[]string{"fan"}, nil,
		),
		currentSpeed: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "speed"),
			"Current speed of the fan in rpm",
			[]string{"fan"}, nil,
		),
		targetSpeed: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "target_speed"),
			"Speed computed by the active curve in rpm",
			nil, nil,
		),
	}
}

func (collector *FanCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.minSpeed
	ch <- collector.currentSpeed
	ch <- collector.targetSpeed
}

// Collect implements required collect function for all prometheus collectors
func (collector *FanCollector) Collect(ch chan<- prometheus.Metric) {
	state := collector.state.Snapshot()
	for _, fan := range state.Fans {
		fanId := strconv.Itoa(fan.Index)
		ch <- prometheus.MustNewConstMetric(collector.minSpeed, prometheus.GaugeValue, float64(fan.MinSpeed), fanId)
		ch <- prometheus.MustNewConstMetric(collector.currentSpeed, prometheus.GaugeValue, float64(fan.CurrentSpeed), fanId)
	}
	ch <- prometheus.MustNewConstMetric(collector.targetSpeed, prometheus.GaugeValue, float64(state.TargetSpeed))
}
