package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const supervisorSubsystem = "supervisor"

type SupervisorCollector struct {
	stats StatisticsSource

	cycles        *prometheus.Desc
	skipped       *prometheus.Desc
	writes        *prometheus.Desc
	writeFailures *prometheus.Desc
	curveSwitches *prometheus.Desc
}

func NewSupervisorCollector(stats StatisticsSource) *SupervisorCollector {
	return &SupervisorCollector{
		stats: stats,
		cycles: prometheus.NewDesc(prometheus.BuildFQName(namespace, supervisorSubsystem, "cycles_total"),
			"Number of control cycles",
			nil, nil,
		),
		skipped: prometheus.NewDesc(prometheus.BuildFQName(namespace, supervisorSubsystem, "skipped_cycles_total"),
			"Number of control cycles skipped due to a failed or implausible temperature reading",
			nil, nil,
		),
		writes: prometheus.NewDesc(prometheus.BuildFQName(namespace, supervisorSubsystem, "writes_total"),
			"Number of successful fan speed writes",
			nil, nil,
		),
		writeFailures: prometheus.NewDesc(prometheus.BuildFQName(namespace, supervisorSubsystem, "write_failures_total"),
			"Number of failed fan speed writes",
			nil, nil,
		),
		curveSwitches: prometheus.NewDesc(prometheus.BuildFQName(namespace, supervisorSubsystem, "curve_switches_total"),
			"Number of curve switches requested at runtime",
			nil, nil,
		),
	}
}

func (collector *SupervisorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.cycles
	ch <- collector.skipped
	ch <- collector.writes
	ch <- collector.writeFailures
	ch <- collector.curveSwitches
}

// Collect implements required collect function for all prometheus collectors
func (collector *SupervisorCollector) Collect(ch chan<- prometheus.Metric) {
	stats := collector.stats.Statistics()
	ch <- prometheus.MustNewConstMetric(collector.cycles, prometheus.CounterValue, float64(stats.Cycles))
	ch <- prometheus.MustNewConstMetric(collector.skipped, prometheus.CounterValue, float64(stats.Skipped))
	ch <- prometheus.MustNewConstMetric(collector.writes, prometheus.CounterValue, float64(stats.Writes))
	ch <- prometheus.MustNewConstMetric(collector.writeFailures, prometheus.CounterValue, float64(stats.WriteFailures))
	ch <- prometheus.MustNewConstMetric(collector.curveSwitches, prometheus.CounterValue, float64(stats.CurveSwitches))
}
