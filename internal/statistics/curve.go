package statistics

import (
	"github.com/markusressel/keepcool/internal/curves"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemCurve = "curve"

// CurveCollector exports a gauge per curve, 1 for the active one
type CurveCollector struct {
	state  StateSource
	active *prometheus.Desc
}

func NewCurveCollector(state StateSource) *CurveCollector {
	return &CurveCollector{
		state: state,
		active: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemCurve, "active"),
			"Whether the curve is currently used to control the fans",
			[]string{"curve"}, nil,
		),
	}
}

func (collector *CurveCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.active
}

// Collect implements required collect function for all prometheus collectors
func (collector *CurveCollector) Collect(ch chan<- prometheus.Metric) {
	activeCurve := collector.state.Snapshot().Curve
	for _, curve := range append(curves.All(), curves.Reset) {
		value := 0.0
		if curve == activeCurve {
			value = 1
		}
		ch <- prometheus.MustNewConstMetric(collector.active, prometheus.GaugeValue, value, curve.String())
	}
}
