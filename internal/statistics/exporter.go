package statistics

import (
	"github.com/markusressel/keepcool/internal/controller"
	"github.com/markusressel/keepcool/internal/supervisor"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "keepcool"
)

// StateSource provides the current controller state
type StateSource interface {
	Snapshot() controller.State
}

// StatisticsSource provides the counters of the control loop
type StatisticsSource interface {
	Statistics() supervisor.Statistics
}

// RegisterAll registers every collector of this package with the given registerer
func RegisterAll(registerer prometheus.Registerer, state StateSource, stats StatisticsSource) error {
	collectors := []prometheus.Collector{
		NewSensorCollector(state),
		NewFanCollector(state),
		NewCurveCollector(state),
		NewSupervisorCollector(stats),
	}
	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			return err
		}
	}
	return nil
}
