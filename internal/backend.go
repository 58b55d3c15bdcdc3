package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/markusressel/keepcool/internal/configuration"
	"github.com/markusressel/keepcool/internal/controller"
	"github.com/markusressel/keepcool/internal/smc"
	"github.com/markusressel/keepcool/internal/statistics"
	"github.com/markusressel/keepcool/internal/supervisor"
	"github.com/markusressel/keepcool/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RunDaemon controls the fans until a shutdown signal is received
func RunDaemon() error {
	config := configuration.CurrentConfig
	if config.Channel.Type == smc.ChannelTypeIOKit && !config.DryRun && os.Geteuid() != 0 {
		return errors.New("fan control requires root permissions to be able to modify fan speeds, please run keepcool as root")
	}

	bridge, err := OpenBridge()
	if err != nil {
		return err
	}
	fanController, err := newFanController(bridge)
	if err != nil {
		_ = bridge.Close()
		return err
	}
	sup := supervisor.NewSupervisor(fanController, bridge, config.UpdatePeriod)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var g run.Group
	{
		if config.Statistics.Enabled {
			// === Prometheus Exporter
			if err := statistics.RegisterAll(prometheus.DefaultRegisterer, fanController, sup); err != nil {
				ui.Warning("Cannot register statistics: %v", err)
			}

			addr := fmt.Sprintf(":%d", config.Statistics.Port)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Addr: addr, Handler: mux}

			g.Add(func() error {
				ui.Info("Serving statistics on %s/metrics", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
				}
				<-ctx.Done()
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				}
				cancel()
			})
		}
	}
	{
		// === control loop
		g.Add(func() error {
			err := sup.Run(ctx)
			ui.Info("Control loop stopped.")
			return err
		}, func(err error) {
			cancel()
		})
	}
	{
		// === signal handling
		g.Add(func() error {
			return sup.ForwardSignals(ctx)
		}, func(err error) {
			cancel()
		})
	}

	return g.Run()
}

// RunOnce performs a single control cycle
func RunOnce() (supervisor.CycleResult, error) {
	return runSingleCycle(nil)
}

// Simulate performs a single control cycle using the given temperature instead of the sensor value
func Simulate(temperature float64) (supervisor.CycleResult, error) {
	return runSingleCycle(&temperature)
}

func runSingleCycle(temperature *float64) (supervisor.CycleResult, error) {
	bridge, err := OpenBridge()
	if err != nil {
		return supervisor.CycleResult{}, err
	}
	defer func() {
		if err := bridge.Close(); err != nil {
			ui.Warning("Error closing SMC connection: %v", err)
		}
	}()

	fanController, err := newFanController(bridge)
	if err != nil {
		return supervisor.CycleResult{}, err
	}
	if temperature != nil {
		fanController.OverrideTemperature(*temperature)
	}

	sup := supervisor.NewSupervisor(fanController, bridge, configuration.CurrentConfig.UpdatePeriod)
	result, err := sup.RunCycle()
	if result.Skipped {
		return result, err
	}

	ui.Debug("Current temperature: %.2f°C", result.Temperature)
	ui.Debug("Computed new fan speed: %d", result.Target)
	return result, err
}

// ReadTemperature reads the configured temperature sensor
func ReadTemperature() (float64, error) {
	bridge, err := OpenBridge()
	if err != nil {
		return 0, err
	}
	defer bridge.Close()

	fanController, err := newFanController(bridge)
	if err != nil {
		return 0, err
	}
	return fanController.SampleTemperature()
}

// OpenBridge opens the configured SMC channel
func OpenBridge() (*smc.Bridge, error) {
	channelConfig := configuration.CurrentConfig.ChannelConfig()
	bridge, err := smc.Open(channelConfig)
	if err != nil {
		return nil, err
	}
	ui.Debug("Opened SMC channel '%s'", channelConfig.Type)
	return bridge, nil
}

func newFanController(bridge *smc.Bridge) (*controller.FanController, error) {
	config, err := configuration.CurrentConfig.ControllerConfig()
	if err != nil {
		return nil, err
	}
	return controller.NewFanController(bridge, config), nil
}
