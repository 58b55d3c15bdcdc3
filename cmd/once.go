package cmd

import (
	"strconv"

	"github.com/markusressel/keepcool/internal"
	"github.com/markusressel/keepcool/internal/supervisor"
	"github.com/markusressel/keepcool/internal/ui"
	"github.com/spf13/cobra"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single control cycle and exit",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		validateConfig()
		result, err := internal.RunOnce()
		printCycleResult(result, err)
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate TEMPERATURE",
	Short: "Run a single control cycle using the given temperature (°C) instead of the sensor value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		temperature, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			ui.Fatal("Invalid temperature '%s': %v", args[0], err)
		}
		validateConfig()
		result, err := internal.Simulate(temperature)
		printCycleResult(result, err)
	},
}

func printCycleResult(result supervisor.CycleResult, err error) {
	if result.Skipped {
		ui.Fatal("Cannot use temperature: %v", err)
	}
	if err != nil {
		ui.Error("%v", err)
	}
	ui.Printfln("Temperature: %.2f°C, target minimum speed: %d rpm, fans written: %d", result.Temperature, result.Target, result.Written)
}

func init() {
	rootCmd.AddCommand(onceCmd)
	rootCmd.AddCommand(simulateCmd)
}
