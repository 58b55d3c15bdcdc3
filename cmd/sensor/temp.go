package sensor

import (
	"github.com/markusressel/keepcool/internal"
	"github.com/markusressel/keepcool/internal/configuration"
	"github.com/markusressel/keepcool/internal/ui"
	"github.com/spf13/cobra"
)

var tempCmd = &cobra.Command{
	Use:   "temp",
	Short: "Print the current temperature of the configured sensor",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		temperature, err := internal.ReadTemperature()
		if err != nil {
			ui.Fatal("Cannot read temperature of %s: %v", configuration.CurrentConfig.TemperatureKey, err)
		}
		ui.Printfln("Temperature: %.2f°C", temperature)
	},
}

func init() {
	Command.AddCommand(tempCmd)
}
