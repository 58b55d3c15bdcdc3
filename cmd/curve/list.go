package curve

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/keepcool/internal/configuration"
	"github.com/markusressel/keepcool/internal/curves"
	"github.com/markusressel/keepcool/internal/ui"
	"github.com/markusressel/keepcool/internal/util"
	"github.com/spf13/cobra"
)

// degrees plotted below the minimum and above the maximum temperature
const plotMargin = 5

var curveCmd = &cobra.Command{
	Use:   "list",
	Short: "Plot all curves for the configured temperature and speed range",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := configuration.CurrentConfig
		speeds := curves.SpeedRange{Min: config.MinSpeed, Max: config.MaxSpeed}

		for idx, curve := range curves.All() {
			if idx > 0 {
				ui.Printfln("")
				ui.Printfln("")
			}

			active := ""
			if curve == config.Curve {
				active = "*"
			}
			values := plotValues(curve, config.MinTemperature, config.MaxTemperature, speeds)
			ui.PrintTable([]string{"Curve", "Temperature", "Speed", "Active"}, [][]string{{
				curve.String(),
				fmt.Sprintf("%d°C - %d°C", config.MinTemperature, config.MaxTemperature),
				fmt.Sprintf("%.0f - %.0f rpm", util.Min(values), util.Max(values)),
				active,
			}})

			caption := fmt.Sprintf("RPM, %d°C to %d°C", int(config.MinTemperature)-plotMargin, config.MaxTemperature+plotMargin)
			graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
			ui.Printfln(graph)
		}
	},
}

// plotValues evaluates the curve in 0.5 °C steps
func plotValues(curve curves.CurveId, minTemp uint32, maxTemp uint32, speeds curves.SpeedRange) []float64 {
	var values []float64
	for temp := float64(minTemp) - plotMargin; temp <= float64(maxTemp)+plotMargin; temp += 0.5 {
		values = append(values, float64(curves.ComputeTargetSpeed(curve, temp, minTemp, maxTemp, speeds)))
	}
	return values
}

func init() {
	Command.AddCommand(curveCmd)
}
