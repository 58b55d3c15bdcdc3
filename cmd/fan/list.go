package fan

import (
	"fmt"
	"strconv"

	"github.com/markusressel/keepcool/internal"
	"github.com/markusressel/keepcool/internal/ui"
	"github.com/markusressel/keepcool/internal/util"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the decoded state of all fans",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		bridge, err := internal.OpenBridge()
		if err != nil {
			ui.Fatal("%v", err)
		}
		defer bridge.Close()

		fans, err := bridge.ReadFans()
		if err != nil {
			ui.Fatal("Cannot read fans: %v", err)
		}

		ui.Printfln("Total fans in system: %d", len(fans))
		var rows [][]string
		var speeds []float64
		for _, fan := range fans {
			speeds = append(speeds, float64(fan.Actual))
			mode := "auto"
			if fan.Forced {
				mode = "forced"
			}
			rows = append(rows, []string{
				strconv.Itoa(fan.Index),
				fan.ID,
				fmt.Sprintf("%.0f", fan.Actual),
				fmt.Sprintf("%.0f", fan.Minimum),
				fmt.Sprintf("%.0f", fan.Maximum),
				fmt.Sprintf("%.0f", fan.Safe),
				fmt.Sprintf("%.0f", fan.Target),
				mode,
			})
		}
		ui.PrintTable([]string{"Fan", "ID", "Actual", "Minimum", "Maximum", "Safe", "Target", "Mode"}, rows)
		ui.Printfln("Average speed: %.0f rpm", util.Avg(speeds))
	},
}

func init() {
	Command.AddCommand(listCmd)
}
