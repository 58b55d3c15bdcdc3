package sensor

import (
	"fmt"
	"strconv"

	"github.com/markusressel/keepcool/internal"
	"github.com/markusressel/keepcool/internal/smc"
	"github.com/markusressel/keepcool/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all SMC temperature sensor keys and values",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		bridge, err := internal.OpenBridge()
		if err != nil {
			ui.Fatal("%v", err)
		}
		defer bridge.Close()

		values, err := bridge.ReadKeys(smc.IsTemperatureKey)
		if err != nil {
			ui.Fatal("Cannot enumerate SMC keys: %v", err)
		}

		var rows [][]string
		for _, value := range values {
			decoded := "N/A"
			if number, err := smc.DecodeNumeric(value); err == nil {
				decoded = strconv.FormatFloat(number, 'f', 2, 64)
			}
			rows = append(rows, []string{
				value.Key.String(),
				fmt.Sprintf("[%s]", value.DataType),
				decoded,
				fmt.Sprintf("% x", value.Data()),
			})
		}
		ui.PrintTable([]string{"Key", "Type", "Value", "Bytes"}, rows)
	},
}

func init() {
	Command.AddCommand(listCmd)
}
