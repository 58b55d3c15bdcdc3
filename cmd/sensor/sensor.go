package sensor

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "sensor",
	Short:            "Temperature sensor related commands",
	Long:             ``,
	TraverseChildren: true,
}
