package service

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "service",
	Short:            "launchd service related commands",
	TraverseChildren: true,
}
