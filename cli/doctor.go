package cli

import (
	"github.com/lakitu/middledrag/commands"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment for problems",
	Long:  `Reports platform, injection backend availability and the effective configuration.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.DoctorCommand(commands.Version)
		printJson(response)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
