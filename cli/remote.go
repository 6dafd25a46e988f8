package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show gesture engine status",
	Long:  `Queries a running middledrag server for session and source state.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := callServer(serverAddr, "status", nil)
		if err != nil {
			return err
		}
		return printRawJson(result)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
	Long:  `Inspect or change the configuration of a running middledrag server.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := callServer(serverAddr, "config_get", nil)
		if err != nil {
			return err
		}
		return printRawJson(result)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <json>",
	Short: "Merge JSON fields into the configuration",
	Long:  `Merges the given JSON object over the running server's configuration, e.g. '{"sensitivity": 3.0}'. Values are clamped to sane bounds.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(args[0]), &fields); err != nil {
			return fmt.Errorf("invalid JSON argument: %w", err)
		}
		result, err := callServer(serverAddr, "config_set", fields)
		if err != nil {
			return err
		}
		return printRawJson(result)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)

	for _, cmd := range []*cobra.Command{statusCmd, configShowCmd, configSetCmd} {
		cmd.Flags().StringVar(&serverAddr, "listen", "", fmt.Sprintf("Address of the server (default: %s)", defaultServerAddress))
	}
}
