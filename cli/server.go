package cli

import (
	"fmt"
	"strings"

	"github.com/lakitu/middledrag/commands"
	"github.com/lakitu/middledrag/config"
	"github.com/lakitu/middledrag/daemon"
	"github.com/lakitu/middledrag/devices"
	"github.com/lakitu/middledrag/engine"
	"github.com/lakitu/middledrag/pointer"
	"github.com/lakitu/middledrag/server"
	"github.com/lakitu/middledrag/types"
	"github.com/spf13/cobra"
)

const defaultServerAddress = "localhost:12100"

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the middledrag server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the middledrag server",
	Long:  `Starts the gesture engine and the JSON-RPC control server.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr := cmd.Flag("listen").Value.String()
		if listenAddr == "" {
			listenAddr = defaultServerAddress
		}

		// GetBool cannot fail for defined flags
		enableCORS, _ := cmd.Flags().GetBool("cors")
		isDaemon, _ := cmd.Flags().GetBool("daemon")

		if isDaemon && !daemon.IsChild() {
			_, err := daemon.Daemonize()
			if err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			fmt.Printf("Server daemon spawned, attempting to listen on %s\n", listenAddr)
			return nil
		}

		if err := startEngine(); err != nil {
			return err
		}

		return server.StartServer(listenAddr, enableCORS)
	},
}

var serverKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Stop the daemonized middledrag server",
	Long:  `Connects to the server and sends a shutdown command via JSON-RPC.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// GetString cannot fail for defined flags
		addr, _ := cmd.Flags().GetString("listen")
		if addr == "" {
			addr = defaultServerAddress
		}

		err := daemon.KillServer(addr)
		if err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

// startEngine builds the engine from flags and wires it into the
// commands layer.
func startEngine() error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	display, err := parseDisplaySize(displaySize)
	if err != nil {
		return err
	}

	sink, err := selectSink(sinkChoice)
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg, engine.Options{
		Sink:    sink,
		Display: display,
	})
	if err != nil {
		return err
	}

	registry := commands.GetRegistry()
	if registry == nil {
		registry = devices.NewRegistry()
		commands.SetRegistry(registry)
	}
	registry.Register("engine", eng.Synthesizer())
	commands.SetEngine(eng)
	return nil
}

func selectSink(choice string) (pointer.EventSink, error) {
	switch choice {
	case "", "auto":
		return devices.NewPlatformSink(), nil
	case "log":
		return devices.LogSink{}, nil
	default:
		return nil, fmt.Errorf("unknown sink %q (expected 'auto' or 'log')", choice)
	}
}

// parseDisplaySize parses a WxH flag value like "1920x1080" into
// display bounds anchored at the origin.
func parseDisplaySize(value string) (types.ScreenRect, error) {
	var w, h float64
	value = strings.ToLower(strings.TrimSpace(value))
	if _, err := fmt.Sscanf(value, "%fx%f", &w, &h); err != nil {
		return types.ScreenRect{}, fmt.Errorf("invalid display size %q (expected WxH, e.g. 1920x1080)", value)
	}
	if w <= 0 || h <= 0 {
		return types.ScreenRect{}, fmt.Errorf("display dimensions must be positive, got %q", value)
	}
	return types.ScreenRect{Width: w, Height: h}, nil
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)

	// server start flags
	serverStartCmd.Flags().String("listen", "", "Address to listen on (e.g., 'localhost:12100' or '0.0.0.0:13000')")
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")
	serverStartCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (.ini or .plist)")
	serverStartCmd.Flags().StringVar(&sinkChoice, "sink", "auto", "Event sink: 'auto' or 'log'")
	serverStartCmd.Flags().StringVar(&displaySize, "display", "1920x1080", "Active display size as WxH pixels")

	// server kill flags
	serverKillCmd.Flags().String("listen", "", fmt.Sprintf("Address of server to kill (default: %s)", defaultServerAddress))
}
