package cli

import (
	"fmt"

	"github.com/lakitu/middledrag/devices"
	"github.com/lakitu/middledrag/pointer"
	"github.com/lakitu/middledrag/types"
	"github.com/spf13/cobra"
)

var clickAt string

// parsePoint parses an "x,y" pixel position.
func parsePoint(value string) (types.Point, error) {
	var p types.Point
	if _, err := fmt.Sscanf(value, "%f,%f", &p.X, &p.Y); err != nil {
		return p, fmt.Errorf("invalid position %q, expected \"x,y\"", value)
	}
	return p, nil
}

// standaloneSynthesizer builds a one-shot synthesizer on the platform
// sink, for commands that act without a running server. Standalone
// commands have no cursor query, so events land at --at when given
// and at the display origin otherwise.
func standaloneSynthesizer() (*pointer.Synthesizer, error) {
	display, err := parseDisplaySize(displaySize)
	if err != nil {
		return nil, err
	}
	sink, err := selectSink(sinkChoice)
	if err != nil {
		return nil, err
	}
	opts := pointer.Options{
		Sink:    sink,
		Display: display,
	}
	if clickAt != "" {
		p, err := parsePoint(clickAt)
		if err != nil {
			return nil, err
		}
		opts.Locator = devices.NewFixedLocator(p)
	}
	return pointer.NewSynthesizer(pointer.DefaultConfig(), opts), nil
}

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Emit one synthetic middle click",
	Long:  `Emits a synthetic middle button-down/button-up pair at --at "x,y", or at the display origin when no position is given. A running server places clicks at the pointer; this command cannot query the cursor.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		synth, err := standaloneSynthesizer()
		if err != nil {
			return err
		}
		synth.PerformClick()
		fmt.Println("click emitted")
		return nil
	},
}

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Force a middle button-up",
	Long:  `Unconditionally emits a middle button-up, recovering from a stuck synthetic button.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		synth, err := standaloneSynthesizer()
		if err != nil {
			return err
		}
		synth.ForceMiddleUp()
		fmt.Println("middle button released")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clickCmd)
	rootCmd.AddCommand(releaseCmd)

	for _, cmd := range []*cobra.Command{clickCmd, releaseCmd} {
		cmd.Flags().StringVar(&sinkChoice, "sink", "auto", "Event sink: 'auto' or 'log'")
		cmd.Flags().StringVar(&displaySize, "display", "1920x1080", "Active display size as WxH pixels")
		cmd.Flags().StringVar(&clickAt, "at", "", "Event position as \"x,y\" pixels (default: display origin)")
	}
}
