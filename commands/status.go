package commands

import (
	"github.com/lakitu/middledrag/engine"
	"github.com/lakitu/middledrag/types"
)

// StatusInfo is the externally visible state of the gesture engine.
type StatusInfo struct {
	DragActive    bool                `json:"dragActive"`
	Generation    uint64              `json:"generation"`
	EmittedClicks int                 `json:"emittedClicks"`
	Display       types.ScreenRect    `json:"display"`
	Sources       []engine.SourceInfo `json:"sources"`
}

// StatusCommand reports engine, session and source state.
func StatusCommand() *CommandResponse {
	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}

	synth := e.Synthesizer()
	info := StatusInfo{
		DragActive:    synth.Active(),
		Generation:    synth.Generation(),
		EmittedClicks: synth.EmittedClicks(),
		Display:       synth.Display(),
		Sources:       e.Sources(),
	}
	return NewSuccessResponse(info)
}
