package commands

import (
	"fmt"

	"github.com/lakitu/middledrag/types"
)

// ClickRequest represents the parameters for a manual click command
type ClickRequest struct {
	// SourceID is informational; clicks go through the shared
	// synthesizer regardless of which source requested them.
	SourceID string `json:"sourceId,omitempty"`
}

// FramesRequest represents a batch of touch frames to feed a
// registered source
type FramesRequest struct {
	SourceID string             `json:"sourceId"`
	Frames   []types.TouchFrame `json:"frames"`
}

// SourceRegisterRequest represents the parameters for registering a
// frame source
type SourceRegisterRequest struct {
	Name string `json:"name"`
}

// SourceUnregisterRequest represents the parameters for detaching a
// frame source
type SourceUnregisterRequest struct {
	SourceID string `json:"sourceId"`
}

// ClickCommand emits one deduplicated synthetic middle click.
func ClickCommand(req ClickRequest) *CommandResponse {
	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}

	e.Click()
	return NewSuccessResponse(map[string]interface{}{
		"message": "click requested",
	})
}

// ForceReleaseCommand unconditionally emits a middle button-up. This
// is the emergency recovery path for a stuck button.
func ForceReleaseCommand() *CommandResponse {
	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}

	e.ForceRelease()
	return NewSuccessResponse(map[string]interface{}{
		"message": "middle button released",
	})
}

// SourceRegisterCommand attaches a new frame source and returns its
// registration ID.
func SourceRegisterCommand(req SourceRegisterRequest) *CommandResponse {
	if req.Name == "" {
		return NewErrorResponse(fmt.Errorf("source name is required"))
	}

	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}

	id := e.RegisterSource(req.Name)
	return NewSuccessResponse(map[string]interface{}{
		"sourceId": id,
	})
}

// SourceUnregisterCommand detaches a frame source, cancelling any
// gesture it had in flight.
func SourceUnregisterCommand(req SourceUnregisterRequest) *CommandResponse {
	if req.SourceID == "" {
		return NewErrorResponse(fmt.Errorf("sourceId is required"))
	}

	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}

	if !e.UnregisterSource(req.SourceID) {
		return NewErrorResponse(fmt.Errorf("source not found: %s", req.SourceID))
	}
	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("source %s unregistered", req.SourceID),
	})
}

// FramesCommand feeds a batch of touch frames to a registered source,
// in order.
func FramesCommand(req FramesRequest) *CommandResponse {
	if req.SourceID == "" {
		return NewErrorResponse(fmt.Errorf("sourceId is required"))
	}
	if len(req.Frames) == 0 {
		return NewErrorResponse(fmt.Errorf("at least one frame is required"))
	}

	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := e.SubmitFrames(req.SourceID, req.Frames); err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(map[string]interface{}{
		"accepted": len(req.Frames),
	})
}
