package commands

import (
	"fmt"

	"github.com/lakitu/middledrag/devices"
	"github.com/lakitu/middledrag/engine"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

// Version is the build version reported by diagnostics and the CLI.
// Overridden at link time for releases.
var Version = "dev"

// gestureEngine is the engine instance commands operate on. It is set
// once at application startup via SetEngine.
var gestureEngine *engine.Engine

// synthRegistry tracks synthesizers for graceful shutdown cleanup
// (SIGINT/SIGTERM). Set once at startup via SetRegistry.
var synthRegistry *devices.Registry

// SetEngine installs the engine used by all commands. This should be
// called once at application startup (main.go or server startup).
func SetEngine(e *engine.Engine) {
	gestureEngine = e
}

// GetEngine returns the current engine, or nil before SetEngine.
func GetEngine() *engine.Engine {
	return gestureEngine
}

// SetRegistry sets the global synthesizer registry for cleanup tracking.
func SetRegistry(registry *devices.Registry) {
	synthRegistry = registry
}

// GetRegistry returns the current registry. Returns nil if
// SetRegistry has not been called yet.
func GetRegistry() *devices.Registry {
	return synthRegistry
}

func requireEngine() (*engine.Engine, error) {
	if gestureEngine == nil {
		return nil, fmt.Errorf("gesture engine is not running")
	}
	return gestureEngine, nil
}
