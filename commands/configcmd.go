package commands

import (
	"encoding/json"
	"fmt"

	"github.com/lakitu/middledrag/config"
)

// ConfigGetCommand returns the effective (clamped) configuration.
func ConfigGetCommand() *CommandResponse {
	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(e.Config())
}

// ConfigSetCommand merges the given JSON fields over the current
// configuration, clamps the result, and applies it. Absent fields
// keep their current values.
func ConfigSetCommand(params json.RawMessage) *CommandResponse {
	if len(params) == 0 {
		return NewErrorResponse(fmt.Errorf("config parameters are required"))
	}

	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}

	merged := e.Config()
	if err := json.Unmarshal(params, &merged); err != nil {
		return NewErrorResponse(fmt.Errorf("invalid config parameters: %v", err))
	}

	applied := e.SetConfig(merged)
	return NewSuccessResponse(applied)
}

// ConfigLoadCommand reloads configuration from a file (or the default
// locations when path is empty) and applies it.
func ConfigLoadCommand(path string) *CommandResponse {
	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(e.SetConfig(cfg))
}
