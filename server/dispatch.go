package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/lakitu/middledrag/commands"
)

var shutdownOnce sync.Once

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(params json.RawMessage) (interface{}, error)

var errMethodNotFound = errors.New("method not found")

// GetMethodRegistry returns a map of method names to handler functions.
// This is used by both the HTTP server and the WebSocket path.
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"status":            handleStatus,
		"click":             handleClick,
		"force_release":     handleForceRelease,
		"config_get":        handleConfigGet,
		"config_set":        handleConfigSet,
		"config_load":       handleConfigLoad,
		"source_register":   handleSourceRegister,
		"source_unregister": handleSourceUnregister,
		"frames":            handleFrames,
		"doctor":            handleDoctor,
		"server.shutdown":   handleShutdown,
	}
}

// Execute dispatches a method call using the registry.
func Execute(method string, params json.RawMessage) (interface{}, error) {
	registry := GetMethodRegistry()

	handler, exists := registry[method]
	if !exists {
		return nil, errMethodNotFound
	}

	return handler(params)
}

// responseResult unwraps a CommandResponse into the JSON-RPC result
// or error.
func responseResult(resp *commands.CommandResponse) (interface{}, error) {
	if resp.Status == "error" {
		return nil, fmt.Errorf("%s", resp.Error)
	}
	if resp.Data == nil {
		return okResponse, nil
	}
	return resp.Data, nil
}

func handleStatus(json.RawMessage) (interface{}, error) {
	return responseResult(commands.StatusCommand())
}

func handleClick(params json.RawMessage) (interface{}, error) {
	var clickParams commands.ClickRequest
	if len(params) > 0 {
		if err := json.Unmarshal(params, &clickParams); err != nil {
			return nil, fmt.Errorf("invalid parameters: %v", err)
		}
	}
	return responseResult(commands.ClickCommand(clickParams))
}

func handleForceRelease(json.RawMessage) (interface{}, error) {
	return responseResult(commands.ForceReleaseCommand())
}

func handleConfigGet(json.RawMessage) (interface{}, error) {
	return responseResult(commands.ConfigGetCommand())
}

func handleConfigSet(params json.RawMessage) (interface{}, error) {
	return responseResult(commands.ConfigSetCommand(params))
}

type configLoadParams struct {
	Path string `json:"path"`
}

func handleConfigLoad(params json.RawMessage) (interface{}, error) {
	var loadParams configLoadParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &loadParams); err != nil {
			return nil, fmt.Errorf("invalid parameters: %v", err)
		}
	}
	return responseResult(commands.ConfigLoadCommand(loadParams.Path))
}

func handleSourceRegister(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with field: name")
	}

	var registerParams commands.SourceRegisterRequest
	if err := json.Unmarshal(params, &registerParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: name", err)
	}
	return responseResult(commands.SourceRegisterCommand(registerParams))
}

func handleSourceUnregister(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with field: sourceId")
	}

	var unregisterParams commands.SourceUnregisterRequest
	if err := json.Unmarshal(params, &unregisterParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: sourceId", err)
	}
	return responseResult(commands.SourceUnregisterCommand(unregisterParams))
}

func handleFrames(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: sourceId, frames")
	}

	var framesParams commands.FramesRequest
	if err := json.Unmarshal(params, &framesParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: sourceId, frames", err)
	}
	return responseResult(commands.FramesCommand(framesParams))
}

func handleDoctor(json.RawMessage) (interface{}, error) {
	return responseResult(commands.DoctorCommand(commands.Version))
}

func handleShutdown(json.RawMessage) (interface{}, error) {
	if shutdownRequested != nil {
		ch := shutdownRequested
		shutdownOnce.Do(func() { close(ch) })
	}
	return okResponse, nil
}
