package commands

import (
	"os"
	"runtime"

	"github.com/lakitu/middledrag/config"
)

// DoctorInfo summarizes the environment a support request needs.
type DoctorInfo struct {
	Version        string        `json:"version"`
	OS             string        `json:"os"`
	Arch           string        `json:"arch"`
	ConfigFile     string        `json:"config_file,omitempty"`
	UinputUsable   *bool         `json:"uinput_usable,omitempty"`
	EngineRunning  bool          `json:"engine_running"`
	EffectiveState config.Config `json:"effective_config"`
}

// DoctorCommand collects environment diagnostics.
func DoctorCommand(version string) *CommandResponse {
	info := DoctorInfo{
		Version: version,
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}

	info.ConfigFile = config.ResolvePath()
	if info.ConfigFile != "" {
		if cfg, err := config.Load(info.ConfigFile); err == nil {
			info.EffectiveState = cfg
		} else {
			info.EffectiveState = config.DefaultConfig()
		}
	} else {
		info.EffectiveState = config.DefaultConfig()
	}

	if runtime.GOOS == "linux" {
		usable := false
		if f, err := os.OpenFile("/dev/uinput", os.O_WRONLY, 0); err == nil {
			usable = true
			_ = f.Close()
		}
		info.UinputUsable = &usable
	}

	if e := GetEngine(); e != nil {
		info.EngineRunning = true
		info.EffectiveState = e.Config()
	}

	return NewSuccessResponse(info)
}
