//go:build !linux

package devices

import (
	"github.com/lakitu/middledrag/pointer"
	"github.com/lakitu/middledrag/utils"
)

// NewPlatformSink returns the best injection backend for this
// platform. No backend exists off linux yet, so events go to the log.
func NewPlatformSink() pointer.EventSink {
	utils.Verbose("no injection backend for this platform, using log sink")
	return LogSink{}
}
