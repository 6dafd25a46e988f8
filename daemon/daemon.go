// Package daemon detaches the middledrag server into the background
// and stops a detached instance over its own control protocol.
package daemon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lakitu/middledrag/server"
	"github.com/sevlyar/go-daemon"
)

// DaemonEnvVar marks the detached child process so the CLI can tell
// the two sides of the fork apart.
const DaemonEnvVar = "MIDDLEDRAG_DAEMON_CHILD"

const shutdownRequestID = 1

// Daemonize forks the process into the background. In the parent it
// returns the child's process handle; in the child it returns nil and
// execution continues as the server.
func Daemonize() (*os.Process, error) {
	// no PID or log file: the server logs for itself, and shutdown
	// goes through JSON-RPC rather than a tracked PID
	ctx := &daemon.Context{
		WorkDir: "/",
		Umask:   027,
		Args:    os.Args,
		Env:     append(os.Environ(), DaemonEnvVar+"=1"),
	}

	child, err := ctx.Reborn()
	if err != nil {
		return nil, fmt.Errorf("failed to daemonize: %w", err)
	}
	return child, nil
}

// IsChild reports whether this process is the detached server child.
func IsChild() bool {
	return os.Getenv(DaemonEnvVar) == "1"
}

// normalizeAddr fills in the pieces a bare port or host-less address
// is missing, matching how the server interprets its listen flag.
func normalizeAddr(addr string) string {
	if !strings.Contains(addr, ":") {
		if _, err := strconv.Atoi(addr); err == nil {
			addr = ":" + addr
		}
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return addr
}

// KillServer asks the server at addr to shut down via JSON-RPC. The
// server releases any held synthetic button before exiting.
func KillServer(addr string) error {
	addr = normalizeAddr(addr)

	reqBody := server.JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  "server.shutdown",
		ID:      shutdownRequestID,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest(http.MethodPost, "http://"+addr+"/rpc", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if strings.Contains(err.Error(), "connection refused") {
			return fmt.Errorf("server is not running on %s", addr)
		}
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return fmt.Errorf("server returned error: %s", resp.Status)
	}
	return resp.Body.Close()
}
