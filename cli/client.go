package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lakitu/middledrag/server"
)

// callServer sends one JSON-RPC request to a running middledrag
// server and returns the raw result.
func callServer(addr, method string, params interface{}) (json.RawMessage, error) {
	if addr == "" {
		addr = defaultServerAddress
	}
	if !strings.Contains(addr, ":") {
		if _, err := strconv.Atoi(addr); err == nil {
			addr = ":" + addr
		}
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	req := server.JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		ID:      1,
	}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
		req.Params = raw
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	httpReq, err := http.NewRequest(http.MethodPost, "http://"+addr+"/rpc", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		if strings.Contains(err.Error(), "connection refused") {
			return nil, fmt.Errorf("server is not running on %s", addr)
		}
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	var rpcResp struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int         `json:"code"`
			Message string      `json:"message"`
			Data    interface{} `json:"data"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("server error: %s (%v)", rpcResp.Error.Message, rpcResp.Error.Data)
	}
	return rpcResp.Result, nil
}

func printRawJson(raw json.RawMessage) error {
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}
	printJson(data)
	return nil
}
