package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakitu/middledrag/commands"
	"github.com/lakitu/middledrag/types"
)

func setupWSServer(enableCORS bool) (*httptest.Server, string) {
	handler := NewWebSocketHandler(enableCORS)
	server := httptest.NewServer(handler)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	return server, wsURL
}

func connectWebSocket(t *testing.T, url string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "should connect to WebSocket")
	return conn
}

func sendWSRequest(t *testing.T, conn *websocket.Conn, req JSONRPCRequest) {
	require.NoError(t, conn.WriteJSON(req), "should send request")
}

func readWSResponse(t *testing.T, conn *websocket.Conn) JSONRPCResponse {
	var resp JSONRPCResponse
	require.NoError(t, conn.ReadJSON(&resp), "should read response")
	return resp
}

func TestWebSocket_ValidRequest(t *testing.T) {
	server, wsURL := setupWSServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	sendWSRequest(t, conn, JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  "status",
		ID:      1,
	})
	resp := readWSResponse(t, conn)

	assert.Equal(t, "2.0", resp.JSONRPC)
	assert.Equal(t, 1, int(resp.ID.(float64)))
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Result)
}

func TestWebSocket_Validation(t *testing.T) {
	tests := []struct {
		name     string
		req      JSONRPCRequest
		wantCode float64
		wantData string
	}{
		{
			name:     "wrong jsonrpc version",
			req:      JSONRPCRequest{JSONRPC: "1.0", Method: "status", ID: 1},
			wantCode: float64(ErrCodeInvalidRequest),
			wantData: "'jsonrpc' must be '2.0'",
		},
		{
			name:     "missing id",
			req:      JSONRPCRequest{JSONRPC: "2.0", Method: "status"},
			wantCode: float64(ErrCodeInvalidRequest),
			wantData: "'id' field is required",
		},
		{
			name:     "missing method",
			req:      JSONRPCRequest{JSONRPC: "2.0", ID: 1},
			wantCode: float64(ErrCodeInvalidRequest),
			wantData: "'method' is required",
		},
	}

	server, wsURL := setupWSServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sendWSRequest(t, conn, tt.req)
			resp := readWSResponse(t, conn)

			require.NotNil(t, resp.Error)
			errMap := resp.Error.(map[string]interface{})
			assert.Equal(t, tt.wantCode, errMap["code"])
			assert.Equal(t, tt.wantData, errMap["data"])
		})
	}
}

func TestWebSocket_InvalidJSON(t *testing.T) {
	server, wsURL := setupWSServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("invalid json")))
	resp := readWSResponse(t, conn)

	require.NotNil(t, resp.Error)
	errMap := resp.Error.(map[string]interface{})
	assert.Equal(t, float64(ErrCodeParseError), errMap["code"])
}

func TestWebSocket_BinaryMessageRejected(t *testing.T) {
	server, wsURL := setupWSServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte("binary data")))
	resp := readWSResponse(t, conn)

	require.NotNil(t, resp.Error)
	errMap := resp.Error.(map[string]interface{})
	assert.Equal(t, float64(ErrCodeInvalidRequest), errMap["code"])
	assert.Equal(t, "only text messages accepted for requests", errMap["data"])
}

func TestWebSocket_MethodNotFound(t *testing.T) {
	server, wsURL := setupWSServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	sendWSRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: "nonexistent_method", ID: 1})
	resp := readWSResponse(t, conn)

	require.NotNil(t, resp.Error)
	errMap := resp.Error.(map[string]interface{})
	assert.Equal(t, float64(ErrCodeMethodNotFound), errMap["code"])
}

func TestWebSocket_StringID(t *testing.T) {
	server, wsURL := setupWSServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	sendWSRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: "status", ID: "string-id-123"})
	resp := readWSResponse(t, conn)

	assert.Equal(t, "string-id-123", resp.ID)
	assert.Nil(t, resp.Error)
}

func TestWebSocket_SubscribeReceivesGestureEvents(t *testing.T) {
	server, wsURL := setupWSServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	sendWSRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: "subscribe", ID: 1})
	resp := readWSResponse(t, conn)
	require.Nil(t, resp.Error)

	// route engine events to the broadcast path, as StartServer does
	e := commands.GetEngine()
	require.NotNil(t, e)
	e.SetNotify(broadcastGestureEvent)
	defer e.SetNotify(nil)

	id := e.RegisterSource("ws-subscribe-test")
	defer e.UnregisterSource(id)

	base := time.Now()
	three := []types.TouchSample{
		{ID: 1, X: 0.48, Y: 0.5, Size: 1, State: types.LifecycleActive},
		{ID: 2, X: 0.5, Y: 0.5, Size: 1, State: types.LifecycleActive},
		{ID: 3, X: 0.52, Y: 0.5, Size: 1, State: types.LifecycleActive},
	}
	require.NoError(t, e.SubmitFrame(id, types.TouchFrame{Timestamp: base, Samples: three}))

	// the started event arrives as an unsolicited notification
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var envelope struct {
		JSONRPC string             `json:"jsonrpc"`
		Method  string             `json:"method"`
		Params  types.GestureEvent `json:"params"`
	}
	require.NoError(t, conn.ReadJSON(&envelope))

	assert.Equal(t, "2.0", envelope.JSONRPC)
	assert.Equal(t, "gesture_event", envelope.Method)
	assert.Equal(t, types.GestureStarted, envelope.Params.Type)
	assert.Equal(t, id, envelope.Params.SourceID)
	require.NotNil(t, envelope.Params.Centroid)
	assert.InDelta(t, 0.5, envelope.Params.Centroid.X, 1e-9)
}

func TestWebSocket_UnsubscribeStopsDelivery(t *testing.T) {
	wsConn := &wsConnection{}

	subscribe(wsConn)
	subscribersMu.Lock()
	_, present := subscribers[wsConn]
	subscribersMu.Unlock()
	assert.True(t, present)

	unsubscribe(wsConn)
	subscribersMu.Lock()
	_, present = subscribers[wsConn]
	subscribersMu.Unlock()
	assert.False(t, present)
}

func TestBroadcastDropsDeadSubscriber(t *testing.T) {
	server, wsURL := setupWSServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	sendWSRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: "subscribe", ID: 1})
	readWSResponse(t, conn)

	// kill the transport under the subscription
	conn.Close()

	// broadcasts must prune the dead connection rather than error out
	assert.Eventually(t, func() bool {
		broadcastGestureEvent(types.GestureEvent{Type: types.GestureTap})
		subscribersMu.Lock()
		defer subscribersMu.Unlock()
		return len(subscribers) == 0
	}, 2*time.Second, 50*time.Millisecond)
}

func TestWebSocket_CORSEnabled(t *testing.T) {
	server, wsURL := setupWSServer(true)
	defer server.Close()

	headers := http.Header{}
	headers.Set("Origin", "http://different-origin.com")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, headers)
	require.NoError(t, err, "should connect with CORS enabled")
	defer conn.Close()

	sendWSRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: "status", ID: 1})
	resp := readWSResponse(t, conn)
	assert.Nil(t, resp.Error)
}

func TestWebSocket_CORSDisabled(t *testing.T) {
	server, wsURL := setupWSServer(false)
	defer server.Close()

	headers := http.Header{}
	headers.Set("Origin", "http://different-origin.com")

	_, _, err := websocket.DefaultDialer.Dial(wsURL, headers)
	assert.Error(t, err, "should reject cross-origin connection when CORS disabled")
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		host     string
		expected bool
	}{
		{"no origin header", "", "localhost:8080", true},
		{"same origin", "http://localhost:8080", "localhost:8080", true},
		{"different origin", "http://other.com", "localhost:8080", false},
		{"invalid origin url", "://invalid", "localhost:8080", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{
				Header: http.Header{},
				Host:   tt.host,
			}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.expected, isSameOrigin(req))
		})
	}
}

func TestWebSocket_FramesNotLogged(t *testing.T) {
	// frames is dispatched like any other method; this covers the RPC
	// path end to end over the socket
	server, wsURL := setupWSServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	e := commands.GetEngine()
	id := e.RegisterSource("ws-frames-test")
	defer e.UnregisterSource(id)

	params, err := json.Marshal(map[string]interface{}{
		"sourceId": id,
		"frames": []map[string]interface{}{
			{"samples": []map[string]interface{}{
				{"id": 1, "x": 0.48, "y": 0.5, "size": 1.0, "state": "active"},
				{"id": 2, "x": 0.5, "y": 0.5, "size": 1.0, "state": "active"},
				{"id": 3, "x": 0.52, "y": 0.5, "size": 1.0, "state": "active"},
			}},
		},
	})
	require.NoError(t, err)

	sendWSRequest(t, conn, JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  "frames",
		Params:  params,
		ID:      1,
	})
	resp := readWSResponse(t, conn)

	require.Nil(t, resp.Error)
	result := resp.Result.(map[string]interface{})
	assert.Equal(t, float64(1), result["accepted"])
}
