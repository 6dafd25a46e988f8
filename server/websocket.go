package server

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lakitu/middledrag/types"
	"github.com/lakitu/middledrag/utils"
)

type wsConnection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// subscribers are the connections that asked to receive gesture
// events. Broadcast failures drop the subscriber.
var (
	subscribersMu sync.Mutex
	subscribers   = make(map[*wsConnection]bool)
)

// gestureEventEnvelope is the unsolicited notification wrapping a
// broadcast gesture event. It carries no ID, distinguishing it from
// JSON-RPC responses.
type gestureEventEnvelope struct {
	JSONRPC string             `json:"jsonrpc"`
	Method  string             `json:"method"`
	Params  types.GestureEvent `json:"params"`
}

func newUpgrader(enableCORS bool) *websocket.Upgrader {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	if enableCORS {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	} else {
		upgrader.CheckOrigin = isSameOrigin
	}

	return &upgrader
}

// NewWebSocketHandler returns the /ws endpoint handler.
func NewWebSocketHandler(enableCORS bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, enableCORS)
	})
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, enableCORS bool) {
	conn, err := newUpgrader(enableCORS).Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	wsConn := &wsConnection{conn: conn}
	defer unsubscribe(wsConn)

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			// connection closed or error
			utils.Verbose("WebSocket connection closed: %v", err)
			break
		}

		if messageType != websocket.TextMessage {
			wsConn.sendError(nil, ErrCodeInvalidRequest, "Invalid Request", "only text messages accepted for requests")
			continue
		}

		handleWSMessage(wsConn, message)
	}
}

func isSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return originURL.Host == r.Host
}

func handleWSMessage(wsConn *wsConnection, message []byte) {
	var req JSONRPCRequest
	if err := json.Unmarshal(message, &req); err != nil {
		wsConn.sendError(nil, ErrCodeParseError, "Parse error", "expecting jsonrpc payload")
		return
	}

	if req.JSONRPC != "2.0" {
		wsConn.sendError(req.ID, ErrCodeInvalidRequest, "Invalid Request", "'jsonrpc' must be '2.0'")
		return
	}

	if req.ID == nil {
		wsConn.sendError(nil, ErrCodeInvalidRequest, "Invalid Request", "'id' field is required")
		return
	}

	if req.Method == "" {
		wsConn.sendError(req.ID, ErrCodeInvalidRequest, "Invalid Request", "'method' is required")
		return
	}

	if req.Method != "frames" {
		utils.Verbose("WebSocket Request ID: %v, Method: %s", req.ID, req.Method)
	}

	handleWSMethodCall(wsConn, req)
}

func handleWSMethodCall(wsConn *wsConnection, req JSONRPCRequest) {
	// subscription is a WebSocket-only method: the connection itself
	// is the subscription handle
	switch req.Method {
	case "subscribe":
		subscribe(wsConn)
		wsConn.sendResponse(req.ID, okResponse)
		return
	case "unsubscribe":
		unsubscribe(wsConn)
		wsConn.sendResponse(req.ID, okResponse)
		return
	}

	result, err := Execute(req.Method, req.Params)
	if err != nil {
		if err == errMethodNotFound {
			wsConn.sendError(req.ID, ErrCodeMethodNotFound, "Method not found", req.Method+" not found")
			return
		}
		log.Printf("Error executing method %s: %v", req.Method, err)
		wsConn.sendError(req.ID, ErrCodeServerError, "Server error", err.Error())
		return
	}

	wsConn.sendResponse(req.ID, result)
}

func subscribe(wsConn *wsConnection) {
	subscribersMu.Lock()
	defer subscribersMu.Unlock()
	subscribers[wsConn] = true
}

func unsubscribe(wsConn *wsConnection) {
	subscribersMu.Lock()
	defer subscribersMu.Unlock()
	delete(subscribers, wsConn)
}

// broadcastGestureEvent fans a recognizer event out to every
// subscriber. It runs on the gesture context, so writes must not
// block: a subscriber whose write fails is dropped.
func broadcastGestureEvent(ev types.GestureEvent) {
	subscribersMu.Lock()
	conns := make([]*wsConnection, 0, len(subscribers))
	for c := range subscribers {
		conns = append(conns, c)
	}
	subscribersMu.Unlock()

	envelope := gestureEventEnvelope{
		JSONRPC: "2.0",
		Method:  "gesture_event",
		Params:  ev,
	}
	for _, c := range conns {
		if err := c.sendJSON(envelope); err != nil {
			utils.Warn("dropping gesture event subscriber: %v", err)
			unsubscribe(c)
		}
	}
}

func (wsc *wsConnection) sendResponse(id interface{}, result interface{}) error {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}
	return wsc.sendJSON(response)
}

func (wsc *wsConnection) sendError(id interface{}, code int, message string, data interface{}) error {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}
	return wsc.sendJSON(response)
}

func (wsc *wsConnection) sendJSON(v interface{}) error {
	wsc.writeMu.Lock()
	defer wsc.writeMu.Unlock()
	return wsc.conn.WriteJSON(v)
}
