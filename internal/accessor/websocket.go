package accessor

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketAccessor is an AssetAccessor for endpoints that push tile and
// endpoint data over a persistent ws:// connection instead of one
// request per fetch, grounded on the teacher's own net.Conn-based RPC
// client shape (a single connection, a mutex serialising request/reply
// pairs, one in-flight call at a time).
type WebSocketAccessor struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

type wsRequest struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

type wsResponse struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    []byte            `json:"body"`
}

// DialWebSocketAccessor opens a connection to a ws:// endpoint.
func DialWebSocketAccessor(ctx context.Context, url string) (*WebSocketAccessor, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket accessor: %w", err)
	}
	return &WebSocketAccessor{conn: conn}, nil
}

func (a *WebSocketAccessor) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.conn.WriteJSON(wsRequest{URL: url, Headers: headers}); err != nil {
		return Response{}, fmt.Errorf("write websocket request: %w", err)
	}

	var reply wsResponse
	if err := a.conn.ReadJSON(&reply); err != nil {
		return Response{}, fmt.Errorf("read websocket reply: %w", err)
	}

	return Response{
		Status:  reply.Status,
		Headers: reply.Headers,
		Body:    reply.Body,
		URL:     url,
	}, nil
}

// Close closes the underlying connection.
func (a *WebSocketAccessor) Close() error {
	return a.conn.Close()
}
