package rpc

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// websocketConnection speaks JSON-RPC over a single WebSocket. One request is
// in flight at a time; the Client's mutex guarantees that, so reads here do
// not need response-id demultiplexing.
type websocketConnection struct {
	url  string
	opts Options
	conn *websocket.Conn
}

func newWebsocketConnection(url string, opts Options) *websocketConnection {
	return &websocketConnection{url: url, opts: opts}
}

func (w *websocketConnection) URL() string {
	return w.url
}

func (w *websocketConnection) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: w.opts.ConnectTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, w.url, w.opts.Header)
	if err != nil {
		return fmt.Errorf("dial %s: %w", w.url, err)
	}
	if w.conn != nil {
		_ = w.conn.Close()
	}
	w.conn = conn
	return nil
}

func (w *websocketConnection) Send(ctx context.Context, payload []byte) ([]byte, error) {
	if w.conn == nil {
		if err := w.Connect(ctx); err != nil {
			return nil, err
		}
	}

	deadline := time.Now().Add(w.opts.CallTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := w.conn.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	if err := w.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		w.reset()
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := w.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	_, resp, err := w.conn.ReadMessage()
	if err != nil {
		w.reset()
		return nil, fmt.Errorf("read: %w", err)
	}
	return resp, nil
}

// reset drops the socket so the next Send redials. Graphene nodes close idle
// sockets; a fresh dial is the recovery path for every send/read failure.
func (w *websocketConnection) reset() {
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
}

func (w *websocketConnection) Close() error {
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}
