package chat

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents one live connection to the gateway.
// A single user may have multiple devices/tabs, each maintained separately.
// A connection whose user ID is empty stayed anonymous after the handshake;
// it still receives broadcasts but never appears in the presence set.
type Client struct {
	ConnID string          // unique connection ID (snowflake)
	UserID string          // logical user ID from the handshake; may be empty
	WS     *websocket.Conn // underlying WebSocket
	Send   chan []byte     // outbound queue, drained by a single writer goroutine

	done      chan struct{}
	closeOnce sync.Once
}

// NewClient creates a new client connection object.
func NewClient(connID, userID string, ws *websocket.Conn, sendQueueSize int) *Client {
	return &Client{
		ConnID: connID,
		UserID: userID,
		WS:     ws,
		Send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
	}
}

// enqueue offers a payload to the outbound queue without blocking.
// Returns false when the client is gone or the queue is full (slow client).
func (c *Client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case <-c.done:
		return false
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// close releases the writer goroutine. Send is never closed so that an
// in-flight fan-out job can still race with teardown safely.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Done is closed when the connection is torn down.
func (c *Client) Done() <-chan struct{} { return c.done }
