package ws

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

const readDeadline = 60 * time.Second

// Client is one live websocket connection. Outbound pushes go through a
// buffered channel drained by the write pump; a full buffer drops the push
// rather than blocking the router.
type Client struct {
	conn   *websocket.Conn
	UserID string

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClient(conn *websocket.Conn, userID string) *Client {
	return &Client{
		conn:   conn,
		UserID: userID,
		send:   make(chan []byte, 256),
	}
}

// Push queues msg for delivery. It never blocks; false means the event was
// dropped, either because the buffer was full or because the client already
// disconnected. A push racing Close is a dropped push, never a panic: the
// router may still hold this handle after the registry forgot it.
func (c *Client) Push(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Close is idempotent and safe to race with Push.
func (c *Client) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// readPump delivers each inbound frame to handle until the connection drops.
// Events from one connection are handled sequentially, so mutations caused
// by a single client keep their order.
func (c *Client) readPump(maxMsgSize int64, handle func(data []byte)) {
	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})
	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		handle(data)
	}
}

func (c *Client) writePump(pingInterval, writeDeadline time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(time.Second))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
