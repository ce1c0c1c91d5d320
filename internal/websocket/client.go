package websocket

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	ID   uuid.UUID
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan []byte

	closeOnce sync.Once

	mu       sync.Mutex
	username string
	email    string
	roomID   uuid.UUID
	hasRoom  bool
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.New(),
		Conn: conn,
		Send: make(chan []byte, 256),
	}
}

// SetIdentity records the display name and contact identity used for
// presence and chat events.
func (c *Client) SetIdentity(username, email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if username != "" {
		c.username = username
	}
	if email != "" {
		c.email = email
	}
}

func (c *Client) Identity() (username, email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.username, c.email
}

// SetRoom records the single discussion room this connection belongs to.
func (c *Client) SetRoom(roomID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
	c.hasRoom = true
}

func (c *Client) Room() (uuid.UUID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID, c.hasRoom
}

func (c *Client) ClearRoom() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = uuid.Nil
	c.hasRoom = false
}

// CloseSend closes the outbound channel exactly once. The write pump sends
// the close frame when it drains the closed channel.
func (c *Client) CloseSend() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// PrepareRead configures the read side of the connection: size limit, read
// deadline, and the pong handler that extends it.
func (c *Client) PrepareRead() {
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
