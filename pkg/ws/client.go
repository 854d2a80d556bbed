package ws

import (
	"github.com/gorilla/websocket"
)

// Client is a middleman between a websocket connection and the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	channel string
	userID  string

	// Buffered channel of outbound messages.
	send chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, channel, userID string) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		channel: channel,
		userID:  userID,
		send:    make(chan []byte, 128),
	}
}

func (c *Client) UserID() string {
	return c.userID
}

// Run registers the client and pumps messages until the connection drops.
// It blocks, so callers usually run it in the websocket handler goroutine.
func (c *Client) Run() {
	c.hub.register <- c
	go c.runWriter()
	c.runReader()
}

func (c *Client) runReader() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		t, _, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		if t == websocket.CloseMessage {
			return
		}
	}
}

func (c *Client) runWriter() {
	for msg := range c.send {
		compressed, err := Compress(msg)
		if err != nil {
			continue
		}

		if err := c.conn.WriteMessage(websocket.TextMessage, compressed); err != nil {
			return
		}
	}
}
