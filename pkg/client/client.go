package client

import (
	"time"

	"campus-results/result-queue-server/pkg/msg"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 8192

	// Send pings to peer with this period.
	pingPeriod = 30 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = pingPeriod * 5 / 2
)

// Client is a middleman between one websocket connection and the hub.
// Connections are notification-only: the queue endpoints are plain
// http, so inbound frames are drained just to service pong handling.
type Client struct {
	id string

	conn *websocket.Conn

	// Buffered channel of outbound messages.
	sendWsMessage chan *msg.WsMessage

	// Closed once to tell the write pump to shut the connection down.
	close chan struct{}

	hub *Hub

	closed bool
}

func NewClient(id string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		id:            id,
		conn:          conn,
		sendWsMessage: make(chan *msg.WsMessage, 64),
		close:         make(chan struct{}, 1),
		hub:           hub,
	}
}

func (c *Client) Run() {
	c.hub.register <- c
	go c.readPump()
	go c.writePump()
}

// TryClose is safe to call more than once, only the first call wins.
func (c *Client) TryClose() {
	if c.closed {
		return
	}
	c.closed = true
	c.close <- struct{}{}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warnf("id[%v] read error %v", c.id, err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	pingTicker := time.NewTicker(pingPeriod)
	defer func() {
		pingTicker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case wsMessage, ok := <-c.sendWsMessage:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(wsMessage); err != nil {
				c.hub.logger.Warnf("id[%v] write error %v", c.id, err)
				return
			}

		case <-c.close:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case <-pingTicker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
