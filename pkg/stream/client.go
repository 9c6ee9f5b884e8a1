package stream

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/waedt/gbvideo/pkg/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Client is a single connected video-stream consumer, mirroring the
// teacher's web.Client: a websocket connection plus a buffered outbound
// queue drained by WritePump.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	log  log.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, logger log.Logger) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 4),
		log:  logger,
	}
}

// ReadPump discards inbound traffic but keeps the connection's read
// deadline alive; a real control channel is out of this package's scope.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// WritePump drains send to the websocket connection, pinging on idle per
// the gorilla/websocket keepalive convention the teacher's hub follows.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				c.log.Errorf("stream: write to client failed: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
