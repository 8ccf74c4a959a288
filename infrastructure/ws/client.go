package ws

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	cerrors "chat-rooms/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Client owns one live connection: a read pump dispatching inbound events to
// the router and a write pump draining the send buffer.
type Client struct {
	ID     string
	hub    *Hub
	router contract.Router
	conn   *websocket.Conn
	send   chan []byte
	log    *slog.Logger
}

func NewClient(id string, hub *Hub, router contract.Router, conn *websocket.Conn,
	bufferSize int, log *slog.Logger) *Client {
	return &Client{
		ID:     id,
		hub:    hub,
		router: router,
		conn:   conn,
		send:   make(chan []byte, bufferSize),
		log:    log,
	}
}

// trySend queues an outbound frame without blocking. A slow client with a
// full buffer misses the frame. The recover covers a send racing the channel
// close in Unregister.
func (c *Client) trySend(data []byte) {
	defer func() { _ = recover() }()
	select {
	case c.send <- data:
	default:
		c.log.Debug(fmt.Sprintf("Dropping frame for slow client %s", c.ID))
	}
}

// readPump consumes inbound frames until the connection dies. Disconnect is
// unconditional on exit, joined or not; removal is a no-op for a connection
// that never joined.
func (c *Client) readPump() {
	defer func() {
		c.router.Disconnect(c.ID)
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("Unexpected close", "conn_id", c.ID, "err", err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.ack(frame.AckID, false, "Invalid frame!")
			continue
		}
		c.dispatch(frame)
	}
}

// dispatch routes one inbound event and answers its ack, success or failure.
// Errors stay on this connection; nothing reaches the room.
func (c *Client) dispatch(frame Frame) {
	switch frame.Event {
	case EventJoin:
		var req domain.JoinRequest
		if err := json.Unmarshal(frame.Data, &req); err != nil {
			c.ack(frame.AckID, false, cerrors.ClientMessage(cerrors.ErrValidation))
			return
		}
		if err := c.router.Join(c.ID, req); err != nil {
			c.ack(frame.AckID, false, cerrors.ClientMessage(err))
			return
		}
		c.ack(frame.AckID, true, "")

	case EventSendMessage:
		var text string
		if err := json.Unmarshal(frame.Data, &text); err != nil {
			c.ack(frame.AckID, false, "Invalid frame!")
			return
		}
		if err := c.router.SendMessage(c.ID, text); err != nil {
			c.ack(frame.AckID, false, cerrors.ClientMessage(err))
			return
		}
		c.ack(frame.AckID, true, "Delivered!")

	case EventSendLocation:
		var coords locationPayload
		if err := json.Unmarshal(frame.Data, &coords); err != nil {
			c.ack(frame.AckID, false, "Invalid frame!")
			return
		}
		if err := c.router.SendLocation(c.ID, coords.Latitude, coords.Longitude); err != nil {
			c.ack(frame.AckID, false, cerrors.ClientMessage(err))
			return
		}
		c.ack(frame.AckID, true, "Location was shared!")

	default:
		c.ack(frame.AckID, false, "Unknown event!")
	}
}

// ack answers an inbound frame that requested acknowledgement.
func (c *Client) ack(ackID int64, ok bool, message string) {
	if ackID == 0 {
		return
	}
	data, err := json.Marshal(Ack{OK: ok, Message: message})
	if err != nil {
		return
	}
	raw, err := json.Marshal(Frame{Event: EventAck, Data: data, AckID: ackID})
	if err != nil {
		return
	}
	c.trySend(raw)
}

// writePump drains the send buffer and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
