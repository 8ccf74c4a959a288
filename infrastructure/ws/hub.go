// Package ws is the WebSocket transport: connection lifecycle, transport-level
// room membership, and the room-multicast primitive the core fans out through.
package ws

import (
	"fmt"
	"log/slog"
	"sync"
)

type Set map[string]struct{}

// Hub tracks live connections and their transport-level rooms. Room
// membership here mirrors the presence registry; the router keeps the two
// in lockstep through JoinRoom and LeaveRoom.
type Hub struct {
	mu    sync.RWMutex
	log   *slog.Logger
	conns map[string]*Client // connID -> client
	rooms map[string]Set     // room -> member connIDs
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:   log,
		conns: make(map[string]*Client),
		rooms: make(map[string]Set),
	}
}

// Register makes a freshly upgraded connection addressable.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[c.ID] = c
	h.log.Debug(fmt.Sprintf("Client %s registered, %d connected", c.ID, len(h.conns)))
}

// Unregister drops the connection from the hub and every room it was in,
// and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[c.ID]; !ok {
		return
	}
	delete(h.conns, c.ID)

	for room, members := range h.rooms {
		if _, ok := members[c.ID]; !ok {
			continue
		}
		delete(members, c.ID)
		// If no one is left in the room, remove the room entry entirely
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}

	close(c.send)
	h.log.Debug(fmt.Sprintf("Client %s unregistered, %d connected", c.ID, len(h.conns)))
}

func (h *Hub) JoinRoom(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(Set)
	}
	h.rooms[room][connID] = struct{}{}
}

func (h *Hub) LeaveRoom(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) EmitToRoom(room, event string, payload any) {
	h.emit(room, "", event, payload)
}

func (h *Hub) EmitToRoomExcluding(room, excludedConnID, event string, payload any) {
	h.emit(room, excludedConnID, event, payload)
}

func (h *Hub) EmitToConn(connID, event string, payload any) {
	data, err := encodeFrame(event, payload)
	if err != nil {
		h.log.Error("Failed to encode frame", "event", event, "err", err)
		return
	}

	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()
	if ok {
		c.trySend(data)
	}
}

// emit encodes once and delivers to every member of the room, minus the
// excluded connection when one is given. Sends are non-blocking: a slow
// client with a full buffer misses the event rather than stalling the room.
func (h *Hub) emit(room, excludedConnID, event string, payload any) {
	data, err := encodeFrame(event, payload)
	if err != nil {
		h.log.Error("Failed to encode frame", "event", event, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for connID := range h.rooms[room] {
		if connID == excludedConnID {
			continue
		}
		if c, ok := h.conns[connID]; ok {
			c.trySend(data)
		}
	}
}

// RoomMembers returns the connIDs currently in the transport-level room.
func (h *Hub) RoomMembers(room string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]string, 0, len(h.rooms[room]))
	for connID := range h.rooms[room] {
		members = append(members, connID)
	}
	return members
}

// Shutdown closes every live connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.conns))
	for _, c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.Close()
	}
	h.log.Info(fmt.Sprintf("Closed %d client connections", len(clients)))
}
