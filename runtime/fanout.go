package runtime

import (
	"chat-rooms/contract"
	"fmt"
	"log/slog"
)

// Fanout dispatches one event to every connection currently in a room,
// through the transport's room-multicast primitive.
//
// It provides best-effort delivery with no guarantees regarding ordering,
// durability, or retries. Fanout is not a message broker.
type Fanout struct {
	log       *slog.Logger
	transport contract.Transport
}

func NewFanout(log *slog.Logger, transport contract.Transport) *Fanout {
	return &Fanout{log: log, transport: transport}
}

// ToRoom delivers to every connection in the room.
func (f *Fanout) ToRoom(room, event string, payload any) {
	f.log.Debug(fmt.Sprintf("Fanout %s to room %q", event, room))
	f.transport.EmitToRoom(room, event, payload)
}

// ToRoomExcluding delivers to every connection in the room except one,
// so a joiner's own welcome and the room's joined notice travel separately.
func (f *Fanout) ToRoomExcluding(room, excludedConnID, event string, payload any) {
	f.log.Debug(fmt.Sprintf("Fanout %s to room %q excluding %s", event, room, excludedConnID))
	f.transport.EmitToRoomExcluding(room, excludedConnID, event, payload)
}

// ToConn delivers to a single connection.
func (f *Fanout) ToConn(connID, event string, payload any) {
	f.transport.EmitToConn(connID, event, payload)
}
