package runtime

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type emitCall struct {
	kind     string
	room     string
	excluded string
	connID   string
	event    string
	payload  any
}

type recordingTransport struct {
	calls []emitCall
}

func (r *recordingTransport) JoinRoom(connID, room string)  {}
func (r *recordingTransport) LeaveRoom(connID, room string) {}

func (r *recordingTransport) EmitToRoom(room, event string, payload any) {
	r.calls = append(r.calls, emitCall{kind: "room", room: room, event: event, payload: payload})
}

func (r *recordingTransport) EmitToRoomExcluding(room, excludedConnID, event string, payload any) {
	r.calls = append(r.calls, emitCall{kind: "excluding", room: room, excluded: excludedConnID, event: event, payload: payload})
}

func (r *recordingTransport) EmitToConn(connID, event string, payload any) {
	r.calls = append(r.calls, emitCall{kind: "conn", connID: connID, event: event, payload: payload})
}

func TestFanout_DelegatesToTransport(t *testing.T) {
	req := require.New(t)
	transport := &recordingTransport{}
	fanout := NewFanout(slog.Default(), transport)

	fanout.ToRoom("lobby", "receiveMessage", "p1")
	fanout.ToRoomExcluding("lobby", "c1", "welcomeMessage", "p2")
	fanout.ToConn("c2", "welcomeMessage", "p3")

	req.Len(transport.calls, 3)
	req.Equal(emitCall{kind: "room", room: "lobby", event: "receiveMessage", payload: "p1"}, transport.calls[0])
	req.Equal(emitCall{kind: "excluding", room: "lobby", excluded: "c1", event: "welcomeMessage", payload: "p2"}, transport.calls[1])
	req.Equal(emitCall{kind: "conn", connID: "c2", event: "welcomeMessage", payload: "p3"}, transport.calls[2])
}
