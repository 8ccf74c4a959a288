package ws

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(id string, hub *Hub) *Client {
	return NewClient(id, hub, nil, nil, 8, slog.Default())
}

func receivedEvents(t *testing.T, c *Client) []Frame {
	t.Helper()
	var frames []Frame
	for {
		select {
		case raw := <-c.send:
			var frame Frame
			require.NoError(t, json.Unmarshal(raw, &frame))
			frames = append(frames, frame)
		default:
			return frames
		}
	}
}

func TestHub_EmitToRoom_OnlyMembersReceive(t *testing.T) {
	req := require.New(t)
	hub := NewHub(slog.Default())

	member := newTestClient("c1", hub)
	outsider := newTestClient("c2", hub)
	hub.Register(member)
	hub.Register(outsider)
	hub.JoinRoom("c1", "lobby")

	hub.EmitToRoom("lobby", "receiveMessage", map[string]string{"text": "hi"})

	frames := receivedEvents(t, member)
	req.Len(frames, 1)
	req.Equal("receiveMessage", frames[0].Event)

	req.Empty(receivedEvents(t, outsider))
}

func TestHub_EmitToRoomExcluding_SkipsSender(t *testing.T) {
	req := require.New(t)
	hub := NewHub(slog.Default())

	sender := newTestClient("c1", hub)
	other := newTestClient("c2", hub)
	hub.Register(sender)
	hub.Register(other)
	hub.JoinRoom("c1", "lobby")
	hub.JoinRoom("c2", "lobby")

	hub.EmitToRoomExcluding("lobby", "c1", "welcomeMessage", map[string]string{"text": "joined"})

	req.Empty(receivedEvents(t, sender))
	req.Len(receivedEvents(t, other), 1)
}

func TestHub_EmitToConn_SingleRecipient(t *testing.T) {
	req := require.New(t)
	hub := NewHub(slog.Default())

	target := newTestClient("c1", hub)
	bystander := newTestClient("c2", hub)
	hub.Register(target)
	hub.Register(bystander)

	hub.EmitToConn("c1", "welcomeMessage", map[string]string{"text": "Welcome!"})

	req.Len(receivedEvents(t, target), 1)
	req.Empty(receivedEvents(t, bystander))
}

func TestHub_LeaveRoom_StopsDelivery(t *testing.T) {
	req := require.New(t)
	hub := NewHub(slog.Default())

	c := newTestClient("c1", hub)
	hub.Register(c)
	hub.JoinRoom("c1", "lobby")
	hub.LeaveRoom("c1", "lobby")

	hub.EmitToRoom("lobby", "receiveMessage", "hi")

	req.Empty(receivedEvents(t, c))
	req.Empty(hub.RoomMembers("lobby"))
}

func TestHub_Unregister_RemovesFromAllRooms(t *testing.T) {
	req := require.New(t)
	hub := NewHub(slog.Default())

	c := newTestClient("c1", hub)
	hub.Register(c)
	hub.JoinRoom("c1", "lobby")

	hub.Unregister(c)

	req.Empty(hub.RoomMembers("lobby"))
	// The send channel is closed so the write pump can drain and exit
	_, open := <-c.send
	req.False(open)

	// A second unregister for the same client is a no-op
	hub.Unregister(c)
}

func TestHub_SlowClientMissesFramesInsteadOfBlocking(t *testing.T) {
	req := require.New(t)
	hub := NewHub(slog.Default())

	c := NewClient("c1", hub, nil, nil, 1, slog.Default())
	hub.Register(c)
	hub.JoinRoom("c1", "lobby")

	// The buffer holds one frame; the second is dropped, not blocked on
	hub.EmitToRoom("lobby", "receiveMessage", "first")
	hub.EmitToRoom("lobby", "receiveMessage", "second")

	req.Len(receivedEvents(t, c), 1)
}
