package services

import (
	"chat-rooms/domain"
	"chat-rooms/errors"
	"chat-rooms/mocks"
	"chat-rooms/runtime"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type emit struct {
	kind     string // "room", "excluding", "conn"
	room     string
	excluded string
	connID   string
	event    string
	payload  any
}

// fakeTransport records room membership calls and every emit, in order.
type fakeTransport struct {
	mu     sync.Mutex
	joined []string
	left   []string
	emits  []emit
}

func (f *fakeTransport) JoinRoom(connID, room string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joined = append(f.joined, connID+":"+room)
}

func (f *fakeTransport) LeaveRoom(connID, room string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.left = append(f.left, connID+":"+room)
}

func (f *fakeTransport) EmitToRoom(room, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emits = append(f.emits, emit{kind: "room", room: room, event: event, payload: payload})
}

func (f *fakeTransport) EmitToRoomExcluding(room, excludedConnID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emits = append(f.emits, emit{kind: "excluding", room: room, excluded: excludedConnID, event: event, payload: payload})
}

func (f *fakeTransport) EmitToConn(connID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emits = append(f.emits, emit{kind: "conn", connID: connID, event: event, payload: payload})
}

type stubModerator struct {
	flagged bool
}

func (m stubModerator) Flagged(string) bool { return m.flagged }

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(moderator stubModerator) (*ChatService, *fakeTransport) {
	transport := &fakeTransport{}
	fanout := runtime.NewFanout(slog.Default(), transport)
	factory := NewMessageFactory(fixedClock{at: testTime})
	service := NewChatService(slog.Default(), runtime.NewPresenceRegistry(),
		transport, moderator, fanout, factory)
	return service, transport
}

func TestChatService_Join_EmitsWelcomeNoticeAndRoster(t *testing.T) {
	req := require.New(t)
	service, transport := newService(stubModerator{})

	// When a user joins
	err := service.Join("c1", domain.JoinRequest{Username: " Alice ", Room: "Lobby"})
	req.NoError(err)

	// Then the transport-level room was joined with the normalized name
	req.Equal([]string{"c1:lobby"}, transport.joined)

	// And three emits happened: welcome to self, notice to others, roster to room
	req.Len(transport.emits, 3)

	welcome := transport.emits[0]
	req.Equal("conn", welcome.kind)
	req.Equal("c1", welcome.connID)
	req.Equal(domain.EventWelcome, welcome.event)
	welcomeMsg := welcome.payload.(domain.ChatMessage)
	req.Equal(domain.SystemSender, welcomeMsg.Username)
	req.Equal("Welcome!", welcomeMsg.Text)
	req.Equal(testTime, welcomeMsg.CreatedAt)

	notice := transport.emits[1]
	req.Equal("excluding", notice.kind)
	req.Equal("lobby", notice.room)
	req.Equal("c1", notice.excluded)
	req.Equal("alice has joined!", notice.payload.(domain.ChatMessage).Text)

	roster := transport.emits[2]
	req.Equal("room", roster.kind)
	req.Equal(domain.EventRoomData, roster.event)
	req.Equal(domain.RoomData{
		Room:  "lobby",
		Users: []domain.RosterEntry{{Username: "alice"}},
	}, roster.payload)
}

func TestChatService_Join_ValidationFailureHasNoSideEffects(t *testing.T) {
	req := require.New(t)
	service, transport := newService(stubModerator{})

	err := service.Join("c1", domain.JoinRequest{Username: "", Room: "lobby"})

	req.ErrorIs(err, errors.ErrValidation)
	req.Empty(transport.joined)
	req.Empty(transport.emits)
}

func TestChatService_Join_WhitespaceOnlyRejectedByRegistry(t *testing.T) {
	req := require.New(t)
	service, transport := newService(stubModerator{})

	// Passes the required check but normalizes to empty
	err := service.Join("c1", domain.JoinRequest{Username: "   ", Room: "lobby"})

	req.ErrorIs(err, errors.ErrValidation)
	req.Empty(transport.joined)
	req.Empty(transport.emits)
}

func TestChatService_Join_DuplicateHasNoSideEffects(t *testing.T) {
	req := require.New(t)
	service, transport := newService(stubModerator{})

	req.NoError(service.Join("c1", domain.JoinRequest{Username: "Alice", Room: "Lobby"}))
	emitsAfterFirstJoin := len(transport.emits)

	// When a second connection claims the same name in the same room
	err := service.Join("c2", domain.JoinRequest{Username: " alice ", Room: "lobby"})

	// Then the error goes back to the caller alone, nothing reaches the room
	req.ErrorIs(err, errors.ErrNameTaken)
	req.Equal([]string{"c1:lobby"}, transport.joined)
	req.Len(transport.emits, emitsAfterFirstJoin)
}

func TestChatService_SendMessage_BroadcastsToWholeRoom(t *testing.T) {
	req := require.New(t)
	service, transport := newService(stubModerator{})
	req.NoError(service.Join("c1", domain.JoinRequest{Username: "alice", Room: "lobby"}))

	err := service.SendMessage("c1", "hello there")
	req.NoError(err)

	last := transport.emits[len(transport.emits)-1]
	req.Equal("room", last.kind)
	req.Equal("lobby", last.room)
	req.Equal(domain.EventMessage, last.event)
	msg := last.payload.(domain.ChatMessage)
	req.Equal("alice", msg.Username)
	req.Equal("hello there", msg.Text)
	req.Equal(testTime, msg.CreatedAt)
}

func TestChatService_SendMessage_BeforeJoinFailsWithoutBroadcast(t *testing.T) {
	req := require.New(t)
	service, transport := newService(stubModerator{})

	err := service.SendMessage("c1", "hello")

	req.ErrorIs(err, errors.ErrNotJoined)
	req.Empty(transport.emits)
}

func TestChatService_SendMessage_FlaggedContentRejected(t *testing.T) {
	req := require.New(t)
	service, transport := newService(stubModerator{flagged: true})
	req.NoError(service.Join("c1", domain.JoinRequest{Username: "alice", Room: "lobby"}))
	emitsAfterJoin := len(transport.emits)

	err := service.SendMessage("c1", "anything")

	req.ErrorIs(err, errors.ErrProfanity)
	req.Len(transport.emits, emitsAfterJoin)
}

func TestChatService_SendLocation_URLContainsCoordinates(t *testing.T) {
	req := require.New(t)
	service, transport := newService(stubModerator{})
	req.NoError(service.Join("c1", domain.JoinRequest{Username: "alice", Room: "lobby"}))

	err := service.SendLocation("c1", 51.5, -0.12)
	req.NoError(err)

	last := transport.emits[len(transport.emits)-1]
	req.Equal(domain.EventLocation, last.event)
	loc := last.payload.(domain.LocationMessage)
	req.Equal("alice", loc.Username)
	req.Contains(loc.URL, "51.5")
	req.Contains(loc.URL, "-0.12")
	req.Equal(testTime, loc.CreatedAt)
}

func TestChatService_SendLocation_BeforeJoinFails(t *testing.T) {
	req := require.New(t)
	service, transport := newService(stubModerator{})

	err := service.SendLocation("c1", 1, 2)

	req.ErrorIs(err, errors.ErrNotJoined)
	req.Empty(transport.emits)
}

func TestChatService_Disconnect_EmitsLeftNoticeAndRoster(t *testing.T) {
	req := require.New(t)
	service, transport := newService(stubModerator{})
	req.NoError(service.Join("c1", domain.JoinRequest{Username: "alice", Room: "lobby"}))
	req.NoError(service.Join("c2", domain.JoinRequest{Username: "bob", Room: "lobby"}))
	emitsBefore := len(transport.emits)

	// When alice's connection goes away
	service.Disconnect("c1")

	// Then the transport room membership is released
	req.Equal([]string{"c1:lobby"}, transport.left)

	// And the room hears the notice plus the refreshed roster
	req.Len(transport.emits, emitsBefore+2)

	notice := transport.emits[emitsBefore]
	req.Equal("room", notice.kind)
	req.Equal(domain.EventWelcome, notice.event)
	req.Equal("Oops... alice has left!", notice.payload.(domain.ChatMessage).Text)

	roster := transport.emits[emitsBefore+1]
	req.Equal(domain.EventRoomData, roster.event)
	req.Equal(domain.RoomData{
		Room:  "lobby",
		Users: []domain.RosterEntry{{Username: "bob"}},
	}, roster.payload)
}

func TestChatService_Disconnect_NeverJoinedIsSilent(t *testing.T) {
	req := require.New(t)
	service, transport := newService(stubModerator{})

	service.Disconnect("ghost")

	req.Empty(transport.emits)
	req.Empty(transport.left)
}

func TestChatService_Disconnect_ThenSendFails(t *testing.T) {
	req := require.New(t)
	service, _ := newService(stubModerator{})
	req.NoError(service.Join("c1", domain.JoinRequest{Username: "alice", Room: "lobby"}))

	service.Disconnect("c1")

	err := service.SendMessage("c1", "hello")
	req.ErrorIs(err, errors.ErrNotJoined)
}

func TestChatService_SendMessage_ModeratorCalledWithText(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	moderatorMock := mocks.NewMockModerator(ctrl)
	moderatorMock.EXPECT().Flagged("watch your language").Return(true).Times(1)

	transport := &fakeTransport{}
	fanout := runtime.NewFanout(slog.Default(), transport)
	service := NewChatService(slog.Default(), runtime.NewPresenceRegistry(),
		transport, moderatorMock, fanout, NewMessageFactory(fixedClock{at: testTime}))

	err := service.SendMessage("c1", "watch your language")
	req.ErrorIs(err, errors.ErrProfanity)
}
