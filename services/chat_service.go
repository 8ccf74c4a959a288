package services

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/errors"
	"chat-rooms/runtime"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// ChatService is the per-connection event router. It validates inbound
// events, drives the presence registry, and fans resulting payloads out.
//
// A single mutex serializes each action together with the broadcasts it
// triggers, so for any one room the delivery order seen by recipients
// matches the order the transitions were applied to the registry.
type ChatService struct {
	mu        sync.Mutex
	log       *slog.Logger
	presence  contract.Presence
	transport contract.Transport
	moderator contract.Moderator
	fanout    *runtime.Fanout
	factory   MessageFactory
	validate  *validator.Validate
}

func NewChatService(log *slog.Logger, presence contract.Presence,
	transport contract.Transport, moderator contract.Moderator,
	fanout *runtime.Fanout, factory MessageFactory) *ChatService {
	return &ChatService{
		log:       log,
		presence:  presence,
		transport: transport,
		moderator: moderator,
		fanout:    fanout,
		factory:   factory,
		validate:  validator.New(),
	}
}

// Join registers the connection under (username, room). On failure nothing
// leaks: the connection is not added to the transport room, no broadcast
// occurs, and the error goes back to the caller alone.
func (s *ChatService) Join(connID string, req domain.JoinRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return errors.ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.presence.AddUser(connID, req.Username, req.Room)
	if err != nil {
		return err
	}

	s.transport.JoinRoom(connID, user.Room)

	s.fanout.ToConn(connID, domain.EventWelcome,
		s.factory.ChatMessage(domain.SystemSender, "Welcome!"))
	s.fanout.ToRoomExcluding(user.Room, connID, domain.EventWelcome,
		s.factory.ChatMessage(domain.SystemSender, user.Username+" has joined!"))
	s.fanout.ToRoom(user.Room, domain.EventRoomData, s.roomData(user.Room))

	s.log.Info(fmt.Sprintf("User %q joined room %q", user.Username, user.Room))
	return nil
}

// SendMessage runs moderation, resolves the sender, and broadcasts the
// message to the sender's whole room.
func (s *ChatService) SendMessage(connID, text string) error {
	if s.moderator.Flagged(text) {
		return errors.ErrProfanity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.presence.GetUser(connID)
	if err != nil {
		return err
	}

	s.fanout.ToRoom(user.Room, domain.EventMessage,
		s.factory.ChatMessage(user.Username, text))
	return nil
}

// SendLocation builds a maps URL from the coordinates and broadcasts it to
// the sender's whole room.
func (s *ChatService) SendLocation(connID string, latitude, longitude float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.presence.GetUser(connID)
	if err != nil {
		return err
	}

	s.fanout.ToRoom(user.Room, domain.EventLocation,
		s.factory.LocationMessage(user.Username, domain.MapsURL(latitude, longitude)))
	return nil
}

// Disconnect is unconditional: it runs even for connections that never
// joined, in which case removal is a no-op and nothing is broadcast.
func (s *ChatService) Disconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.presence.RemoveUser(connID)
	if !ok {
		return
	}

	s.transport.LeaveRoom(connID, user.Room)

	s.fanout.ToRoom(user.Room, domain.EventWelcome,
		s.factory.ChatMessage(domain.SystemSender, "Oops... "+user.Username+" has left!"))
	s.fanout.ToRoom(user.Room, domain.EventRoomData, s.roomData(user.Room))

	s.log.Info(fmt.Sprintf("User %q left room %q", user.Username, user.Room))
}

func (s *ChatService) roomData(room string) domain.RoomData {
	return domain.RoomData{
		Room: room,
		Users: lo.Map(s.presence.UsersInRoom(room), func(u domain.User, _ int) domain.RosterEntry {
			return domain.RosterEntry{Username: u.Username}
		}),
	}
}
