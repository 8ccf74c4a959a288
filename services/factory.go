package services

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"time"

	"github.com/google/uuid"
)

// WallClock is the production Clock.
type WallClock struct{}

func (WallClock) Now() time.Time { return time.Now().UTC() }

// MessageFactory stamps outbound payloads with sender and timestamp.
// Pure and stateless; content validation belongs to the router.
type MessageFactory struct {
	clock contract.Clock
}

func NewMessageFactory(clock contract.Clock) MessageFactory {
	return MessageFactory{clock: clock}
}

func (f MessageFactory) ChatMessage(sender, text string) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        uuid.New(),
		Username:  sender,
		Text:      text,
		CreatedAt: f.clock.Now(),
	}
}

func (f MessageFactory) LocationMessage(sender, url string) domain.LocationMessage {
	return domain.LocationMessage{
		ID:        uuid.New(),
		Username:  sender,
		URL:       url,
		CreatedAt: f.clock.Now(),
	}
}
