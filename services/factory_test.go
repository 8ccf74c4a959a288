package services

import (
	"chat-rooms/mocks"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMessageFactory_StampsSenderAndTimestamp(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clockMock := mocks.NewMockClock(ctrl)
	clockMock.EXPECT().Now().Return(at).Times(2)

	factory := NewMessageFactory(clockMock)

	msg := factory.ChatMessage("alice", "hello")
	req.Equal("alice", msg.Username)
	req.Equal("hello", msg.Text)
	req.Equal(at, msg.CreatedAt)
	req.NotEqual(msg.ID.String(), "00000000-0000-0000-0000-000000000000")

	loc := factory.LocationMessage("bob", "https://google.com/maps/?q=1,2")
	req.Equal("bob", loc.Username)
	req.Equal("https://google.com/maps/?q=1,2", loc.URL)
	req.Equal(at, loc.CreatedAt)
}
