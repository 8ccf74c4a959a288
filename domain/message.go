// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable and never stored: constructed, broadcast, discarded.
package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// SystemSender is the display name used for server-generated notices
// (welcome, joined, left).
const SystemSender = "Server message"

// ChatMessage represents an immutable text message.
type ChatMessage struct {
	ID        uuid.UUID `json:"-"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// LocationMessage carries a maps URL built from shared coordinates.
type LocationMessage struct {
	ID        uuid.UUID `json:"-"`
	Username  string    `json:"username"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// MapsURL renders a google maps link with the coordinates verbatim.
func MapsURL(latitude, longitude float64) string {
	return "https://google.com/maps/?q=" +
		strconv.FormatFloat(latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(longitude, 'f', -1, 64)
}
