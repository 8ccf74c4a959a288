package ws

import "encoding/json"

// Inbound event names (client -> server). Outbound names live in domain,
// shared with the router and clients.
const (
	EventJoin         = "join"
	EventSendMessage  = "sendMessage"
	EventSendLocation = "sendLocation"
	EventAck          = "ack"
)

// Frame is one JSON message on the wire, in either direction.
// Inbound frames may carry an AckID; the server answers with an ack frame
// holding the same id.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	AckID int64           `json:"ackId,omitempty"`
}

// Ack is the data of an ack frame, answering one inbound request.
type Ack struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type locationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// encodeFrame marshals an outbound event with its payload.
func encodeFrame(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: data})
}
