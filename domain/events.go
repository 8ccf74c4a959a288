package domain

// Outbound event names, shared between the router, the transport, and clients.
const (
	EventWelcome  = "welcomeMessage"
	EventMessage  = "receiveMessage"
	EventLocation = "locationMessage"
	EventRoomData = "roomData"
)
