package domain

// RosterEntry is the public projection of a User inside roomData payloads.
type RosterEntry struct {
	Username string `json:"username"`
}

// RoomData is broadcast to a whole room after every join and leave.
type RoomData struct {
	Room  string        `json:"room"`
	Users []RosterEntry `json:"users"`
}
