package domain

// JoinRequest is the structured join intent. Required fields are checked at
// the boundary; normalization and uniqueness live in the presence registry.
type JoinRequest struct {
	Username string `json:"username" validate:"required"`
	Room     string `json:"room" validate:"required"`
}
