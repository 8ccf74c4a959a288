//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-rooms/domain"
	"context"
	"reflect"
	"time"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Transport is the bidirectional real-time layer the core fans out through.
// Room membership on the transport side is kept in lockstep with the
// presence registry by the router.
type Transport interface {
	JoinRoom(connID, room string)
	LeaveRoom(connID, room string)
	EmitToRoom(room, event string, payload any)
	EmitToRoomExcluding(room, excludedConnID, event string, payload any)
	EmitToConn(connID, event string, payload any)
}

// Presence owns the authoritative set of active users. No other component
// may mutate it.
type Presence interface {
	AddUser(connID, username, room string) (domain.User, error)
	RemoveUser(connID string) (domain.User, bool)
	GetUser(connID string) (domain.User, error)
	UsersInRoom(room string) []domain.User
	Count() int
}

// Moderator is the content moderation collaborator, called as a pure predicate.
type Moderator interface {
	Flagged(text string) bool
}

type Clock interface {
	Now() time.Time
}

// Router consumes inbound connection events. One transport handler goroutine
// per connection calls it; implementations serialize shared state themselves.
type Router interface {
	Join(connID string, req domain.JoinRequest) error
	SendMessage(connID, text string) error
	SendLocation(connID string, latitude, longitude float64) error
	Disconnect(connID string)
}
