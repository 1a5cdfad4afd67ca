package eventbus

import (
	"context"
	"time"
)

// Event types published by the site modules
const (
	EventTypeSubmissionCreated = "submission.created"
	EventTypeContentChanged    = "content.changed"
	EventTypeAdminLoggedIn     = "admin.logged_in"
)

// Event is something that happened in one module that others may react to
type Event interface {
	Type() string
	Data() interface{}
	Timestamp() time.Time
	Source() string
}

// Handler reacts to one event
type Handler func(ctx context.Context, event Event) error

// SubmissionCreated is the payload of EventTypeSubmissionCreated
type SubmissionCreated struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ContentChanged is the payload of EventTypeContentChanged
type ContentChanged struct {
	Kind   string `json:"kind"`
	ID     string `json:"id,omitempty"`
	Action string `json:"action"`
}

// AdminLoggedIn is the payload of EventTypeAdminLoggedIn
type AdminLoggedIn struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type siteEvent struct {
	kind   string
	data   interface{}
	at     time.Time
	source string
}

// NewEvent stamps data with its type, the publishing module and the current time
func NewEvent(eventType string, data interface{}, source string) Event {
	return &siteEvent{kind: eventType, data: data, at: time.Now(), source: source}
}

func (e *siteEvent) Type() string         { return e.kind }
func (e *siteEvent) Data() interface{}    { return e.data }
func (e *siteEvent) Timestamp() time.Time { return e.at }
func (e *siteEvent) Source() string       { return e.source }
