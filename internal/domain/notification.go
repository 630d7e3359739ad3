package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Channel is a notification delivery channel.
type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelInApp Channel = "in_app"
	ChannelEmail Channel = "email"
)

// EventKind identifies the state transition a notification reports.
type EventKind string

const (
	EventAdoptionRejected  EventKind = "adoption_rejected"
	EventAdoptionApproved  EventKind = "adoption_approved"
	EventUserSemiVerified  EventKind = "user_semi_verified"
	EventUserVerified      EventKind = "user_verified"
	EventUserRejected      EventKind = "user_rejected"
	EventDonationReceived  EventKind = "donation_received"
	EventCampaignCompleted EventKind = "campaign_completed"
)

// Event is a notification to deliver to one user over one or more channels.
// EntityID together with Kind makes the event unique: re-enqueueing the same
// event is a no-op.
type Event struct {
	Kind     EventKind
	EntityID string
	UserID   string
	DeepLink string
	Params   map[string]any
	Channels []Channel
}

// IdempotencyKey is the outbox key of the event on one channel.
func (e Event) IdempotencyKey(ch Channel) string {
	return fmt.Sprintf("%s:%s:%s", e.Kind, e.EntityID, ch)
}

// OutboxStatus enumerates outbox job states.
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "PENDING"
	OutboxSending OutboxStatus = "SENDING"
	OutboxSent    OutboxStatus = "SENT"
	OutboxDead    OutboxStatus = "DEAD"
)

// OutboxJob is one pending delivery of an event over a single channel.
type OutboxJob struct {
	ID             int64
	IdempotencyKey string
	Channel        Channel
	Kind           EventKind
	UserID         string
	DeepLink       string
	Params         json.RawMessage
	Attempts       int
	CreatedAt      time.Time
}

// Notification is an in-app notification row.
type Notification struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	DeepLink  string     `json:"deep_link"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}
