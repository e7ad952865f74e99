package domain

import (
	"time"

	"aetv-bot/internal/lang"
)

// LeadSource marks which flow captured a lead.
type LeadSource string

const (
	LeadSourceTrial   LeadSource = "trial"
	LeadSourceSupport LeadSource = "support"
)

// OrderStatusInitiated is the only order status this bot writes; payment
// confirmation happens outside the funnel.
const OrderStatusInitiated = "initiated"

// User is one row per sender identifier.
type User struct {
	ID          string
	SenderID    string
	Language    lang.Language
	State       State
	PendingPlan *string
	CreatedAt   time.Time
	LastSeenAt  time.Time
}

// UserState is the per-sender snapshot the router works against. Unseen
// senders get the zero value plus EN.
type UserState struct {
	State       State
	PendingPlan *string
	Language    lang.Language
}

// Lead is an append-only captured contact attempt.
type Lead struct {
	ID          string
	SenderID    string
	ContactText string
	Source      LeadSource
	CreatedAt   time.Time
}

// Order is an append-only plan-selection record.
type Order struct {
	ID        string
	SenderID  string
	Plan      string
	Status    string
	CreatedAt time.Time
}

// Message is an audit record of one inbound or outbound message.
type Message struct {
	ID        string
	SenderID  string
	Direction string
	Content   string
	CreatedAt time.Time
}

// Message directions.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)
