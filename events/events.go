// Package events carries domain notifications to connected clients and
// downstream consumers. Publishing is fire-and-forget.
package events

import (
	"context"
	"time"

	"assetverse/metrics"
)

type Type string

const (
	RequestCreated  Type = "request_created"
	RequestApproved Type = "request_approved"
	RequestRejected Type = "request_rejected"
	AssetAssigned   Type = "asset_assigned"
	AssetReturned   Type = "asset_returned"
	PaymentRecorded Type = "payment_recorded"
	EmployeeRemoved Type = "employee_removed"
)

// Event is addressed to the emails in Audience.
type Event struct {
	Type      Type        `json:"type"`
	Audience  []string    `json:"audience"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// New builds an event, skipping empty and duplicate audience entries.
func New(t Type, payload interface{}, audience ...string) Event {
	seen := make(map[string]bool, len(audience))
	var to []string
	for _, a := range audience {
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		to = append(to, a)
	}
	return Event{Type: t, Audience: to, Payload: payload, Timestamp: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Fanout hands every event to each publisher in order.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, e Event) {
	metrics.EventsPublished.WithLabelValues(string(e.Type)).Inc()
	for _, p := range f {
		p.Publish(ctx, e)
	}
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
