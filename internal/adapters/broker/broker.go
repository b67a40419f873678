// Package broker hands sent push messages to downstream delivery channels.
package broker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Recipient is one member a push message is addressed to.
type Recipient struct {
	MemberID   string `json:"memberId"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	LineUserID string `json:"lineUserId,omitempty"`
}

// Dispatch is the event published when a push message is sent.
type Dispatch struct {
	MessageID  string      `json:"messageId"`
	Title      string      `json:"title"`
	Body       string      `json:"body"`
	Audience   string      `json:"audience"`
	Recipients []Recipient `json:"recipients"`
	SentAt     time.Time   `json:"sentAt"`
}

// Publisher publishes push dispatch events.
type Publisher interface {
	Publish(ctx context.Context, d Dispatch) error
	Close() error
}

// NoopPublisher logs dispatches and keeps them for inspection.
type NoopPublisher struct {
	mu        sync.Mutex
	published []Dispatch
}

// NewNoopPublisher creates a NoopPublisher.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish logs d.
func (p *NoopPublisher) Publish(_ context.Context, d Dispatch) error {
	slog.Info("noop_push_dispatch", "message_id", d.MessageID, "recipients", len(d.Recipients))
	p.mu.Lock()
	p.published = append(p.published, d)
	p.mu.Unlock()
	return nil
}

// Published returns every dispatch seen so far.
func (p *NoopPublisher) Published() []Dispatch {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Dispatch, len(p.published))
	copy(out, p.published)
	return out
}

// Close is a no-op.
func (p *NoopPublisher) Close() error { return nil }

func encode(d Dispatch) ([]byte, error) {
	return json.Marshal(d)
}
