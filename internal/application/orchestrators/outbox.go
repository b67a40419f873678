package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "coachsite/internal/adapters/email"
	domainOutbox "coachsite/internal/domain/outbox"
)

// OutboxStoreForOrchestrator defines the store interface needed to park failed side effects.
type OutboxStoreForOrchestrator interface {
	Save(ctx context.Context, e domainOutbox.Entry) error
}

// enqueue stores payload as a pending outbox entry.
// PRE: payload marshals to JSON
// POST: entry is pending with zero attempts
func enqueue(ctx context.Context, store OutboxStoreForOrchestrator, id, actionType string, payload any, cause error, now time.Time) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", actionType, err)
	}
	entry := domainOutbox.Entry{
		ID:         id,
		ActionType: actionType,
		Payload:    string(raw),
		Status:     domainOutbox.StatusPending,
		CreatedAt:  now,
	}
	if cause != nil {
		entry.ErrorMessage = cause.Error()
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	if err := store.Save(ctx, entry); err != nil {
		return fmt.Errorf("enqueue %s: %w", actionType, err)
	}
	slog.Warn("outbox_enqueued", "entry_id", id, "action_type", actionType, "cause", entry.ErrorMessage)
	return nil
}

// EmailDeps holds what deliverEmail needs. A nil Sender disables email.
type EmailDeps struct {
	Sender      emailAdapter.Sender
	OutboxStore OutboxStoreForOrchestrator
	GenerateID  func() string
	Now         func() time.Time
}

// deliverEmail sends req now and parks it in the outbox when the provider fails.
// POST: returns an error only when the email could be neither sent nor enqueued
func deliverEmail(ctx context.Context, req emailAdapter.SendRequest, deps EmailDeps) error {
	if deps.Sender == nil {
		return nil
	}
	res, err := deps.Sender.Send(ctx, req)
	if err == nil {
		slog.Info("email_sent", "message_id", res.MessageID, "subject", req.Subject)
		return nil
	}
	return enqueue(context.WithoutCancel(ctx), deps.OutboxStore, deps.GenerateID(), domainOutbox.ActionTypeEmail, req, err, deps.Now())
}
