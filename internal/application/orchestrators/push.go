package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"coachsite/internal/adapters/broker"
	emailAdapter "coachsite/internal/adapters/email"
	memberStore "coachsite/internal/adapters/storage/member"
	"coachsite/internal/domain/member"
	domainOutbox "coachsite/internal/domain/outbox"
	"coachsite/internal/domain/push"
)

// PushStoreForOrchestrator defines the store interface needed by push orchestrators.
type PushStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (push.Message, error)
	Save(ctx context.Context, m push.Message) error
	Delete(ctx context.Context, id string) error
	ListDue(ctx context.Context, now time.Time) ([]push.Message, error)
}

// PushDeps holds dependencies for push orchestrators.
type PushDeps struct {
	PushStore   PushStoreForOrchestrator
	MemberStore interface {
		List(ctx context.Context, filter memberStore.ListFilter) ([]member.Member, error)
	}
	Publisher  broker.Publisher
	Email      EmailDeps
	GenerateID func() string
	Now        func() time.Time
}

// PushInput carries the editable fields of a push message.
type PushInput struct {
	Title    string
	Body     string
	Audience string // defaults to all
}

// ExecuteCreatePush saves a new draft.
// PRE: Title and Body non-empty; Audience empty or known
// POST: message persisted as draft
func ExecuteCreatePush(ctx context.Context, input PushInput, deps PushDeps) (push.Message, error) {
	now := deps.Now()
	m := push.Message{
		ID:             deps.GenerateID(),
		Title:          strings.TrimSpace(input.Title),
		Body:           strings.TrimSpace(input.Body),
		Status:         push.StatusDraft,
		AudienceFilter: input.Audience,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if m.AudienceFilter == "" {
		m.AudienceFilter = push.AudienceAll
	}
	if err := m.Validate(); err != nil {
		return push.Message{}, invalid(err)
	}
	if err := deps.PushStore.Save(ctx, m); err != nil {
		return push.Message{}, err
	}
	return m, nil
}

// ExecuteUpdatePush edits an unsent message.
// PRE: message exists and is not sent
// POST: Title, Body and Audience persisted; status unchanged
func ExecuteUpdatePush(ctx context.Context, id string, input PushInput, deps PushDeps) (push.Message, error) {
	m, err := deps.PushStore.GetByID(ctx, id)
	if err != nil {
		return push.Message{}, err
	}
	if err := m.Edit(strings.TrimSpace(input.Title), strings.TrimSpace(input.Body), input.Audience, deps.Now()); err != nil {
		return push.Message{}, err
	}
	if err := m.Validate(); err != nil {
		return push.Message{}, invalid(err)
	}
	if err := deps.PushStore.Save(ctx, m); err != nil {
		return push.Message{}, err
	}
	return m, nil
}

// ExecuteSchedulePush schedules an unsent message. A zero at returns it to draft.
// PRE: message exists and is not sent; at is in the future or zero
// POST: status scheduled with ScheduledAt = at, or draft when unscheduled
func ExecuteSchedulePush(ctx context.Context, id string, at time.Time, deps PushDeps) (push.Message, error) {
	m, err := deps.PushStore.GetByID(ctx, id)
	if err != nil {
		return push.Message{}, err
	}
	now := deps.Now()
	if at.IsZero() {
		err = m.Unschedule(now)
	} else {
		err = m.Schedule(at, now)
	}
	switch {
	case errors.Is(err, push.ErrAlreadySent):
		return push.Message{}, err
	case err != nil:
		return push.Message{}, invalid(err)
	}
	if err := deps.PushStore.Save(ctx, m); err != nil {
		return push.Message{}, err
	}
	return m, nil
}

// ExecuteDeletePush removes an unsent message.
// PRE: message exists and is not sent
// POST: message is gone
func ExecuteDeletePush(ctx context.Context, id string, deps PushDeps) error {
	m, err := deps.PushStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.IsSent() {
		return push.ErrAlreadySent
	}
	return deps.PushStore.Delete(ctx, id)
}

// ExecuteSendPush delivers a message to its audience now.
// Every recipient goes out on the broker; recipients without a LINE account
// also get an email. Channel failures are parked in the outbox.
// PRE: message exists and is not sent
// POST: status sent, SentAt = now, RecipientCount = audience size
func ExecuteSendPush(ctx context.Context, id string, deps PushDeps) (push.Message, error) {
	m, err := deps.PushStore.GetByID(ctx, id)
	if err != nil {
		return push.Message{}, err
	}
	if m.IsSent() {
		return push.Message{}, push.ErrAlreadySent
	}
	members, err := deps.MemberStore.List(ctx, memberStore.ListFilter{})
	if err != nil {
		return push.Message{}, fmt.Errorf("resolve audience: %w", err)
	}
	now := deps.Now()
	d := broker.Dispatch{MessageID: m.ID, Title: m.Title, Body: m.Body, Audience: m.AudienceFilter, SentAt: now}
	var emails []string
	for _, mem := range members {
		if !push.MatchesAudience(m.AudienceFilter, mem.Status) {
			continue
		}
		d.Recipients = append(d.Recipients, broker.Recipient{
			MemberID: mem.ID, Name: mem.Name, Email: mem.Email, LineUserID: mem.LineUserID,
		})
		if mem.LineUserID == "" && mem.Email != "" {
			emails = append(emails, mem.Email)
		}
	}

	if err := m.MarkSent(len(d.Recipients), now); err != nil {
		return push.Message{}, err
	}
	if err := deps.PushStore.Save(ctx, m); err != nil {
		return push.Message{}, err
	}
	slog.Info("push_sent", "message_id", m.ID, "audience", m.AudienceFilter, "recipients", len(d.Recipients))

	detached := context.WithoutCancel(ctx)
	if deps.Publisher != nil && len(d.Recipients) > 0 {
		if err := deps.Publisher.Publish(ctx, d); err != nil {
			if qerr := enqueue(detached, deps.Email.OutboxStore, deps.GenerateID(), domainOutbox.ActionTypePushDelivery, d, err, now); qerr != nil {
				slog.Error("push_delivery_lost", "message_id", m.ID, "error", qerr)
			}
		}
	}
	if len(emails) > 0 && deps.Email.Sender != nil {
		broadcastEmail(detached, m, emails, deps)
	}
	return m, nil
}

// broadcastEmail sends one batch; if the batch fails each email is parked separately.
func broadcastEmail(ctx context.Context, m push.Message, to []string, deps PushDeps) {
	reqs, err := emailAdapter.PushBroadcast(to, m.Title, m.Body)
	if err != nil {
		slog.Error("push_email_render_failed", "message_id", m.ID, "error", err)
		return
	}
	if _, err = deps.Email.Sender.SendBatch(ctx, reqs); err == nil {
		return
	}
	slog.Warn("push_email_batch_failed", "message_id", m.ID, "count", len(reqs), "error", err)
	for _, req := range reqs {
		if qerr := enqueue(ctx, deps.Email.OutboxStore, deps.GenerateID(), domainOutbox.ActionTypeEmail, req, err, deps.Now()); qerr != nil {
			slog.Error("push_email_lost", "message_id", m.ID, "error", qerr)
		}
	}
}

// ExecuteSendDuePushes sends every scheduled message whose time has come.
// POST: returns the number sent; a failing message does not stop the rest
func ExecuteSendDuePushes(ctx context.Context, deps PushDeps) (int, error) {
	due, err := deps.PushStore.ListDue(ctx, deps.Now())
	if err != nil {
		return 0, fmt.Errorf("list due push messages: %w", err)
	}
	sent := 0
	for _, m := range due {
		if _, err := ExecuteSendPush(ctx, m.ID, deps); err != nil {
			slog.Error("scheduled_push_failed", "message_id", m.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}
