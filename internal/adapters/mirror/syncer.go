package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	outboxStore "coachsite/internal/adapters/storage/outbox"
	domain "coachsite/internal/domain/outbox"
)

// Payload is the outbox payload for a deferred mirror write.
type Payload struct {
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Doc        json.RawMessage `json:"doc,omitempty"`
	UpdatedAt  time.Time       `json:"updatedAt,omitzero"`
	DeletedAt  time.Time       `json:"deletedAt,omitzero"`
}

// Writer is the remote side of a mirror.
type Writer interface {
	Upsert(ctx context.Context, collection, id string, doc json.RawMessage, updatedAt time.Time) error
	Delete(ctx context.Context, collection, id string, deletedAt time.Time) error
}

// Syncer implements storage.Mirror. A failed remote write is queued in the
// outbox for the retry worker and never reaches the caller.
type Syncer struct {
	remote  Writer
	outbox  outboxStore.Store
	timeout time.Duration
	now     func() time.Time
}

// NewSyncer creates a Syncer. timeout bounds each remote call.
func NewSyncer(remote Writer, outbox outboxStore.Store, timeout time.Duration) *Syncer {
	return &Syncer{remote: remote, outbox: outbox, timeout: timeout, now: time.Now}
}

// Upsert mirrors doc, queueing a mirror_upsert entry on failure.
func (s *Syncer) Upsert(ctx context.Context, collection, id string, doc any, updatedAt time.Time) {
	raw, err := json.Marshal(doc)
	if err != nil {
		slog.Error("mirror_encode_failed", "collection", collection, "id", id, "error", err)
		return
	}
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.remote.Upsert(callCtx, collection, id, raw, updatedAt); err != nil {
		slog.Warn("mirror_upsert_failed", "collection", collection, "id", id, "error", err)
		s.enqueue(ctx, domain.ActionTypeMirrorUpsert, Payload{Collection: collection, ID: id, Doc: raw, UpdatedAt: updatedAt}, err)
	}
}

// Delete mirrors a removal, queueing a mirror_delete entry on failure.
// Queued upserts of the same document are abandoned first.
func (s *Syncer) Delete(ctx context.Context, collection, id string) {
	deletedAt := s.now()
	s.supersedeUpserts(ctx, collection, id)

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.remote.Delete(callCtx, collection, id, deletedAt); err != nil {
		slog.Warn("mirror_delete_failed", "collection", collection, "id", id, "error", err)
		s.enqueue(ctx, domain.ActionTypeMirrorDelete, Payload{Collection: collection, ID: id, DeletedAt: deletedAt}, err)
	}
}

// supersedeUpserts abandons open mirror_upsert entries for collection/id.
func (s *Syncer) supersedeUpserts(ctx context.Context, collection, id string) {
	ctx = context.WithoutCancel(ctx)
	open, err := s.outbox.ListOpen(ctx, domain.ActionTypeMirrorUpsert)
	if err != nil {
		slog.Error("mirror_supersede_failed", "collection", collection, "id", id, "error", err)
		return
	}
	for _, e := range open {
		var p Payload
		if err := json.Unmarshal([]byte(e.Payload), &p); err != nil || p.Collection != collection || p.ID != id {
			continue
		}
		e.MarkAbandoned()
		e.ErrorMessage = "superseded by delete"
		if err := s.outbox.Save(ctx, e); err != nil {
			slog.Error("mirror_supersede_failed", "collection", collection, "id", id, "entry_id", e.ID, "error", err)
			continue
		}
		slog.Info("mirror_upsert_superseded", "collection", collection, "id", id, "entry_id", e.ID)
	}
}

func (s *Syncer) enqueue(ctx context.Context, actionType string, p Payload, cause error) {
	raw, err := json.Marshal(p)
	if err != nil {
		slog.Error("mirror_enqueue_failed", "collection", p.Collection, "id", p.ID, "error", err)
		return
	}
	entry := domain.Entry{
		ID:           uuid.NewString(),
		ActionType:   actionType,
		Payload:      string(raw),
		Status:       domain.StatusPending,
		CreatedAt:    s.now(),
		ErrorMessage: cause.Error(),
	}
	if err := entry.Validate(); err != nil {
		slog.Error("mirror_enqueue_failed", "collection", p.Collection, "id", p.ID, "error", err)
		return
	}
	if err := s.outbox.Save(context.WithoutCancel(ctx), entry); err != nil {
		slog.Error("mirror_enqueue_failed", "collection", p.Collection, "id", p.ID, "error", err)
	}
}

// UpsertExecutor replays mirror_upsert outbox entries.
type UpsertExecutor struct {
	Remote Writer
}

// Execute decodes payload and retries the upsert.
// PRE: payload is a JSON Payload with a document
func (e UpsertExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var p Payload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := e.Remote.Upsert(ctx, p.Collection, p.ID, p.Doc, p.UpdatedAt); err != nil {
		return "", err
	}
	return p.Collection + "/" + p.ID, nil
}

// DeleteExecutor replays mirror_delete outbox entries.
type DeleteExecutor struct {
	Remote Writer
}

// Execute decodes payload and retries the delete.
func (e DeleteExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var p Payload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal payload: %w", err)
	}
	if p.DeletedAt.IsZero() {
		p.DeletedAt = time.Now()
	}
	if err := e.Remote.Delete(ctx, p.Collection, p.ID, p.DeletedAt); err != nil {
		return "", err
	}
	return p.Collection + "/" + p.ID, nil
}
