package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"coachsite/internal/adapters/broker"
	emailAdapter "coachsite/internal/adapters/email"
	outboxStore "coachsite/internal/adapters/storage/outbox"
	domain "coachsite/internal/domain/outbox"
)

// ActionExecutor executes a specific type of external action.
type ActionExecutor interface {
	// Execute runs the external action with the given payload.
	// Returns the external ID (e.g. provider message id) and any error.
	Execute(ctx context.Context, payload string) (string, error)
}

// OutboxConfig tunes the retry schedule.
type OutboxConfig struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	BatchSize int
}

// OutboxProcessor handles retrying failed external integration actions.
type OutboxProcessor struct {
	store     outboxStore.Store
	executors map[string]ActionExecutor
	cfg       OutboxConfig
	now       func() time.Time
	results   *prometheus.CounterVec
}

// NewOutboxProcessor creates a new outbox processor. Zero config fields take defaults
// of 1m base delay, 1h cap and batches of 50. reg may be nil.
func NewOutboxProcessor(store outboxStore.Store, executors map[string]ActionExecutor, cfg OutboxConfig, reg prometheus.Registerer) *OutboxProcessor {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Minute
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = time.Hour
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	p := &OutboxProcessor{
		store:     store,
		executors: executors,
		cfg:       cfg,
		now:       time.Now,
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coachsite_outbox_attempts_total",
			Help: "Outbox delivery attempts by action type and result.",
		}, []string{"action_type", "result"}),
	}
	if reg != nil {
		reg.MustRegister(p.results)
	}
	return p
}

// ProcessPending processes pending outbox entries whose backoff has elapsed.
// PRE: Context is valid
// POST: Due entries are attempted once; returns the number attempted
func (p *OutboxProcessor) ProcessPending(ctx context.Context) (int, error) {
	entries, err := p.store.ListPending(ctx, p.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending outbox entries: %w", err)
	}

	attempted := 0
	for _, entry := range entries {
		if !entry.IsDue(p.now(), p.cfg.BaseDelay, p.cfg.MaxDelay) {
			continue
		}
		attempted++
		if err := p.attempt(ctx, entry); err != nil {
			slog.Error("outbox_process_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "error", err.Error())
		}
	}
	return attempted, nil
}

// attempt runs one entry and persists the outcome.
func (p *OutboxProcessor) attempt(ctx context.Context, entry domain.Entry) error {
	executor, ok := p.executors[entry.ActionType]
	if !ok {
		entry.MarkAttempt(p.now())
		entry.Attempts = entry.MaxAttempts
		entry.MarkFailed(fmt.Errorf("no executor registered for action type: %s", entry.ActionType))
		p.results.WithLabelValues(entry.ActionType, "unroutable").Inc()
		return p.store.Save(ctx, entry)
	}

	entry.MarkAttempt(p.now())
	externalID, err := executor.Execute(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
		p.results.WithLabelValues(entry.ActionType, "error").Inc()
		slog.Warn("outbox_action_failed", "entry_id", entry.ID, "attempt", entry.Attempts, "error", err.Error())
	} else {
		entry.MarkSuccess(externalID)
		p.results.WithLabelValues(entry.ActionType, "ok").Inc()
		slog.Info("outbox_action_succeeded", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	}
	return p.store.Save(ctx, entry)
}

// ProcessSingle manually processes a single outbox entry (for admin retry).
// A failed entry gets a fresh set of attempts first.
// PRE: entryID is non-empty
// POST: Entry is attempted once, status updated
func (p *OutboxProcessor) ProcessSingle(ctx context.Context, entryID string) (domain.Entry, error) {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("get outbox entry: %w", err)
	}
	if entry.Status == domain.StatusFailed {
		if err := entry.ResetForRetry(); err != nil {
			return domain.Entry{}, err
		}
	}
	if !entry.CanRetry() {
		return domain.Entry{}, fmt.Errorf("entry %s: %w", entryID, domain.ErrNotRetryable)
	}
	if err := p.attempt(ctx, entry); err != nil {
		return domain.Entry{}, err
	}
	return p.store.GetByID(ctx, entryID)
}

// AbandonEntry marks an entry as abandoned by admin.
// PRE: entryID is non-empty
// POST: Entry status set to abandoned
func (p *OutboxProcessor) AbandonEntry(ctx context.Context, entryID string) error {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get outbox entry: %w", err)
	}
	entry.MarkAbandoned()
	return p.store.Save(ctx, entry)
}

// DeleteEntry removes a finished entry from the admin list.
// PRE: entry is done, abandoned or out of attempts
func (p *OutboxProcessor) DeleteEntry(ctx context.Context, entryID string) error {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get outbox entry: %w", err)
	}
	if !entry.IsTerminal() {
		return fmt.Errorf("entry %s: %w", entryID, domain.ErrNotTerminal)
	}
	return p.store.Delete(ctx, entryID)
}

// --- Email Executor ---

// EmailExecutor replays a parked email.SendRequest.
type EmailExecutor struct {
	Sender emailAdapter.Sender
}

// Execute sends the email in payload.
// PRE: payload is valid JSON matching email.SendRequest
// POST: returns the provider message id
func (e EmailExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var req emailAdapter.SendRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := req.Validate(); err != nil {
		return "", err
	}
	res, err := e.Sender.Send(ctx, req)
	if err != nil {
		return "", err
	}
	return res.MessageID, nil
}

// --- Push Delivery Executor ---

// PushDeliveryExecutor republishes a parked push dispatch.
type PushDeliveryExecutor struct {
	Publisher broker.Publisher
}

// Execute publishes the dispatch in payload.
// PRE: payload is valid JSON matching broker.Dispatch
// POST: returns the push message id
func (e PushDeliveryExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var d broker.Dispatch
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return "", fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := e.Publisher.Publish(ctx, d); err != nil {
		return "", err
	}
	return d.MessageID, nil
}

// --- Background Workers ---

// StartBackgroundWorker starts a goroutine that runs job every interval until stopCh is closed.
// PRE: interval > 0
// POST: Worker runs until stopCh is closed; done is closed after the last run
func StartBackgroundWorker(name string, interval time.Duration, stopCh <-chan struct{}, job func(ctx context.Context) error) (done <-chan struct{}) {
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				if err := job(ctx); err != nil {
					slog.Error("background_job_failed", "job", name, "error", err.Error())
				}
				cancel()
			case <-stopCh:
				slog.Info("background_worker_stopped", "job", name)
				return
			}
		}
	}()
	return finished
}
