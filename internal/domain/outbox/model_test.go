package outbox_test

import (
	"errors"
	"testing"
	"time"

	"coachsite/internal/domain/outbox"
)

var t0 = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

// TestEntry_Validate tests required fields and the attempts default.
func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   outbox.Entry
		wantErr error
	}{
		{"valid", outbox.Entry{ActionType: outbox.ActionTypeEmail, Payload: "{}", CreatedAt: t0}, nil},
		{"no action", outbox.Entry{Payload: "{}", CreatedAt: t0}, outbox.ErrEmptyActionType},
		{"no payload", outbox.Entry{ActionType: outbox.ActionTypeEmail, CreatedAt: t0}, outbox.ErrEmptyPayload},
		{"no created", outbox.Entry{ActionType: outbox.ActionTypeEmail, Payload: "{}"}, outbox.ErrMissingCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if err != tt.wantErr {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && tt.entry.MaxAttempts != outbox.DefaultMaxAttempts {
				t.Errorf("MaxAttempts = %d, want default", tt.entry.MaxAttempts)
			}
		})
	}
}

// TestEntry_Lifecycle walks an entry through attempts until it fails.
func TestEntry_Lifecycle(t *testing.T) {
	e := outbox.Entry{Status: outbox.StatusPending, MaxAttempts: 2}
	if !e.CanRetry() || e.IsTerminal() {
		t.Fatal("new entry should be retryable")
	}

	e.MarkAttempt(t0)
	e.MarkFailed(errors.New("timeout"))
	if e.Status != outbox.StatusRetrying || !e.CanRetry() {
		t.Fatalf("after 1 failure: status=%s", e.Status)
	}

	e.MarkAttempt(t0.Add(time.Minute))
	e.MarkFailed(errors.New("timeout"))
	if e.Status != outbox.StatusFailed || e.CanRetry() || !e.IsTerminal() {
		t.Fatalf("after exhaustion: status=%s attempts=%d", e.Status, e.Attempts)
	}
	if e.ErrorMessage != "timeout" {
		t.Errorf("ErrorMessage = %q", e.ErrorMessage)
	}

	if err := e.ResetForRetry(); err != nil {
		t.Fatalf("ResetForRetry() error = %v", err)
	}
	if e.Status != outbox.StatusPending || e.Attempts != 0 {
		t.Errorf("after reset: %+v", e)
	}
	if err := e.ResetForRetry(); err != outbox.ErrNotRetryable {
		t.Errorf("reset of pending entry error = %v", err)
	}
}

// TestEntry_MarkSuccessAndAbandon tests the terminal transitions.
func TestEntry_MarkSuccessAndAbandon(t *testing.T) {
	e := outbox.Entry{Status: outbox.StatusRetrying, MaxAttempts: 5, ErrorMessage: "x"}
	e.MarkSuccess("msg-1")
	if e.Status != outbox.StatusDone || e.ExternalID != "msg-1" || e.ErrorMessage != "" {
		t.Errorf("MarkSuccess() left %+v", e)
	}

	a := outbox.Entry{Status: outbox.StatusPending, MaxAttempts: 5}
	a.MarkAbandoned()
	if !a.IsTerminal() || a.CanRetry() {
		t.Errorf("abandoned entry should be terminal")
	}
}

// TestEntry_NextRetryDelay tests exponential backoff and the cap.
func TestEntry_NextRetryDelay(t *testing.T) {
	base, max := 30*time.Second, 10*time.Minute
	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{0, 30 * time.Second},
		{1, time.Minute},
		{3, 4 * time.Minute},
		{5, 10 * time.Minute},
		{40, 10 * time.Minute},
	}
	for _, tt := range tests {
		e := outbox.Entry{Attempts: tt.attempts}
		if got := e.NextRetryDelay(base, max); got != tt.want {
			t.Errorf("attempts=%d: NextRetryDelay() = %v, want %v", tt.attempts, got, tt.want)
		}
	}
}

// TestEntry_IsDue tests backoff gating.
func TestEntry_IsDue(t *testing.T) {
	e := outbox.Entry{}
	if !e.IsDue(t0, time.Second, time.Minute) {
		t.Error("never-attempted entry should be due")
	}
	e.MarkAttempt(t0)
	if e.IsDue(t0.Add(time.Second), time.Second, time.Minute) {
		t.Error("entry should wait 2s after first attempt")
	}
	if !e.IsDue(t0.Add(2*time.Second), time.Second, time.Minute) {
		t.Error("entry should be due after backoff")
	}
}
