package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"coachsite/internal/adapters/broker"
	"coachsite/internal/adapters/email"
	"coachsite/internal/adapters/http/middleware"
	"coachsite/internal/adapters/http/perf"
	"coachsite/internal/adapters/objectstore"
	accountStore "coachsite/internal/adapters/storage/account"
	bookingStore "coachsite/internal/adapters/storage/booking"
	mediaStore "coachsite/internal/adapters/storage/media"
	memberStore "coachsite/internal/adapters/storage/member"
	outboxStore "coachsite/internal/adapters/storage/outbox"
	pushStore "coachsite/internal/adapters/storage/push"
	noteStore "coachsite/internal/adapters/storage/sessionnote"
	settingStore "coachsite/internal/adapters/storage/setting"
	"coachsite/internal/adapters/storage/storagetest"
	taskStore "coachsite/internal/adapters/storage/task"
	"coachsite/internal/application/orchestrators"
	"coachsite/internal/domain/outbox"
)

const (
	adminEmail    = "coach@example.com"
	adminPassword = "correct-horse-battery"
)

var testNow = time.Date(2026, 3, 4, 2, 0, 0, 0, time.UTC)

type testApp struct {
	handler   http.Handler
	stores    Stores
	sender    *email.NoopSender
	publisher *broker.NoopPublisher
	registry  *prometheus.Registry
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// newTestApp wires the full handler stack over an in-memory database with a seeded admin.
func newTestApp(t *testing.T, opts ...func(*Deps)) *testApp {
	t.Helper()
	db := storagetest.NewDB(t)
	stores := Stores{
		Accounts: accountStore.NewSQLiteStore(db),
		Bookings: bookingStore.NewSQLiteStore(db),
		Members:  memberStore.NewSQLiteStore(db),
		Tasks:    taskStore.NewSQLiteStore(db),
		Notes:    noteStore.NewSQLiteStore(db),
		Push:     pushStore.NewSQLiteStore(db),
		Media:    mediaStore.NewSQLiteStore(db),
		Settings: settingStore.NewSQLiteStore(db),
		Outbox:   outboxStore.NewSQLiteStore(db),
	}
	ids := sequentialIDs()
	now := func() time.Time { return testNow }

	created, err := orchestrators.ExecuteSeedAdmin(context.Background(), orchestrators.SeedAdminInput{
		Email: adminEmail, Password: adminPassword,
	}, orchestrators.SeedAdminDeps{AccountStore: stores.Accounts, GenerateID: ids, Now: now})
	require.NoError(t, err)
	require.True(t, created)

	objects, err := objectstore.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	sender := email.NewNoopSender()
	publisher := broker.NewNoopPublisher()
	reg := prometheus.NewRegistry()
	processor := orchestrators.NewOutboxProcessor(stores.Outbox, map[string]orchestrators.ActionExecutor{
		outbox.ActionTypeEmail:        orchestrators.EmailExecutor{Sender: sender},
		outbox.ActionTypePushDelivery: orchestrators.PushDeliveryExecutor{Publisher: publisher},
	}, orchestrators.OutboxConfig{}, reg)

	deps := Deps{
		Stores:      stores,
		Email:       sender,
		Objects:     objects,
		Publisher:   publisher,
		Outbox:      processor,
		Tokens:      middleware.NewTokens("test-secret", time.Hour),
		Perf:        perf.NewCollector(100, reg),
		Metrics:     reg,
		NotifyEmail: "inbox@example.com",
		BaseURL:     "https://coach.example.com",
		CSRFKey:     []byte(strings.Repeat("k", 32)),
		RateLimit:   1000,
		Now:         now,
		GenerateID:  ids,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	return &testApp{handler: NewMux(deps), stores: stores, sender: sender, publisher: publisher, registry: reg}
}

// do sends a request; a non-nil body is encoded as JSON.
func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

// login signs in the seeded admin and returns the bearer token.
func (a *testApp) login(t *testing.T) string {
	t.Helper()
	rr := a.do(t, "POST", "/api/admin/login", "", loginRequest{Email: adminEmail, Password: adminPassword})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp sessionResponse
	decode(t, rr, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}
