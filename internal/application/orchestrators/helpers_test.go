package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"coachsite/internal/adapters/broker"
	emailAdapter "coachsite/internal/adapters/email"
	"coachsite/internal/adapters/storage/account"
	"coachsite/internal/adapters/storage/booking"
	"coachsite/internal/adapters/storage/media"
	"coachsite/internal/adapters/storage/member"
	"coachsite/internal/adapters/storage/outbox"
	"coachsite/internal/adapters/storage/push"
	"coachsite/internal/adapters/storage/sessionnote"
	"coachsite/internal/adapters/storage/setting"
	"coachsite/internal/adapters/storage/storagetest"
	"coachsite/internal/adapters/storage/task"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// sequentialIDs returns id-1, id-2, ...
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

type stores struct {
	accounts *account.SQLiteStore
	bookings *booking.SQLiteStore
	members  *member.SQLiteStore
	tasks    *task.SQLiteStore
	notes    *sessionnote.SQLiteStore
	push     *push.SQLiteStore
	media    *media.SQLiteStore
	settings *setting.SQLiteStore
	outbox   *outbox.SQLiteStore
}

func newStores(t *testing.T) stores {
	t.Helper()
	db := storagetest.NewDB(t)
	return stores{
		accounts: account.NewSQLiteStore(db),
		bookings: booking.NewSQLiteStore(db),
		members:  member.NewSQLiteStore(db),
		tasks:    task.NewSQLiteStore(db),
		notes:    sessionnote.NewSQLiteStore(db),
		push:     push.NewSQLiteStore(db),
		media:    media.NewSQLiteStore(db),
		settings: setting.NewSQLiteStore(db),
		outbox:   outbox.NewSQLiteStore(db),
	}
}

var errProviderDown = errors.New("provider unavailable")

// failingSender fails every send.
type failingSender struct{}

func (failingSender) Send(context.Context, emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	return emailAdapter.SendResult{}, errProviderDown
}

func (failingSender) SendBatch(context.Context, []emailAdapter.SendRequest) ([]emailAdapter.SendResult, error) {
	return nil, errProviderDown
}

// failingPublisher fails every publish.
type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, broker.Dispatch) error { return errProviderDown }

func (failingPublisher) Close() error { return nil }

var bookingListAll = booking.ListFilter{}

var memberListAll = member.ListFilter{}
