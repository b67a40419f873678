package projections

import (
	"context"
	"time"

	"coachsite/internal/adapters/storage/booking"
	"coachsite/internal/adapters/storage/member"
	"coachsite/internal/adapters/storage/setting"
	"coachsite/internal/adapters/storage/task"
	domainBooking "coachsite/internal/domain/booking"
	domainMember "coachsite/internal/domain/member"
	domainPush "coachsite/internal/domain/push"
	domainNote "coachsite/internal/domain/sessionnote"
	domainTask "coachsite/internal/domain/task"
)

// BookingStore interface for booking queries.
type BookingStore interface {
	List(ctx context.Context, filter booking.ListFilter) ([]domainBooking.Booking, error)
	Count(ctx context.Context, filter booking.ListFilter) (int, error)
}

// MemberStore interface for member queries.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (domainMember.Member, error)
	List(ctx context.Context, filter member.ListFilter) ([]domainMember.Member, error)
	Count(ctx context.Context, filter member.ListFilter) (int, error)
}

// TaskStore interface for task queries.
type TaskStore interface {
	List(ctx context.Context, filter task.ListFilter) ([]domainTask.Task, error)
}

// SessionNoteStore interface for session note queries.
type SessionNoteStore interface {
	ListByMember(ctx context.Context, memberID string) ([]domainNote.Note, error)
}

// PushStore interface for push message queries.
type PushStore interface {
	List(ctx context.Context, status string) ([]domainPush.Message, error)
}

// SettingStore interface for settings reads.
type SettingStore interface {
	Get(ctx context.Context, key string) (setting.Entry, error)
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
