package projections

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainBooking "coachsite/internal/domain/booking"
	domainMember "coachsite/internal/domain/member"
	domainPush "coachsite/internal/domain/push"
	domainTask "coachsite/internal/domain/task"
)

var now = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

func bookingWith(id, email, status string) domainBooking.Booking {
	return domainBooking.Booking{ID: id, Name: id, Email: email, Status: status, CreatedAt: now, UpdatedAt: now}
}

func memberWith(id, status string, updatedAgo time.Duration) domainMember.Member {
	return domainMember.Member{
		ID: id, Name: id, Email: id + "@example.com", Source: domainMember.SourceManual,
		Status: status, CreatedAt: now.Add(-60 * 24 * time.Hour), UpdatedAt: now.Add(-updatedAgo),
	}
}

func sum(c StatusCounts) int {
	n := c.Other
	for _, v := range c.ByStatus {
		n += v
	}
	return n
}

// TestBookingStats verifies counts per status sum to the total.
func TestBookingStats(t *testing.T) {
	stats := BookingStats([]domainBooking.Booking{
		bookingWith("a", "a@x.com", domainBooking.StatusPending),
		bookingWith("b", "b@x.com", domainBooking.StatusPending),
		bookingWith("c", "c@x.com", domainBooking.StatusConfirmed),
		bookingWith("d", "d@x.com", "archived"),
	})
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Get(domainBooking.StatusPending))
	assert.Equal(t, 1, stats.Get(domainBooking.StatusConfirmed))
	assert.Equal(t, 0, stats.Get(domainBooking.StatusCancelled))
	assert.Equal(t, 1, stats.Other)
	assert.Equal(t, stats.Total, sum(stats))
}

// TestStats_Empty verifies every status is present with zero counts.
func TestStats_Empty(t *testing.T) {
	for name, c := range map[string]StatusCounts{
		"bookings": BookingStats(nil),
		"members":  MemberStats(nil),
		"tasks":    TaskStats(nil),
		"push":     PushStats(nil),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Zero(t, c.Total)
			assert.NotEmpty(t, c.ByStatus)
			assert.Zero(t, sum(c))
		})
	}
	assert.Len(t, MemberStats(nil).ByStatus, len(domainMember.Statuses))
}

// TestTaskAndPushStats spot-checks the remaining distributions.
func TestTaskAndPushStats(t *testing.T) {
	tasks := TaskStats([]domainTask.Task{
		{ID: "1", Status: domainTask.StatusTodo},
		{ID: "2", Status: domainTask.StatusDone},
		{ID: "3", Status: domainTask.StatusDone},
	})
	assert.Equal(t, 2, tasks.Get(domainTask.StatusDone))
	assert.Equal(t, 3, sum(tasks))

	push := PushStats([]domainPush.Message{{ID: "1", Status: domainPush.StatusDraft}})
	assert.Equal(t, 1, push.Get(domainPush.StatusDraft))
	assert.Equal(t, 0, push.Get(domainPush.StatusSent))
}

// TestConversionRate covers case folding, cancelled exclusion and empty input.
func TestConversionRate(t *testing.T) {
	members := []domainMember.Member{memberWith("amy", domainMember.StatusNew, 0)}
	bookings := []domainBooking.Booking{
		bookingWith("1", "AMY@example.com ", domainBooking.StatusConfirmed),
		bookingWith("2", "bob@example.com", domainBooking.StatusPending),
		bookingWith("3", "amy@example.com", domainBooking.StatusCancelled),
	}
	assert.InDelta(t, 0.5, ConversionRate(bookings, members), 1e-9)
	assert.Zero(t, ConversionRate(nil, members))
	assert.Zero(t, ConversionRate(bookings[2:], members))
}

// TestStaleMembers verifies the status filter, the cutoff and ordering.
func TestStaleMembers(t *testing.T) {
	day := 24 * time.Hour
	members := []domainMember.Member{
		memberWith("fresh", domainMember.StatusNew, 2*day),
		memberWith("old", domainMember.StatusFollowing, 20*day),
		memberWith("older", domainMember.StatusInProgress, 30*day),
		memberWith("done", domainMember.StatusCompleted, 90*day),
		memberWith("paused", domainMember.StatusPaused, 90*day),
		memberWith("edge", domainMember.StatusNew, 7*day),
	}
	stale := StaleMembers(members, 7, now)
	require.Len(t, stale, 2)
	assert.Equal(t, "older", stale[0].ID)
	assert.Equal(t, 30, stale[0].DaysSinceUpdate)
	assert.Equal(t, "old", stale[1].ID)

	assert.Len(t, StaleMembers(members, 3, now), 3)
	assert.Empty(t, StaleMembers(nil, 7, now))
}
