package projections

import (
	"slices"
	"time"

	domainBooking "coachsite/internal/domain/booking"
	domainMember "coachsite/internal/domain/member"
	domainPush "coachsite/internal/domain/push"
	domainTask "coachsite/internal/domain/task"
)

// StatusCounts is a status distribution.
// INVARIANT: every known status has a key; the values sum to Total
type StatusCounts struct {
	ByStatus map[string]int `json:"byStatus"`
	Other    int            `json:"other,omitempty"` // records whose status is not in the known list
	Total    int            `json:"total"`
}

// Get returns the count for status.
func (c StatusCounts) Get(status string) int {
	return c.ByStatus[status]
}

func countStatuses[T any](records []T, known []string, status func(T) string) StatusCounts {
	c := StatusCounts{ByStatus: make(map[string]int, len(known)), Total: len(records)}
	for _, s := range known {
		c.ByStatus[s] = 0
	}
	for _, r := range records {
		s := status(r)
		if _, ok := c.ByStatus[s]; ok {
			c.ByStatus[s]++
		} else {
			c.Other++
		}
	}
	return c
}

// BookingStats counts bookings per status.
// POST: Total == len(bookings)
func BookingStats(bookings []domainBooking.Booking) StatusCounts {
	return countStatuses(bookings, domainBooking.Statuses, func(b domainBooking.Booking) string { return b.Status })
}

// MemberStats counts members per status.
// POST: Total == len(members)
func MemberStats(members []domainMember.Member) StatusCounts {
	return countStatuses(members, domainMember.Statuses, func(m domainMember.Member) string { return m.Status })
}

// TaskStats counts tasks per status.
// POST: Total == len(tasks)
func TaskStats(tasks []domainTask.Task) StatusCounts {
	return countStatuses(tasks, domainTask.Statuses, func(t domainTask.Task) string { return t.Status })
}

// PushStats counts push messages per status.
// POST: Total == len(messages)
func PushStats(messages []domainPush.Message) StatusCounts {
	return countStatuses(messages, domainPush.Statuses, func(m domainPush.Message) string { return m.Status })
}

// ConversionRate returns the share of non-cancelled bookings whose email
// belongs to a CRM member, compared case-insensitively.
// POST: 0 <= result <= 1; 0 when there are no non-cancelled bookings
func ConversionRate(bookings []domainBooking.Booking, members []domainMember.Member) float64 {
	emails := make(map[string]bool, len(members))
	for _, m := range members {
		emails[domainMember.NormalizeEmail(m.Email)] = true
	}
	var eligible, converted int
	for _, b := range bookings {
		if b.Status == domainBooking.StatusCancelled {
			continue
		}
		eligible++
		if emails[domainMember.NormalizeEmail(b.Email)] {
			converted++
		}
	}
	if eligible == 0 {
		return 0
	}
	return float64(converted) / float64(eligible)
}

// StaleMember is a member the coach has not touched within the stale window.
type StaleMember struct {
	domainMember.Member
	DaysSinceUpdate int `json:"daysSinceUpdate"`
}

// StaleMembers returns members in new, following or in_progress whose last
// update is more than staleDays days before now, oldest first.
// PRE: staleDays > 0
// POST: result is ordered by UpdatedAt ascending
func StaleMembers(members []domainMember.Member, staleDays int, now time.Time) []StaleMember {
	cutoff := now.Add(-time.Duration(staleDays) * 24 * time.Hour)
	var out []StaleMember
	for _, m := range members {
		if !m.NeedsFollowUp() || !m.UpdatedAt.Before(cutoff) {
			continue
		}
		out = append(out, StaleMember{Member: m, DaysSinceUpdate: int(now.Sub(m.UpdatedAt).Hours() / 24)})
	}
	slices.SortStableFunc(out, func(a, b StaleMember) int {
		return a.UpdatedAt.Compare(b.UpdatedAt)
	})
	return out
}
