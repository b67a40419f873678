package projections

import (
	"context"
	"time"

	"coachsite/internal/adapters/storage/booking"
	"coachsite/internal/adapters/storage/member"
	"coachsite/internal/adapters/storage/task"
	domainBooking "coachsite/internal/domain/booking"
	domainMember "coachsite/internal/domain/member"
	domainPush "coachsite/internal/domain/push"
	domainTask "coachsite/internal/domain/task"
)

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Now time.Time
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	BookingStore BookingStore
	MemberStore  MemberStore
	TaskStore    TaskStore
	PushStore    PushStore
	SettingStore SettingStore
}

// DashboardCards are the four headline numbers.
type DashboardCards struct {
	PendingBookings int `json:"pendingBookings"`
	ActiveMembers   int `json:"activeMembers"` // following + in_progress
	OpenTasks       int `json:"openTasks"`     // todo + in_progress
	DraftPushes     int `json:"draftPushes"`
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Cards          DashboardCards `json:"cards"`
	Bookings       StatusCounts   `json:"bookings"`
	Members        StatusCounts   `json:"members"`
	Tasks          StatusCounts   `json:"tasks"`
	Push           StatusCounts   `json:"push"`
	ConversionRate float64        `json:"conversionRate"`
	StaleDays      int            `json:"staleDays"`
	StaleMembers   []StaleMember  `json:"staleMembers"`
}

// QueryGetDashboard computes the admin home page numbers.
// PRE: query.Now is set
// POST: every distribution's Total equals the number of stored records
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	bookings, err := deps.BookingStore.List(ctx, booking.ListFilter{})
	if err != nil {
		return DashboardResult{}, err
	}
	members, err := deps.MemberStore.List(ctx, member.ListFilter{})
	if err != nil {
		return DashboardResult{}, err
	}
	tasks, err := deps.TaskStore.List(ctx, task.ListFilter{})
	if err != nil {
		return DashboardResult{}, err
	}
	messages, err := deps.PushStore.List(ctx, "")
	if err != nil {
		return DashboardResult{}, err
	}
	return BuildDashboard(bookings, members, tasks, messages, QueryGetStaleDays(ctx, deps.SettingStore), query.Now), nil
}

// BuildDashboard derives the dashboard from full record lists.
func BuildDashboard(bookings []domainBooking.Booking, members []domainMember.Member, tasks []domainTask.Task, messages []domainPush.Message, staleDays int, now time.Time) DashboardResult {
	r := DashboardResult{
		Bookings:       BookingStats(bookings),
		Members:        MemberStats(members),
		Tasks:          TaskStats(tasks),
		Push:           PushStats(messages),
		ConversionRate: ConversionRate(bookings, members),
		StaleDays:      staleDays,
		StaleMembers:   StaleMembers(members, staleDays, now),
	}
	r.Cards = DashboardCards{
		PendingBookings: r.Bookings.Get(domainBooking.StatusPending),
		ActiveMembers:   r.Members.Get(domainMember.StatusFollowing) + r.Members.Get(domainMember.StatusInProgress),
		OpenTasks:       r.Tasks.Get(domainTask.StatusTodo) + r.Tasks.Get(domainTask.StatusInProgress),
		DraftPushes:     r.Push.Get(domainPush.StatusDraft),
	}
	if r.StaleMembers == nil {
		r.StaleMembers = []StaleMember{}
	}
	return r
}
