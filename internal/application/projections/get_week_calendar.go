package projections

import (
	"context"
	"time"

	"coachsite/internal/adapters/storage/booking"
	"coachsite/internal/adapters/storage/member"
	"coachsite/internal/adapters/storage/task"
	domainBooking "coachsite/internal/domain/booking"
	domainMember "coachsite/internal/domain/member"
	domainSettings "coachsite/internal/domain/settings"
	domainTask "coachsite/internal/domain/task"
)

// Fallback task colours by status, used when the member has no coloured tag.
var taskStatusColors = map[string]string{
	domainTask.StatusTodo:       "#eab308",
	domainTask.StatusInProgress: "#3b82f6",
	domainTask.StatusDone:       "#22c55e",
}

// CalendarTask is an open task placed on a calendar day.
type CalendarTask struct {
	domainTask.Task
	MemberName string `json:"memberName"`
	Color      string `json:"color"`
	Overdue    bool   `json:"overdue"`
}

// CalendarDay is one of the seven day buckets.
type CalendarDay struct {
	Date    string         `json:"date"` // YYYY-MM-DD
	IsToday bool           `json:"isToday"`
	Tasks   []CalendarTask `json:"tasks"`
}

// WeekCalendarResult is the seven-day view plus open bookings.
type WeekCalendarResult struct {
	WeekOffset   int                     `json:"weekOffset"`
	MemberID     string                  `json:"memberId,omitempty"`
	Days         []CalendarDay           `json:"days"`
	Overdue      []CalendarTask          `json:"overdue"`
	OpenBookings []domainBooking.Booking `json:"openBookings"`
}

// GetWeekCalendarQuery carries input for the calendar projection.
type GetWeekCalendarQuery struct {
	WeekOffset int    // 0 = the seven days starting today; negative clamps to 0
	MemberID   string // empty = every member
	Now        time.Time
}

// GetWeekCalendarDeps holds dependencies for the calendar projection.
type GetWeekCalendarDeps struct {
	TaskStore    TaskStore
	BookingStore BookingStore
	MemberStore  MemberStore
	SettingStore SettingStore
}

// MaxWeekOffset is the furthest week the calendar looks ahead.
const MaxWeekOffset = 520

// BuildWeekCalendar buckets open tasks by due date over seven days starting
// today + 7*weekOffset. Days are calendar days in now's location.
// weekOffset is clamped to [0, MaxWeekOffset].
// PRE: tasks and members are complete lists
// POST: len(Days) == 7; each bucket holds only open tasks due that day
func BuildWeekCalendar(query GetWeekCalendarQuery, tasks []domainTask.Task, bookings []domainBooking.Booking, members []domainMember.Member, colors domainSettings.TagColors) WeekCalendarResult {
	offset := min(max(query.WeekOffset, 0), MaxWeekOffset)
	today := startOfDay(query.Now)
	todayStr := today.Format(domainTask.DateLayout)
	start := today.AddDate(0, 0, 7*offset)

	byID := make(map[string]domainMember.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	place := func(t domainTask.Task) CalendarTask {
		m := byID[t.MemberID]
		ct := CalendarTask{Task: t, MemberName: m.Name, Overdue: t.IsOverdue(todayStr)}
		if ct.MemberName == "" {
			ct.MemberName = "未指定"
		}
		ct.Color = taskStatusColors[t.Status]
		if len(m.Tags) > 0 {
			if c, ok := colors[m.Tags[0]]; ok && c != "" {
				ct.Color = c
			}
		}
		return ct
	}

	result := WeekCalendarResult{WeekOffset: offset, MemberID: query.MemberID, Days: make([]CalendarDay, 7)}
	index := make(map[string]int, 7)
	for i := range result.Days {
		day := start.AddDate(0, 0, i).Format(domainTask.DateLayout)
		result.Days[i] = CalendarDay{Date: day, IsToday: day == todayStr, Tasks: []CalendarTask{}}
		index[day] = i
	}
	for _, t := range tasks {
		if query.MemberID != "" && t.MemberID != query.MemberID {
			continue
		}
		if i, ok := index[t.DueDate]; ok && t.IsOpen() {
			result.Days[i].Tasks = append(result.Days[i].Tasks, place(t))
		}
		if t.IsOverdue(todayStr) {
			result.Overdue = append(result.Overdue, place(t))
		}
	}
	result.OpenBookings = []domainBooking.Booking{}
	for _, b := range bookings {
		if b.IsOpen() {
			result.OpenBookings = append(result.OpenBookings, b)
		}
	}
	return result
}

// QueryGetWeekCalendar loads tasks, bookings and members and builds the week view.
// PRE: query.Now is set
// POST: see BuildWeekCalendar
func QueryGetWeekCalendar(ctx context.Context, query GetWeekCalendarQuery, deps GetWeekCalendarDeps) (WeekCalendarResult, error) {
	tasks, err := deps.TaskStore.List(ctx, task.ListFilter{MemberID: query.MemberID, OpenOnly: true})
	if err != nil {
		return WeekCalendarResult{}, err
	}
	bookings, err := deps.BookingStore.List(ctx, booking.ListFilter{})
	if err != nil {
		return WeekCalendarResult{}, err
	}
	members, err := deps.MemberStore.List(ctx, member.ListFilter{})
	if err != nil {
		return WeekCalendarResult{}, err
	}
	return BuildWeekCalendar(query, tasks, bookings, members, QueryGetTagColors(ctx, deps.SettingStore)), nil
}
