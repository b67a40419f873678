package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachsite/internal/adapters/http/middleware"
	"coachsite/internal/application/projections"
	"coachsite/internal/domain/booking"
	"coachsite/internal/domain/media"
	"coachsite/internal/domain/member"
	"coachsite/internal/domain/outbox"
	"coachsite/internal/domain/push"
	"coachsite/internal/domain/sessionnote"
	"coachsite/internal/domain/settings"
	"coachsite/internal/domain/task"
)

func TestAdmin_RequiresSession(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/api/admin/me", "/api/admin/dashboard", "/api/admin/bookings", "/api/admin/settings"} {
		rr := app.do(t, "GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
	rr := app.do(t, "GET", "/api/admin/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdmin_LoginLogout(t *testing.T) {
	app := newTestApp(t)

	rr := app.do(t, "POST", "/api/admin/login", "", loginRequest{Email: adminEmail, Password: "wrong-password-123"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token := app.login(t)
	rr = app.do(t, "GET", "/api/admin/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var me sessionResponse
	decode(t, rr, &me)
	assert.Equal(t, adminEmail, me.Email)
	assert.Empty(t, me.Token)

	rr = app.do(t, "POST", "/api/admin/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = app.do(t, "GET", "/api/admin/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "revoked token")
}

func TestAdmin_LoginSetsCookie(t *testing.T) {
	app := newTestApp(t)
	rr := app.do(t, "POST", "/api/admin/login", "", loginRequest{Email: adminEmail, Password: adminPassword})
	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest("GET", "/api/admin/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// cookieRequest sends a request that authenticates with cookies only.
func cookieRequest(app *testApp, method, path, csrfToken string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Accept", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	if csrfToken != "" {
		req.Header.Set(middleware.CSRFHeader, csrfToken)
	}
	rr := httptest.NewRecorder()
	app.handler.ServeHTTP(rr, req)
	return rr
}

func TestAdmin_CookieSessionUnsafeRequests(t *testing.T) {
	app := newTestApp(t)
	b := submitBooking(t, app, "Amy", "amy@example.com")

	rr := app.do(t, "POST", "/api/admin/login", "", loginRequest{Email: adminEmail, Password: adminPassword})
	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()

	me := cookieRequest(app, "GET", "/api/admin/me", "", cookies)
	require.Equal(t, http.StatusOK, me.Code)
	csrfToken := me.Header().Get(middleware.CSRFHeader)
	require.NotEmpty(t, csrfToken)
	cookies = append(cookies, me.Result().Cookies()...)

	rr = cookieRequest(app, "DELETE", "/api/admin/bookings/"+b.ID, "", cookies)
	assert.Equal(t, http.StatusForbidden, rr.Code, "missing csrf header")

	rr = cookieRequest(app, "DELETE", "/api/admin/bookings/"+b.ID, csrfToken, cookies)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = cookieRequest(app, "POST", "/api/admin/logout", csrfToken, cookies)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = cookieRequest(app, "GET", "/api/admin/me", "", cookies)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func submitBooking(t *testing.T, app *testApp, name, email string) booking.Booking {
	t.Helper()
	rr := app.do(t, "POST", "/booking", "", bookingForm{Name: name, Email: email})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var b booking.Booking
	decode(t, rr, &b)
	return b
}

func TestAdmin_BookingLifecycle(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)
	b := submitBooking(t, app, "Amy", "amy@example.com")
	submitBooking(t, app, "Ben", "ben@example.com")

	rr := app.do(t, "GET", "/api/admin/bookings?status=pending", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list projections.BookingListResult
	decode(t, rr, &list)
	assert.Len(t, list.Bookings, 2)
	assert.Equal(t, 2, list.Stats.ByStatus[booking.StatusPending])

	rr = app.do(t, "PATCH", "/api/admin/bookings/"+b.ID, token, map[string]string{"status": booking.StatusContacted})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = app.do(t, "PATCH", "/api/admin/bookings/"+b.ID, token, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = app.do(t, "POST", "/api/admin/bookings/"+b.ID+"/convert", token, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var m member.Member
	decode(t, rr, &m)
	assert.Equal(t, "amy@example.com", m.Email)
	assert.Equal(t, member.SourceBooking, m.Source)

	rr = app.do(t, "POST", "/api/admin/bookings/"+b.ID+"/convert", token, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	var conflict struct {
		Member member.Member `json:"member"`
	}
	decode(t, rr, &conflict)
	assert.Equal(t, m.ID, conflict.Member.ID)

	rr = app.do(t, "DELETE", "/api/admin/bookings/"+b.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = app.do(t, "DELETE", "/api/admin/bookings/"+b.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func createMember(t *testing.T, app *testApp, token string, body memberRequest) member.Member {
	t.Helper()
	rr := app.do(t, "POST", "/api/admin/members", token, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var m member.Member
	decode(t, rr, &m)
	return m
}

func TestAdmin_MemberCRUD(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	m := createMember(t, app, token, memberRequest{Name: "Cathy", Email: "cathy@example.com", Tags: []string{"VIP"}})
	assert.Equal(t, member.StatusNew, m.Status)
	assert.Equal(t, member.SourceManual, m.Source)

	rr := app.do(t, "POST", "/api/admin/members", token, memberRequest{Name: "Cathy again", Email: "cathy@example.com"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = app.do(t, "POST", "/api/admin/members", token, memberRequest{Name: "", Email: "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	status := member.StatusInProgress
	rr = app.do(t, "PATCH", "/api/admin/members/"+m.ID, token, memberPatch{Status: &status})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = app.do(t, "GET", "/api/admin/members?status="+member.StatusInProgress, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list projections.MemberListResult
	decode(t, rr, &list)
	require.Len(t, list.Members, 1)
	assert.Equal(t, m.ID, list.Members[0].ID)

	rr = app.do(t, "GET", "/api/admin/members/"+m.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var detail projections.MemberDetailResult
	decode(t, rr, &detail)
	assert.Equal(t, member.StatusInProgress, detail.Member.Status)

	rr = app.do(t, "GET", "/api/admin/members/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = app.do(t, "DELETE", "/api/admin/members/"+m.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	_, err := app.stores.Members.GetByID(context.Background(), m.ID)
	assert.Error(t, err)
}

func TestAdmin_UpsertLineMember(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	body := map[string]string{"lineUserId": "U123", "displayName": "Dora"}
	rr := app.do(t, "POST", "/api/admin/members/line", token, body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var first member.Member
	decode(t, rr, &first)
	assert.Equal(t, member.SourceLine, first.Source)

	body["displayName"] = "Dora C."
	rr = app.do(t, "POST", "/api/admin/members/line", token, body)
	require.Equal(t, http.StatusOK, rr.Code)
	var second member.Member
	decode(t, rr, &second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Dora C.", second.LineDisplayName)
}

func TestAdmin_NotesAndTasks(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)
	m := createMember(t, app, token, memberRequest{Name: "Eve", Email: "eve@example.com"})

	rr := app.do(t, "GET", "/api/admin/members/"+m.ID+"/notes", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = app.do(t, "POST", "/api/admin/members/"+m.ID+"/notes", token, map[string]string{"content": "First session"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var n sessionnote.Note
	decode(t, rr, &n)
	assert.Equal(t, "2026-03-04", n.NoteDate, "defaults to today in Taipei")

	rr = app.do(t, "POST", "/api/admin/members/missing/notes", token, map[string]string{"content": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = app.do(t, "DELETE", "/api/admin/notes/"+n.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = app.do(t, "POST", "/api/admin/members/"+m.ID+"/tasks", token, map[string]string{"title": "Send meal plan", "dueDate": "2026-03-06"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var tk task.Task
	decode(t, rr, &tk)
	assert.Equal(t, task.StatusTodo, tk.Status)

	done := task.StatusDone
	rr = app.do(t, "PATCH", "/api/admin/tasks/"+tk.ID, token, map[string]*string{"status": &done})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = app.do(t, "GET", "/api/admin/tasks?member="+m.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var tasks struct {
		Tasks []task.Task              `json:"tasks"`
		Stats projections.StatusCounts `json:"stats"`
	}
	decode(t, rr, &tasks)
	require.Len(t, tasks.Tasks, 1)
	assert.Equal(t, 1, tasks.Stats.ByStatus[task.StatusDone])

	rr = app.do(t, "GET", "/api/admin/tasks?open=1", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &tasks)
	assert.Empty(t, tasks.Tasks)

	rr = app.do(t, "DELETE", "/api/admin/tasks/"+tk.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAdmin_DashboardAndCalendar(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)
	submitBooking(t, app, "Amy", "amy@example.com")

	rr := app.do(t, "GET", "/api/admin/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = app.do(t, "GET", "/api/admin/calendar?week=1", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var week projections.WeekCalendarResult
	decode(t, rr, &week)
	assert.Equal(t, "2026-03-11", week.Days[0].Date)

	rr = app.do(t, "GET", "/api/admin/calendar?week=9223372036854775807", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var far projections.WeekCalendarResult
	decode(t, rr, &far)
	assert.Equal(t, projections.MaxWeekOffset, far.WeekOffset)
	assert.Equal(t, testNow.In(taipei).AddDate(0, 0, 7*projections.MaxWeekOffset).Format("2006-01-02"), far.Days[0].Date)

	rr = app.do(t, "GET", "/api/admin/perf?minutes=5", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestAdmin_PushFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)
	createMember(t, app, token, memberRequest{Name: "Fay", Email: "fay@example.com"})

	rr := app.do(t, "POST", "/api/admin/push", token, pushRequest{Title: "Spring check-in", Body: "How are you?"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var msg push.Message
	decode(t, rr, &msg)
	assert.Equal(t, push.StatusDraft, msg.Status)
	assert.Equal(t, push.AudienceAll, msg.AudienceFilter)

	at := testNow.Add(24 * time.Hour).Format(time.RFC3339)
	rr = app.do(t, "POST", "/api/admin/push/"+msg.ID+"/schedule", token, scheduleRequest{ScheduledAt: at})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decode(t, rr, &msg)
	assert.Equal(t, push.StatusScheduled, msg.Status)

	rr = app.do(t, "POST", "/api/admin/push/"+msg.ID+"/schedule", token, scheduleRequest{ScheduledAt: "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = app.do(t, "POST", "/api/admin/push/"+msg.ID+"/send", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decode(t, rr, &msg)
	assert.Equal(t, push.StatusSent, msg.Status)
	assert.Equal(t, 1, msg.RecipientCount)
	assert.Len(t, app.publisher.Published(), 1)

	rr = app.do(t, "POST", "/api/admin/push/"+msg.ID+"/send", token, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = app.do(t, "GET", "/api/admin/push?status="+push.StatusSent, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []push.Message
	decode(t, rr, &list)
	assert.Len(t, list, 1)

	rr = app.do(t, "DELETE", "/api/admin/push/"+msg.ID, token, nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "sent messages are kept")

	rr = app.do(t, "POST", "/api/admin/push", token, pushRequest{Title: "Draft", Body: "Later"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var draft push.Message
	decode(t, rr, &draft)
	rr = app.do(t, "PUT", "/api/admin/push/"+draft.ID, token, pushRequest{Title: "Draft", Body: "Later", Audience: push.AudienceNew})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = app.do(t, "DELETE", "/api/admin/push/"+draft.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestAdmin_MediaFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "hero.png")
	require.NoError(t, err)
	_, err = fw.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("usage", media.UsageHero))
	require.NoError(t, mw.WriteField("alt", "Coach on stage"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/admin/media", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	app.handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var item media.Item
	decode(t, rr, &item)
	assert.Equal(t, "image/png", item.ContentType)
	assert.Equal(t, "hero.png", item.Name)
	assert.Equal(t, int64(len(pngHeader)), item.Size)

	rr = app.do(t, "GET", "/api/admin/media?usage="+media.UsageHero, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var items []media.Item
	decode(t, rr, &items)
	assert.Len(t, items, 1)

	alt := "Coach teaching"
	rr = app.do(t, "PATCH", "/api/admin/media/"+item.ID, token, mediaPatch{Alt: &alt})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decode(t, rr, &item)
	assert.Equal(t, alt, item.Alt)

	rr = app.do(t, "DELETE", "/api/admin/media/"+item.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAdmin_Settings(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	rr := app.do(t, "PUT", "/api/admin/settings/stale-days", token, staleDaysRequest{Days: 14})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = app.do(t, "PUT", "/api/admin/settings/stale-days", token, staleDaysRequest{Days: 5})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = app.do(t, "PUT", "/api/admin/settings/tag-colors", token, settings.TagColors{"VIP": "#ff0000"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = app.do(t, "PUT", "/api/admin/settings/tag-colors", token, settings.TagColors{"VIP": "red"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = app.do(t, "PUT", "/api/admin/settings/theme", token, map[string]string{"colorPrimary": "10 80% 50%"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = app.do(t, "GET", "/theme.css", "", nil)
	assert.Contains(t, rr.Body.String(), "10 80% 50%")

	rr = app.do(t, "PUT", "/api/admin/settings/line-oa", token, settings.LineOAConfig{
		Enabled: true, ChannelID: "123", ChannelSecret: "s3cret",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "s3cret")

	rr = app.do(t, "GET", "/api/admin/settings", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got projections.SiteSettingsResult
	decode(t, rr, &got)
	assert.Equal(t, 14, got.StaleDays)
	assert.Equal(t, "#ff0000", got.TagColors["VIP"])
	assert.Equal(t, "10 80% 50%", got.Theme.ColorPrimary)
	assert.True(t, got.LineOA.Enabled)
	assert.NotEqual(t, "s3cret", got.LineOA.ChannelSecret)

	rr = app.do(t, "DELETE", "/api/admin/settings/theme", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &got.Theme)
	assert.NotEqual(t, "10 80% 50%", got.Theme.ColorPrimary)
}

func TestAdmin_OutboxRetryAndAbandon(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)
	ctx := context.Background()

	payload, err := json.Marshal(map[string]any{"to": []string{"amy@example.com"}, "subject": "Hello", "html": "<p>Hi</p>"})
	require.NoError(t, err)
	for _, id := range []string{"e1", "e2"} {
		e := outbox.Entry{ID: id, ActionType: outbox.ActionTypeEmail, Payload: string(payload), Status: outbox.StatusFailed, MaxAttempts: 3, Attempts: 3, CreatedAt: testNow}
		require.NoError(t, e.Validate())
		require.NoError(t, app.stores.Outbox.Save(ctx, e))
	}

	rr := app.do(t, "GET", "/api/admin/outbox", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var entries []outbox.Entry
	decode(t, rr, &entries)
	assert.Len(t, entries, 2)

	rr = app.do(t, "POST", "/api/admin/outbox/e1/retry", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var retried outbox.Entry
	decode(t, rr, &retried)
	assert.Equal(t, outbox.StatusDone, retried.Status)
	assert.Len(t, app.sender.Sent(), 1)

	rr = app.do(t, "POST", "/api/admin/outbox/e1/retry", token, nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "done entries cannot be retried")

	rr = app.do(t, "POST", "/api/admin/outbox/e2/abandon", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = app.do(t, "POST", "/api/admin/outbox/missing/retry", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = app.do(t, "GET", "/api/admin/outbox/stats", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var counts map[string]int
	decode(t, rr, &counts)
	assert.Equal(t, 1, counts[outbox.StatusDone])
	assert.Equal(t, 1, counts[outbox.StatusAbandoned])

	rr = app.do(t, "GET", "/api/admin/outbox?status=all", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &entries)
	assert.Len(t, entries, 2)

	rr = app.do(t, "DELETE", "/api/admin/outbox/e1", token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	_, err = app.stores.Outbox.GetByID(ctx, "e1")
	assert.Error(t, err)
}
