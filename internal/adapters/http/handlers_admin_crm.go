package web

import (
	"errors"
	"net/http"
	"time"

	bookingStore "coachsite/internal/adapters/storage/booking"
	memberStore "coachsite/internal/adapters/storage/member"
	taskStore "coachsite/internal/adapters/storage/task"
	"coachsite/internal/application/listutil"
	"coachsite/internal/application/orchestrators"
	"coachsite/internal/application/projections"
	"coachsite/internal/domain/booking"
	"coachsite/internal/domain/member"
	"coachsite/internal/domain/sessionnote"
	"coachsite/internal/domain/task"
)

// --- Bookings ---

// handleListBookings handles GET /api/admin/bookings?status=&range=&sort=&page=&per_page=
func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := projections.QueryGetBookingList(r.Context(), projections.GetBookingListQuery{
		Filter: bookingStore.ListFilter{
			Status:       listutil.ParseChoice(q, "status", booking.Statuses, ""),
			CreatedSince: listutil.ParseRange(q, s.Now()),
			Sort: listutil.ParseChoice(q, "sort",
				[]string{bookingStore.SortDateDesc, bookingStore.SortDateAsc, bookingStore.SortStatus}, bookingStore.SortDateDesc),
		},
		Page: listutil.ParsePageParams(q),
	}, s.Stores.Bookings)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleUpdateBooking handles PATCH /api/admin/bookings/{id} with {"status": "..."}
func (s *Server) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	b, err := orchestrators.ExecuteUpdateBookingStatus(r.Context(), orchestrators.UpdateBookingStatusInput{
		BookingID: r.PathValue("id"), Status: body.Status,
	}, orchestrators.UpdateBookingStatusDeps{BookingStore: s.Stores.Bookings, Now: s.Now})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handleDeleteBooking handles DELETE /api/admin/bookings/{id}
func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteBooking(r.Context(), r.PathValue("id"), s.Stores.Bookings); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleConvertBooking handles POST /api/admin/bookings/{id}/convert.
// An existing member with the same email is returned with 409.
func (s *Server) handleConvertBooking(w http.ResponseWriter, r *http.Request) {
	m, err := orchestrators.ExecuteConvertBooking(r.Context(), r.PathValue("id"), orchestrators.ConvertBookingDeps{
		BookingStore: s.Stores.Bookings,
		MemberStore:  s.Stores.Members,
		GenerateID:   s.GenerateID,
		Now:          s.Now,
	})
	switch {
	case errors.Is(err, orchestrators.ErrAlreadyMember):
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error(), "member": m})
	case err != nil:
		writeError(w, err)
	default:
		writeJSON(w, http.StatusCreated, m)
	}
}

// --- Members ---

// handleListMembers handles GET /api/admin/members?status=&tag=&source=&q=&page=&per_page=
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := projections.QueryGetMemberList(r.Context(), projections.GetMemberListQuery{
		Filter: memberStore.ListFilter{
			Status: listutil.ParseChoice(q, "status", member.Statuses, ""),
			Source: listutil.ParseChoice(q, "source", member.Sources, ""),
			Tag:    q.Get("tag"),
			Search: listutil.ParseSearch(q),
		},
		Page: listutil.ParsePageParams(q),
	}, s.Stores.Members)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// memberRequest is the JSON body for creating a member.
type memberRequest struct {
	Name                 string   `json:"name"`
	Email                string   `json:"email"`
	Phone                string   `json:"phone"`
	PreferredContactTime string   `json:"preferredContactTime"`
	LineID               string   `json:"lineId"`
	Tags                 []string `json:"tags"`
	Source               string   `json:"source"`
	Status               string   `json:"status"`
	ProgressNote         string   `json:"progressNote"`
}

func (s *Server) createMemberDeps() orchestrators.CreateMemberDeps {
	return orchestrators.CreateMemberDeps{MemberStore: s.Stores.Members, GenerateID: s.GenerateID, Now: s.Now}
}

// handleCreateMember handles POST /api/admin/members
func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var body memberRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	m, err := orchestrators.ExecuteCreateMember(r.Context(), orchestrators.CreateMemberInput{
		Name:                 body.Name,
		Email:                body.Email,
		Phone:                body.Phone,
		PreferredContactTime: body.PreferredContactTime,
		LineID:               body.LineID,
		Tags:                 body.Tags,
		Source:               body.Source,
		Status:               body.Status,
		ProgressNote:         body.ProgressNote,
	}, s.createMemberDeps())
	switch {
	case errors.Is(err, orchestrators.ErrAlreadyMember):
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error(), "member": m})
	case err != nil:
		writeError(w, err)
	default:
		writeJSON(w, http.StatusCreated, m)
	}
}

// handleUpsertLineMember handles POST /api/admin/members/line with a LINE follower profile.
func (s *Server) handleUpsertLineMember(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LineUserID  string `json:"lineUserId"`
		DisplayName string `json:"displayName"`
		PictureURL  string `json:"pictureUrl"`
		Email       string `json:"email"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	m, err := orchestrators.ExecuteUpsertLineMember(r.Context(), orchestrators.UpsertLineMemberInput{
		LineUserID: body.LineUserID, DisplayName: body.DisplayName, PictureURL: body.PictureURL, Email: body.Email,
	}, s.createMemberDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleMemberDetail handles GET /api/admin/members/{id}
func (s *Server) handleMemberDetail(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetMemberDetail(r.Context(), r.PathValue("id"), projections.GetMemberDetailDeps{
		MemberStore:      s.Stores.Members,
		TaskStore:        s.Stores.Tasks,
		SessionNoteStore: s.Stores.Notes,
		BookingStore:     s.Stores.Bookings,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// memberPatch is the JSON body for PATCH /api/admin/members/{id}. Absent fields are untouched.
type memberPatch struct {
	Name                 *string   `json:"name"`
	Email                *string   `json:"email"`
	Status               *string   `json:"status"`
	ProgressNote         *string   `json:"progressNote"`
	Tags                 *[]string `json:"tags"`
	Phone                *string   `json:"phone"`
	PreferredContactTime *string   `json:"preferredContactTime"`
	LineID               *string   `json:"lineId"`
	LineUserID           *string   `json:"lineUserId"`
	LineDisplayName      *string   `json:"lineDisplayName"`
	LinePictureURL       *string   `json:"linePictureUrl"`
}

// handleUpdateMember handles PATCH /api/admin/members/{id}
func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var body memberPatch
	if !decodeJSON(w, r, &body) {
		return
	}
	m, err := orchestrators.ExecuteUpdateMember(r.Context(), orchestrators.UpdateMemberInput{
		MemberID:     r.PathValue("id"),
		Name:         body.Name,
		Email:        body.Email,
		Status:       body.Status,
		ProgressNote: body.ProgressNote,
		Tags:         body.Tags,
		Contact: member.ContactUpdate{
			Phone: body.Phone, PreferredContactTime: body.PreferredContactTime, LineID: body.LineID,
		},
		Line: member.LineProfile{
			UserID: body.LineUserID, DisplayName: body.LineDisplayName, PictureURL: body.LinePictureURL,
		},
	}, orchestrators.UpdateMemberDeps{MemberStore: s.Stores.Members, Now: s.Now})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleDeleteMember handles DELETE /api/admin/members/{id}
func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteMember(r.Context(), r.PathValue("id"), orchestrators.DeleteMemberDeps{
		MemberStore:      s.Stores.Members,
		TaskStore:        s.Stores.Tasks,
		SessionNoteStore: s.Stores.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Session notes ---

// handleListNotes handles GET /api/admin/members/{id}/notes
func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.Stores.Members.GetByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	notes, err := s.Stores.Notes.ListByMember(r.Context(), id)
	if err != nil {
		internalError(w, err)
		return
	}
	if notes == nil {
		notes = []sessionnote.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// handleAddNote handles POST /api/admin/members/{id}/notes
func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		NoteDate string `json:"noteDate"`
		Content  string `json:"content"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	n, err := orchestrators.ExecuteAddSessionNote(r.Context(), orchestrators.AddSessionNoteInput{
		MemberID: r.PathValue("id"), NoteDate: body.NoteDate, Content: body.Content,
	}, orchestrators.AddSessionNoteDeps{
		MemberStore:      s.Stores.Members,
		SessionNoteStore: s.Stores.Notes,
		GenerateID:       s.GenerateID,
		Now:              s.nowInTaipei,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// handleDeleteNote handles DELETE /api/admin/notes/{id}
func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteSessionNote(r.Context(), r.PathValue("id"), s.Stores.Notes); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// nowInTaipei dates notes and tasks on the coach's calendar.
func (s *Server) nowInTaipei() time.Time {
	return s.Now().In(taipei)
}

// --- Tasks ---

func (s *Server) taskDeps() orchestrators.TaskDeps {
	return orchestrators.TaskDeps{
		TaskStore:   s.Stores.Tasks,
		MemberStore: s.Stores.Members,
		GenerateID:  s.GenerateID,
		Now:         s.Now,
	}
}

// handleCreateTask handles POST /api/admin/members/{id}/tasks
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		DueDate     string `json:"dueDate"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	t, err := orchestrators.ExecuteCreateTask(r.Context(), orchestrators.CreateTaskInput{
		MemberID: r.PathValue("id"), Title: body.Title, Description: body.Description, DueDate: body.DueDate,
	}, s.taskDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// handleListTasks handles GET /api/admin/tasks?member=&status=&open=1
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := s.Stores.Tasks.List(r.Context(), taskStore.ListFilter{
		MemberID: q.Get("member"),
		Status:   listutil.ParseChoice(q, "status", task.Statuses, ""),
		OpenOnly: q.Get("open") == "1" || q.Get("open") == "true",
	})
	if err != nil {
		internalError(w, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks, "stats": projections.TaskStats(tasks)})
}

// handleUpdateTask handles PATCH /api/admin/tasks/{id}. Absent fields are untouched.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status      *string `json:"status"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		DueDate     *string `json:"dueDate"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	t, err := orchestrators.ExecuteUpdateTask(r.Context(), orchestrators.UpdateTaskInput{
		TaskID: r.PathValue("id"), Status: body.Status, Title: body.Title, Description: body.Description, DueDate: body.DueDate,
	}, s.taskDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleDeleteTask handles DELETE /api/admin/tasks/{id}
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteTask(r.Context(), r.PathValue("id"), s.Stores.Tasks); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
