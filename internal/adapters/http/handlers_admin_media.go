package web

import (
	"errors"
	"io"
	"net/http"

	"coachsite/internal/application/orchestrators"
	"coachsite/internal/domain/media"
)

// multipartOverhead leaves room for form fields around the file part.
const multipartOverhead = 1 << 20

func (s *Server) mediaDeps() orchestrators.MediaDeps {
	return orchestrators.MediaDeps{
		MediaStore: s.Stores.Media,
		Objects:    s.Objects,
		GenerateID: s.GenerateID,
		Now:        s.Now,
	}
}

// handleListMedia handles GET /api/admin/media?usage=
func (s *Server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	items, err := s.Stores.Media.List(r.Context(), r.URL.Query().Get("usage"))
	if err != nil {
		internalError(w, err)
		return
	}
	if items == nil {
		items = []media.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// handleUploadMedia handles POST /api/admin/media as multipart with a "file" part.
func (s *Server) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	if s.Objects == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "media storage not configured")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(media.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		sniff := make([]byte, 512)
		n, _ := io.ReadFull(file, sniff)
		contentType = http.DetectContentType(sniff[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			internalError(w, err)
			return
		}
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	item, err := orchestrators.ExecuteUploadMedia(r.Context(), orchestrators.UploadMediaInput{
		Name:        name,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
		Alt:         r.FormValue("alt"),
		Usage:       r.FormValue("usage"),
	}, s.mediaDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// mediaPatch is the JSON body for PATCH /api/admin/media/{id}.
type mediaPatch struct {
	Name  *string `json:"name"`
	Alt   *string `json:"alt"`
	Usage *string `json:"usage"`
}

// handleUpdateMedia handles PATCH /api/admin/media/{id}
func (s *Server) handleUpdateMedia(w http.ResponseWriter, r *http.Request) {
	var req mediaPatch
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := orchestrators.ExecuteUpdateMedia(r.Context(), orchestrators.UpdateMediaInput{
		MediaID: r.PathValue("id"),
		Name:    req.Name,
		Alt:     req.Alt,
		Usage:   req.Usage,
	}, s.mediaDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleDeleteMedia handles DELETE /api/admin/media/{id}
func (s *Server) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	if s.Objects == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "media storage not configured")
		return
	}
	if err := orchestrators.ExecuteDeleteMedia(r.Context(), r.PathValue("id"), s.mediaDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
