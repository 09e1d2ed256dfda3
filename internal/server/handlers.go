package server

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/cangtype/internal/catalog"
	"github.com/verte-zerg/cangtype/internal/dictionary"
	"github.com/verte-zerg/cangtype/internal/drill"
	"github.com/verte-zerg/cangtype/internal/progress"
	"github.com/verte-zerg/cangtype/internal/stats"
)

const msgAttemptRequired = "lessonId, accuracy, and speed are required."

func (s *Server) listLessons(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"lessons": s.lessons})
}

func (s *Server) getProgress(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Active().Progress)
}

type attemptRequest struct {
	LessonID    string   `json:"lessonId"`
	Accuracy    *float64 `json:"accuracy"`
	Speed       *float64 `json:"speed"`
	Attempts    *float64 `json:"attempts"`
	CompletedAt string   `json:"completedAt"`
}

func (s *Server) postProgress(w http.ResponseWriter, r *http.Request) {
	var req attemptRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, msgAttemptRequired, nil)
		return
	}
	if strings.TrimSpace(req.LessonID) == "" || req.Accuracy == nil || req.Speed == nil {
		s.respondWithError(w, http.StatusBadRequest, msgAttemptRequired, nil)
		return
	}

	completedAt := s.now().UTC()
	if req.CompletedAt != "" {
		parsed, err := time.Parse(time.RFC3339Nano, req.CompletedAt)
		if err != nil {
			s.respondWithError(w, http.StatusBadRequest, "completedAt must be an ISO-8601 timestamp.", nil)
			return
		}
		completedAt = parsed
	}

	rec := progress.AttemptRecord{
		LessonID:    req.LessonID,
		Accuracy:    stats.Round(*req.Accuracy, 3),
		Speed:       stats.Round(*req.Speed, 2),
		CompletedAt: completedAt,
	}
	if req.Attempts != nil {
		n := int(math.Round(*req.Attempts))
		rec.Attempts = &n
	}

	p, _ := s.store.RecordAttempt(r.Context(), s.store.Active().ID, rec)
	writeJSON(w, http.StatusOK, p)
}

type profileView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Known  int    `json:"known"`
	Streak int    `json:"streak"`
}

type profilesResponse struct {
	Profiles        []profileView `json:"profiles"`
	ActiveProfileID string        `json:"activeProfileId"`
}

func (s *Server) profilesView() profilesResponse {
	col := s.store.Snapshot()
	out := profilesResponse{
		Profiles:        make([]profileView, 0, len(col.Profiles)),
		ActiveProfileID: col.ActiveProfileID,
	}
	for _, p := range col.Profiles {
		out.Profiles = append(out.Profiles, profileView{
			ID:     p.ID,
			Name:   p.Name,
			Active: p.ID == col.ActiveProfileID,
			Known:  len(p.Progress.KnownUnits),
			Streak: p.Progress.Summary.Streak,
		})
	}
	return out
}

func (s *Server) listProfiles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.profilesView())
}

func (s *Server) createProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body.", nil)
		return
	}
	p, err := s.drill.CreateProfile(r.Context(), req.Name)
	if errors.Is(err, progress.ErrInvalidName) {
		s.respondWithError(w, http.StatusBadRequest, "Profile name must not be empty.", nil)
		return
	}
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Internal server error", err)
		return
	}
	writeJSON(w, http.StatusCreated, profileView{ID: p.ID, Name: p.Name, Active: true})
}

func (s *Server) deleteProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.store.Snapshot().Find(id); !ok {
		s.respondWithError(w, http.StatusNotFound, "Profile not found.", nil)
		return
	}
	s.drill.DeleteProfile(r.Context(), id)
	writeJSON(w, http.StatusOK, s.profilesView())
}

func (s *Server) activateProfile(w http.ResponseWriter, r *http.Request) {
	st, ok := s.drill.ActivateProfile(r.Context(), r.PathValue("id"))
	if !ok {
		s.respondWithError(w, http.StatusNotFound, "Profile not found.", nil)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) getDrill(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.drill.State())
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body.", nil)
		return
	}
	writeJSON(w, http.StatusOK, s.drill.Submit(r.Context(), req.Input))
}

type revealResponse struct {
	Revealed   bool                `json:"revealed"`
	Entry      *dictionary.Entry   `json:"entry,omitempty"`
	Components []catalog.Component `json:"components,omitempty"`
	State      drill.State         `json:"state"`
}

func (s *Server) reveal(w http.ResponseWriter, r *http.Request) {
	revealed := s.drill.Reveal(r.Context())
	st := s.drill.State()
	resp := revealResponse{Revealed: revealed, State: st}
	if st.Kind == catalog.KindCharacter {
		resp.Components = catalog.Decompose(st.Code)
		if s.dict != nil {
			e := s.dict.Lookup(r.Context(), st.Prompt)
			resp.Entry = &e
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) jump(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LessonID string `json:"lessonId"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body.", nil)
		return
	}
	st, err := s.drill.JumpToLesson(r.Context(), req.LessonID)
	if errors.Is(err, catalog.ErrUnknownLesson) {
		s.respondWithError(w, http.StatusNotFound, "Lesson not found.", nil)
		return
	}
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Internal server error", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) resetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.drill.ResetSession())
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) {
	char := r.PathValue("char")
	if utf8.RuneCountInString(char) != 1 {
		s.respondWithError(w, http.StatusBadRequest, "A single character is required.", nil)
		return
	}
	if s.dict == nil {
		writeJSON(w, http.StatusOK, dictionary.Entry{Char: char})
		return
	}
	writeJSON(w, http.StatusOK, s.dict.Lookup(r.Context(), char))
}

func (s *Server) listComponents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"components": catalog.Components()})
}

func (s *Server) apiNotFound(w http.ResponseWriter, _ *http.Request) {
	s.respondWithError(w, http.StatusNotFound, "Not found", nil)
}
