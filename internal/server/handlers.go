package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tugas/internal/controller"
	"tugas/internal/export"
	"tugas/internal/service"
)

type errorBody struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

type healthBody struct {
	Status string `json:"status"`
	Tasks  int    `json:"tasks"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps controller and store errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	var serr *service.StoreError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, controller.ErrTaskNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.As(err, &serr):
		status := http.StatusBadGateway
		switch serr.Kind {
		case service.KindNotFound:
			status = http.StatusNotFound
		case service.KindAuth:
			status = http.StatusUnauthorized
		}
		s.log.WithError(err).Warn("store call failed")
		writeJSON(w, status, errorBody{Error: err.Error()})
	default:
		s.log.WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// decodeInput reads a {text, deadline} body. Presence is checked by the
// controller, whose ValidationError writeError turns into a 400.
func decodeInput(w http.ResponseWriter, r *http.Request) (controller.Input, bool) {
	var in controller.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request payload"})
		return in, false
	}
	return in, true
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Tasks: s.ctl.Len()})
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, items(s.ctl.Items()))
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	task, err := s.ctl.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.itemFor(task))
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	task, err := s.ctl.Modify(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.itemFor(task))
}

func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.ctl.Toggle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.itemFor(task))
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.ctl.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	if err := s.Load(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items(s.ctl.Items()))
}

func (s *Server) exportTasks(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatJSON
	}
	data, err := export.Export(s.ctl.Items(), format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// itemFor returns the display item for task, falling back to the task
// alone when it has since left the list.
func (s *Server) itemFor(task service.Task) controller.Item {
	if it, ok := s.ctl.Item(task.ID); ok {
		return it
	}
	return controller.Item{Task: task}
}

// items keeps an empty list encoded as [] rather than null.
func items(list []controller.Item) []controller.Item {
	if list == nil {
		return []controller.Item{}
	}
	return list
}
