package students

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/model"
)

// Handler exposes the student store over HTTP.
type Handler struct {
	store Store
	log   *slog.Logger
}

// NewHandler creates a handler serving the given store.
func NewHandler(store Store, log *slog.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// RegisterRoutes registers the student store routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/students", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)

		r.Put("/{id}/group/{group_id}", h.assignGroup)
		r.Delete("/{id}/group", h.clearGroup)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in model.StudentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := in.Validate(); err != nil {
		model.WriteError(w, err)
		return
	}

	st, err := h.store.Create(r.Context(), &in)
	if err != nil {
		h.log.Error("create student failed", "err", err)
		model.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.List(r.Context())
	if err != nil {
		h.log.Error("list students failed", "err", err)
		model.WriteError(w, err)
		return
	}
	if all == nil {
		all = []*model.Student{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	st, err := h.store.Get(r.Context(), id)
	if err != nil {
		model.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in model.StudentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := in.Validate(); err != nil {
		model.WriteError(w, err)
		return
	}

	st, err := h.store.Update(r.Context(), id, &in)
	if err != nil {
		model.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		model.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) assignGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "group_id")
	if !ok {
		return
	}

	st, err := h.store.AssignGroup(r.Context(), id, groupID)
	if err != nil {
		model.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) clearGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	st, err := h.store.ClearGroup(r.Context(), id)
	if err != nil {
		model.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
