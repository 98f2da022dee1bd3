package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/model"
)

// Handler exposes the gateway over HTTP.
type Handler struct {
	gw *Gateway
}

// NewHandler creates a handler serving the given gateway.
func NewHandler(gw *Gateway) *Handler {
	return &Handler{gw: gw}
}

// RegisterRoutes registers the university routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/students", h.createStudent)
	r.Get("/students", h.listStudents)
	r.Get("/students/{id}", h.getStudent)
	r.Put("/students/{id}", h.updateStudent)
	r.Delete("/students/{id}", h.deleteStudent)

	r.Post("/groups", h.createGroup)
	r.Get("/groups", h.listGroups)
	r.Get("/groups/{id}", h.getGroupWithStudents)
	r.Put("/groups/{id}", h.updateGroup)
	r.Delete("/groups/{id}", h.deleteGroup)

	r.Put("/students/{id}/group/{group_id}", h.addStudentToGroup)
	r.Delete("/students/{id}/group", h.removeStudentFromGroup)
	r.Put("/students/{id}/transfer/{group_id}", h.transferStudent)
}

func (h *Handler) createStudent(w http.ResponseWriter, r *http.Request) {
	var in model.StudentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	st, err := h.gw.CreateStudent(r.Context(), &in)
	if err != nil {
		model.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (h *Handler) listStudents(w http.ResponseWriter, r *http.Request) {
	all, err := h.gw.ListStudents(r.Context())
	if err != nil {
		model.WriteError(w, err)
		return
	}
	if all == nil {
		all = []*model.Student{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *Handler) getStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	st, err := h.gw.GetStudent(r.Context(), id)
	if err != nil {
		model.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) updateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in model.StudentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	st, err := h.gw.UpdateStudent(r.Context(), id, &in)
	if err != nil {
		model.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) deleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.gw.DeleteStudent(r.Context(), id); err != nil {
		model.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var in model.GroupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	g, err := h.gw.CreateGroup(r.Context(), &in)
	if err != nil {
		model.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	all, err := h.gw.ListGroups(r.Context())
	if err != nil {
		model.WriteError(w, err)
		return
	}
	if all == nil {
		all = []*model.Group{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *Handler) getGroupWithStudents(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	g, err := h.gw.GetGroupWithStudents(r.Context(), id)
	if err != nil {
		model.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *Handler) updateGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in model.GroupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	g, err := h.gw.UpdateGroup(r.Context(), id, &in)
	if err != nil {
		model.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.gw.DeleteGroup(r.Context(), id); err != nil {
		model.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addStudentToGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "group_id")
	if !ok {
		return
	}
	st, err := h.gw.AddStudentToGroup(r.Context(), id, groupID)
	if err != nil {
		model.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) removeStudentFromGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	st, err := h.gw.RemoveStudentFromGroup(r.Context(), id)
	if err != nil {
		model.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) transferStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "group_id")
	if !ok {
		return
	}
	st, err := h.gw.TransferStudent(r.Context(), id, groupID)
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
