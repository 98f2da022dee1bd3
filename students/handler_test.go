package students

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/model"
)

func setupTestHandler(t *testing.T) (chi.Router, *MemoryStore) {
	t.Helper()

	store := NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	NewHandler(store, log).RegisterRoutes(r)
	return r, store
}

func doRequest(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateStudent(t *testing.T) {
	router, _ := setupTestHandler(t)

	w := doRequest(t, router, "POST", "/students/", &model.StudentInput{Name: "Ann"})
	require.Equal(t, http.StatusCreated, w.Code)

	var st model.Student
	require.NoError(t, json.NewDecoder(w.Body).Decode(&st))
	require.Equal(t, int64(1), st.ID)
	require.Equal(t, "Ann", st.Name)
	require.Nil(t, st.GroupID)
}

func TestCreateStudent_EmptyNameRejected(t *testing.T) {
	router, store := setupTestHandler(t)

	w := doRequest(t, router, "POST", "/students/", &model.StudentInput{Name: "  "})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Rejected before any store call.
	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestGetStudent_NotFound(t *testing.T) {
	router, _ := setupTestHandler(t)

	w := doRequest(t, router, "GET", "/students/42", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "student 42 not found")
}

func TestUpdateStudent(t *testing.T) {
	router, store := setupTestHandler(t)

	st, err := store.Create(context.Background(), &model.StudentInput{Name: "Ann"})
	require.NoError(t, err)

	w := doRequest(t, router, "PUT", "/students/1", &model.StudentInput{Name: "Anna"})
	require.Equal(t, http.StatusOK, w.Code)

	updated, err := store.Get(context.Background(), st.ID)
	require.NoError(t, err)
	require.Equal(t, "Anna", updated.Name)
}

func TestDeleteStudent(t *testing.T) {
	router, store := setupTestHandler(t)

	_, err := store.Create(context.Background(), &model.StudentInput{Name: "Ann"})
	require.NoError(t, err)

	w := doRequest(t, router, "DELETE", "/students/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, router, "DELETE", "/students/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignAndClearGroup(t *testing.T) {
	router, store := setupTestHandler(t)

	_, err := store.Create(context.Background(), &model.StudentInput{Name: "Ann"})
	require.NoError(t, err)

	w := doRequest(t, router, "PUT", "/students/1/group/3", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var st model.Student
	require.NoError(t, json.NewDecoder(w.Body).Decode(&st))
	require.NotNil(t, st.GroupID)
	require.Equal(t, int64(3), *st.GroupID)

	w = doRequest(t, router, "DELETE", "/students/1/group", nil)
	require.Equal(t, http.StatusOK, w.Code)

	cleared, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Nil(t, cleared.GroupID)
}

func TestClearGroup_NoGroupIsNoOp(t *testing.T) {
	router, store := setupTestHandler(t)

	_, err := store.Create(context.Background(), &model.StudentInput{Name: "Ann"})
	require.NoError(t, err)

	// Clearing an unassigned student succeeds rather than erroring.
	w := doRequest(t, router, "DELETE", "/students/1/group", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestListStudents(t *testing.T) {
	router, store := setupTestHandler(t)

	w := doRequest(t, router, "GET", "/students/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())

	_, err := store.Create(context.Background(), &model.StudentInput{Name: "Ann"})
	require.NoError(t, err)
	_, err = store.Create(context.Background(), &model.StudentInput{Name: "Bob"})
	require.NoError(t, err)

	w = doRequest(t, router, "GET", "/students/", nil)
	var all []*model.Student
	require.NoError(t, json.NewDecoder(w.Body).Decode(&all))
	require.Len(t, all, 2)
	require.Equal(t, "Ann", all[0].Name)
	require.Equal(t, "Bob", all[1].Name)
}

func TestInvalidID(t *testing.T) {
	router, _ := setupTestHandler(t)

	w := doRequest(t, router, "GET", "/students/abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClient_AgainstHandler(t *testing.T) {
	router, _ := setupTestHandler(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := context.Background()

	st, err := client.Create(ctx, &model.StudentInput{Name: "Ann"})
	require.NoError(t, err)
	require.Equal(t, int64(1), st.ID)

	st, err = client.AssignGroup(ctx, st.ID, 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), *st.GroupID)

	st, err = client.ClearGroup(ctx, st.ID)
	require.NoError(t, err)
	require.Nil(t, st.GroupID)

	_, err = client.Get(ctx, 99)
	require.True(t, model.IsNotFound(err))

	require.NoError(t, client.Delete(ctx, st.ID))
	all, err := client.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestClient_UnreachablePeer(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	_, err := client.Get(context.Background(), 1)
	require.Equal(t, model.KindUpstream, model.KindOf(err))
}
