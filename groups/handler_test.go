package groups

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

func TestCreateGroup(t *testing.T) {
	router, _ := setupTestHandler(t)

	w := doRequest(t, router, "POST", "/groups/", &model.GroupInput{Name: "CS-101"})
	require.Equal(t, http.StatusCreated, w.Code)

	var g model.Group
	require.NoError(t, json.NewDecoder(w.Body).Decode(&g))
	require.Equal(t, int64(1), g.ID)
	require.Equal(t, "CS-101", g.Name)
	require.Empty(t, g.StudentIDs)
}

func TestCreateGroup_EmptyNameRejected(t *testing.T) {
	router, _ := setupTestHandler(t)

	w := doRequest(t, router, "POST", "/groups/", &model.GroupInput{Name: ""})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestMemberRoutes(t *testing.T) {
	router, store := setupTestHandler(t)

	g, err := store.Create(context.Background(), &model.GroupInput{Name: "CS-101"})
	require.NoError(t, err)

	w := doRequest(t, router, "PUT", "/groups/1/students/7", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var updated model.Group
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	require.Equal(t, []int64{7}, updated.StudentIDs)

	w = doRequest(t, router, "DELETE", "/groups/1/students/7", nil)
	require.Equal(t, http.StatusOK, w.Code)

	fresh, err := store.Get(context.Background(), g.ID)
	require.NoError(t, err)
	require.Empty(t, fresh.StudentIDs)
}

func TestMemberRoutes_MissingGroup(t *testing.T) {
	router, _ := setupTestHandler(t)

	w := doRequest(t, router, "PUT", "/groups/5/students/7", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "group 5 not found")
}

func TestClient_AgainstHandler(t *testing.T) {
	router, _ := setupTestHandler(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := context.Background()

	g, err := client.Create(ctx, &model.GroupInput{Name: "CS-101"})
	require.NoError(t, err)
	require.Equal(t, int64(1), g.ID)

	g, err = client.AddMember(ctx, g.ID, 3)
	require.NoError(t, err)
	require.Equal(t, []int64{3}, g.StudentIDs)

	g, err = client.RemoveMember(ctx, g.ID, 3)
	require.NoError(t, err)
	require.Empty(t, g.StudentIDs)

	_, err = client.Get(ctx, 99)
	require.True(t, model.IsNotFound(err))

	// Lazy creation path: explicit id, repeated.
	g, err = client.Create(ctx, &model.GroupInput{ID: 10, Name: "Group 10", StudentIDs: []int64{4}})
	require.NoError(t, err)
	require.Equal(t, int64(10), g.ID)

	g, err = client.Create(ctx, &model.GroupInput{ID: 10, Name: "Group 10"})
	require.NoError(t, err)
	require.Equal(t, []int64{4}, g.StudentIDs)

	require.NoError(t, client.Delete(ctx, 10))
	all, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
