// Package testutil starts in-memory-backed university services behind
// httptest servers for use in package tests.
package testutil

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/coordinator"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/gateway"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/groups"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/students"
)

// NewLogger returns a logger that discards output, keeping test logs quiet.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// StartStudentService runs a student store on an in-memory backend. The
// returned store allows direct fixture setup and inspection.
func StartStudentService(t *testing.T) (*httptest.Server, *students.MemoryStore) {
	t.Helper()

	store := students.NewMemoryStore()
	r := chi.NewRouter()
	students.NewHandler(store, NewLogger()).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

// StartGroupService runs a group store on an in-memory backend.
func StartGroupService(t *testing.T) (*httptest.Server, *groups.MemoryStore) {
	t.Helper()

	store := groups.NewMemoryStore()
	r := chi.NewRouter()
	groups.NewHandler(store, NewLogger()).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

// StartUniversity runs a gateway wired to the given peer URLs.
func StartUniversity(t *testing.T, studentURL, groupURL string) *httptest.Server {
	t.Helper()

	log := NewLogger()
	studentClient := students.NewClient(studentURL)
	groupClient := groups.NewClient(groupURL)
	coord := coordinator.New(studentClient, groupClient, log)
	gw := gateway.New(studentClient, groupClient, coord, log)

	r := chi.NewRouter()
	gateway.NewHandler(gw).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// StartDeployment runs all three services and returns the university URL
// along with the two store URLs.
func StartDeployment(t *testing.T) (universityURL, studentURL, groupURL string) {
	t.Helper()

	studentSrv, _ := StartStudentService(t)
	groupSrv, _ := StartGroupService(t)
	universitySrv := StartUniversity(t, studentSrv.URL, groupSrv.URL)
	return universitySrv.URL, studentSrv.URL, groupSrv.URL
}
