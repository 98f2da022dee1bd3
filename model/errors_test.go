package model

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	require.Equal(t, KindNotFound, KindOf(NotFoundf("student %d not found", 7)))
	require.Equal(t, KindValidation, KindOf(Validationf("empty name")))
	require.Equal(t, KindUpstream, KindOf(Upstream(errors.New("refused"), "store unreachable")))
	require.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	require.True(t, IsNotFound(NotFoundf("gone")))
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := Upstream(cause, "group store unreachable")
	require.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("adding student: %w", NotFoundf("group 3 not found"))
	require.True(t, IsNotFound(wrapped))
}

func TestPartialConsistencyError(t *testing.T) {
	cause := errors.New("timeout")
	err := PartialConsistency("add-student-to-group", "student-binding", cause)

	require.Equal(t, KindPartialConsistency, KindOf(err))
	require.Contains(t, err.Error(), "add-student-to-group")
	require.Contains(t, err.Error(), "student-binding")
	require.ErrorIs(t, err, cause)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFoundf("gone"), http.StatusNotFound},
		{Validationf("bad"), http.StatusUnprocessableEntity},
		{Upstream(errors.New("x"), "down"), http.StatusBadGateway},
		{PartialConsistency("op", "step", errors.New("x")), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, HTTPStatus(tt.err))
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, errors.New("sql: connection refused at 10.0.0.3"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body, _ := io.ReadAll(w.Body)
	require.Equal(t, "internal error", strings.TrimSpace(string(body)))
}

func TestErrorFromResponse(t *testing.T) {
	resp := func(status int, body string) *http.Response {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
		}
	}

	require.Equal(t, KindNotFound, KindOf(ErrorFromResponse(resp(404, "student 9 not found"))))
	require.Equal(t, KindValidation, KindOf(ErrorFromResponse(resp(422, "student name must not be empty"))))
	require.Equal(t, KindUpstream, KindOf(ErrorFromResponse(resp(500, "boom"))))

	err := ErrorFromResponse(resp(404, "student 9 not found"))
	require.Contains(t, err.Error(), "student 9 not found")
}

func TestStudentInputValidate(t *testing.T) {
	bad := int64(-1)
	good := int64(3)

	require.Error(t, (&StudentInput{Name: ""}).Validate())
	require.Error(t, (&StudentInput{Name: "   "}).Validate())
	require.Error(t, (&StudentInput{Name: "Ann", GroupID: &bad}).Validate())
	require.NoError(t, (&StudentInput{Name: "Ann"}).Validate())
	require.NoError(t, (&StudentInput{Name: "Ann", GroupID: &good}).Validate())
}

func TestGroupInputValidate(t *testing.T) {
	require.Error(t, (&GroupInput{Name: ""}).Validate())
	require.Error(t, (&GroupInput{Name: "CS-101", ID: -2}).Validate())
	require.NoError(t, (&GroupInput{Name: "CS-101"}).Validate())
	require.NoError(t, (&GroupInput{Name: "CS-101", ID: 7}).Validate())
}
