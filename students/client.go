package students

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/model"
)

// Client calls a remote student store over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the student store at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Create(ctx context.Context, in *model.StudentInput) (*model.Student, error) {
	var st model.Student
	if err := c.do(ctx, http.MethodPost, "/students/", in, http.StatusCreated, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*model.Student, error) {
	var st model.Student
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/students/%d", id), nil, http.StatusOK, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) List(ctx context.Context) ([]*model.Student, error) {
	var all []*model.Student
	if err := c.do(ctx, http.MethodGet, "/students/", nil, http.StatusOK, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (c *Client) Update(ctx context.Context, id int64, in *model.StudentInput) (*model.Student, error) {
	var st model.Student
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/students/%d", id), in, http.StatusOK, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/students/%d", id), nil, http.StatusNoContent, nil)
}

func (c *Client) AssignGroup(ctx context.Context, id, groupID int64) (*model.Student, error) {
	var st model.Student
	path := fmt.Sprintf("/students/%d/group/%d", id, groupID)
	if err := c.do(ctx, http.MethodPut, path, nil, http.StatusOK, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) ClearGroup(ctx context.Context, id int64) (*model.Student, error) {
	var st model.Student
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/students/%d/group", id), nil, http.StatusOK, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, wantStatus int, out any) error {
	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Upstream(err, "student store unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return model.ErrorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return model.Upstream(err, "decoding student store response")
	}
	return nil
}
