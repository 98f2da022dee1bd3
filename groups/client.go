package groups

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

// Client calls a remote group store over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the group store at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Create(ctx context.Context, in *model.GroupInput) (*model.Group, error) {
	var g model.Group
	if err := c.do(ctx, http.MethodPost, "/groups/", in, http.StatusCreated, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*model.Group, error) {
	var g model.Group
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/groups/%d", id), nil, http.StatusOK, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) List(ctx context.Context) ([]*model.Group, error) {
	var all []*model.Group
	if err := c.do(ctx, http.MethodGet, "/groups/", nil, http.StatusOK, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (c *Client) Update(ctx context.Context, id int64, in *model.GroupInput) (*model.Group, error) {
	var g model.Group
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/groups/%d", id), in, http.StatusOK, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d", id), nil, http.StatusNoContent, nil)
}

func (c *Client) AddMember(ctx context.Context, id, studentID int64) (*model.Group, error) {
	var g model.Group
	path := fmt.Sprintf("/groups/%d/students/%d", id, studentID)
	if err := c.do(ctx, http.MethodPut, path, nil, http.StatusOK, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) RemoveMember(ctx context.Context, id, studentID int64) (*model.Group, error) {
	var g model.Group
	path := fmt.Sprintf("/groups/%d/students/%d", id, studentID)
	if err := c.do(ctx, http.MethodDelete, path, nil, http.StatusOK, &g); err != nil {
		return nil, err
	}
	return &g, nil
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
		return model.Upstream(err, "group store unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return model.ErrorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return model.Upstream(err, "decoding group store response")
	}
	return nil
}
