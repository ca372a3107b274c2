package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/pagekeep"
	"github.com/go-resty/resty/v2"
)

// DefaultClientTimeout bounds a single request to the record service.
const DefaultClientTimeout = 15 * time.Second

// Ensure Client implements pagekeep.SyncClient at compile time.
var _ pagekeep.SyncClient = (*Client)(nil)

// envelope decodes either shape of a record service response.
type envelope[T any] struct {
	Data  T      `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Client talks to a record service over its JSON API.
// There is no retry; a failed call returns EUNAVAILABLE.
type Client struct {
	client *resty.Client
}

// NewClient returns a Client for the service rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(DefaultClientTimeout).
			SetHeader("Accept", "application/json"),
	}
}

// Exists returns the stored record for sourceURL, or nil if there is none.
func (c *Client) Exists(ctx context.Context, sourceURL string) (*pagekeep.StoredRecord, error) {
	var result envelope[*pagekeep.StoredRecord]
	var failure envelope[any]

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("url", sourceURL).
		SetResult(&result).
		SetError(&failure).
		Get("/api/records/{url}")
	if err != nil {
		return nil, pagekeep.Errorf(pagekeep.EUNAVAILABLE, "record service unreachable: %v", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if !resp.IsSuccess() {
		return nil, statusError(resp, failure.Error)
	}
	return result.Data, nil
}

// Save posts the record and returns the stored copy.
func (c *Client) Save(ctx context.Context, record *pagekeep.ExtractedRecord) (*pagekeep.StoredRecord, error) {
	var result envelope[*pagekeep.StoredRecord]
	var failure envelope[any]

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(record).
		SetResult(&result).
		SetError(&failure).
		Post("/api/records")
	if err != nil {
		return nil, pagekeep.Errorf(pagekeep.EUNAVAILABLE, "record service unreachable: %v", err)
	}
	if !resp.IsSuccess() {
		return nil, statusError(resp, failure.Error)
	}
	if result.Data == nil {
		return nil, pagekeep.Errorf(pagekeep.EUNAVAILABLE, "record service returned no record")
	}
	return result.Data, nil
}

// List returns every stored record, newest first.
func (c *Client) List(ctx context.Context) ([]*pagekeep.StoredRecord, error) {
	var result envelope[[]*pagekeep.StoredRecord]
	var failure envelope[any]

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&failure).
		Get("/api/records")
	if err != nil {
		return nil, pagekeep.Errorf(pagekeep.EUNAVAILABLE, "record service unreachable: %v", err)
	}
	if !resp.IsSuccess() {
		return nil, statusError(resp, failure.Error)
	}
	if result.Data == nil {
		return []*pagekeep.StoredRecord{}, nil
	}
	return result.Data, nil
}

// statusError converts an unsuccessful response into an application error.
func statusError(resp *resty.Response, message string) error {
	if message == "" {
		message = resp.Status()
	}
	if resp.StatusCode() == http.StatusBadRequest {
		return pagekeep.Errorf(pagekeep.EINVALID, "%s", message)
	}
	return pagekeep.Errorf(pagekeep.EUNAVAILABLE, "record service returned %d: %s", resp.StatusCode(), message)
}
