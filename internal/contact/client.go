package contact

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to a contact Server. It is itself a Submitter, so a Form
// can be submitted across the network.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

func (c *Client) Submit(ctx context.Context, d FormData) error {
	var ok, failed submitResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(d).
		SetResult(&ok).
		SetError(&failed).
		Post("/api/contact")
	if err != nil {
		return fmt.Errorf("post inquiry: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusUnprocessableEntity:
		return &ValidationError{Errors: failed.Errors}
	case resp.IsError():
		return fmt.Errorf("post inquiry: %s: %s", resp.Status(), failed.Error)
	}
	return nil
}

func (c *Client) Options(ctx context.Context) (*Options, error) {
	var opts Options
	resp, err := c.http.R().SetContext(ctx).SetResult(&opts).Get("/api/contact/options")
	if err != nil {
		return nil, fmt.Errorf("get options: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get options: %s", resp.Status())
	}
	return &opts, nil
}

func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health: %s", resp.Status())
	}
	return nil
}
