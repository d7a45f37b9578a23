// Package upstream wraps the remote appointment API. The dashboard holds no
// appointment state of its own; every mutation is a round trip through here.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agendahub/dashboard/internal/agenda"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrUnauthorized signals an expired or rejected bearer token; callers must
// force a sign-out instead of retrying.
var ErrUnauthorized = errors.New("agenda api: unauthorized")

// APIError carries the server-reported business error ({"msg": ...}).
type APIError struct {
	StatusCode int
	Msg        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("agenda api: %s (status %d)", e.Msg, e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type listResponse struct {
	Agendamentos []agenda.Appointment `json:"agendamentos"`
}

// CreateRequest is the body of POST /agendar. Email is the only optional
// field; the handler validates the rest before calling.
type CreateRequest struct {
	Nome     string `json:"nome"`
	Email    string `json:"email,omitempty"`
	Telefone string `json:"telefone"`
	Data     string `json:"data"`
	Horario  string `json:"horario"`
}

func (c *Client) List(ctx context.Context, bearer string) ([]agenda.Appointment, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/agendamentos", bearer, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("agenda api: decoding list: %w", err)
	}
	return body.Agendamentos, nil
}

func (c *Client) Create(ctx context.Context, bearer string, r CreateRequest) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/agendar", bearer, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) Confirm(ctx context.Context, bearer, email, id string) error {
	return c.transition(ctx, bearer, email, "confirmar", id)
}

func (c *Client) Cancel(ctx context.Context, bearer, email, id string) error {
	return c.transition(ctx, bearer, email, "cancelar", id)
}

func (c *Client) transition(ctx context.Context, bearer, email, action, id string) error {
	path := "/agendamentos/" + url.PathEscape(email) + "/" + action + "/" + url.PathEscape(id)
	req, err := c.newRequest(ctx, http.MethodPost, path, bearer, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) newRequest(ctx context.Context, method, path, bearer string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	return req, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	msg := ""
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(raw) > 0 {
		var body struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(raw, &body) == nil {
			msg = strings.TrimSpace(body.Msg)
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Msg: msg}
}
