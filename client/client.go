// Package client is a typed Go client for the smartnotes REST API. Every
// remote failure comes back as an *APIError with a kind tag and the server's
// single human-readable message; callers never inspect anything deeper.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"smartnotes/model"
)

// ErrorKind classifies a remote failure.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindNotFound   ErrorKind = "not_found"
	KindAuth       ErrorKind = "auth"
	KindService    ErrorKind = "service"
	KindServer     ErrorKind = "server"
)

// APIError is the discriminated error result returned by every remote call.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// User is the public identity record returned by login and /auth/me.
type User struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// Client talks to one smartnotes server and holds the bearer token issued
// at login.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Token returns the currently held identity token.
func (c *Client) Token() string { return c.token }

// SetToken installs a previously issued token, e.g. one restored from
// storage.
func (c *Client) SetToken(token string) { c.token = token }

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "/api/v1/auth/register", body, nil)
}

// Login authenticates and keeps the issued token for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp.User, nil
}

// Logout invalidates the held token server-side and drops it locally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	c.token = ""
	return err
}

// Me fetches the current user's public record.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListNotes returns the caller's notes newest first, with optional title
// search and tag filter.
func (c *Client) ListNotes(ctx context.Context, search, tag string) ([]model.Note, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	if tag != "" {
		params.Set("tag", tag)
	}
	path := "/api/v1/notes"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var notes []model.Note
	if err := c.do(ctx, http.MethodGet, path, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote persists a new note.
func (c *Client) CreateNote(ctx context.Context, title, content, tag string) (*model.Note, error) {
	body := map[string]string{"title": title, "content": content, "tag": tag}
	var note model.Note
	if err := c.do(ctx, http.MethodPost, "/api/v1/notes", body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote applies a partial update; empty fields keep their prior values.
func (c *Client) UpdateNote(ctx context.Context, id uint64, title, content, tag string) (*model.Note, error) {
	body := map[string]string{"title": title, "content": content, "tag": tag}
	var note model.Note
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/notes/%d", id), body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/notes/%d", id), nil, nil)
}

// SummarizeNote asks the server to summarize the note and returns it with
// the summary populated.
func (c *Client) SummarizeNote(ctx context.Context, id uint64) (*model.Note, error) {
	var note model.Note
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/notes/%d/summarize", id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// ExtractNoteKeywords asks the server to extract keywords and returns the
// note with them populated.
func (c *Client) ExtractNoteKeywords(ctx context.Context, id uint64) (*model.Note, error) {
	var note model.Note
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/notes/%d/keywords", id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: KindServer, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiError(resp *http.Response) *APIError {
	var failure struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&failure)
	if failure.Error == "" {
		failure.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{
		Kind:    kindOf(resp.StatusCode, failure.Error),
		Status:  resp.StatusCode,
		Message: failure.Error,
	}
}

func kindOf(status int, message string) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadGateway:
		return KindService
	case status == http.StatusBadRequest:
		// Conflicts share the 400 channel with validation failures; the
		// server's wording is the only discriminator it exposes.
		if strings.Contains(message, "already") {
			return KindConflict
		}
		return KindValidation
	default:
		return KindServer
	}
}
