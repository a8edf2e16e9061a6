// Package api is a client for the portfolio REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/folio/internal/domain"
)

// ErrUnavailable wraps transport failures: the backend could not be reached or
// the connection broke before a response arrived.
var ErrUnavailable = errors.New("backend unavailable")

// ErrMalformedResponse is returned when a 2xx body cannot be decoded or lacks
// required fields.
var ErrMalformedResponse = errors.New("malformed backend response")

// APIError is a non-2xx response from the backend. Message is the server's
// "message" field when it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 if err is not an APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns a client for the backend rooted at baseURL
// (e.g. "http://localhost:5678"). A zero timeout means no timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) ListWorks(ctx context.Context) ([]domain.Work, error) {
	var works []domain.Work
	if err := c.getJSON(ctx, "/api/works", &works); err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}
	for _, w := range works {
		if err := validateWork(w); err != nil {
			return nil, fmt.Errorf("list works: %w", err)
		}
	}
	return works, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := c.getJSON(ctx, "/api/categories", &cats); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	for _, cat := range cats {
		if cat.ID == domain.NoCategory {
			return nil, fmt.Errorf("list categories: %w: category %+v", ErrMalformedResponse, cat)
		}
	}
	return cats, nil
}

// CreateWork uploads a new work as multipart/form-data. The category is sent
// as its decimal id.
func (c *Client) CreateWork(ctx context.Context, token string, nw domain.NewWork) (domain.Work, error) {
	body, contentType, err := encodeNewWork(nw)
	if err != nil {
		return domain.Work{}, fmt.Errorf("create work: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/works", body, token)
	if err != nil {
		return domain.Work{}, fmt.Errorf("create work: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var created domain.Work
	if err := c.do(req, &created); err != nil {
		return domain.Work{}, fmt.Errorf("create work: %w", err)
	}
	if err := validateWork(created); err != nil {
		return domain.Work{}, fmt.Errorf("create work: %w", err)
	}
	return created, nil
}

func (c *Client) DeleteWork(ctx context.Context, token string, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/works/"+strconv.FormatInt(id, 10), nil, token)
	if err != nil {
		return fmt.Errorf("delete work %d: %w", id, err)
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("delete work %d: %w", id, err)
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token. A rejected login returns an
// *APIError whose Message is the server's text, suitable for display as-is.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("login: marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/users/login", bytes.NewReader(payload), "")
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp loginResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login: %w: missing token", ErrMalformedResponse)
	}
	return resp.Token, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do sends req and decodes a 2xx JSON body into out; out may be nil when the
// body is not needed.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close backend response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: readMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// readMessage extracts {"message": "..."} from an error body. Anything else
// yields "".
func readMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Message
}

func validateWork(w domain.Work) error {
	if w.ID == 0 || w.Title == "" || w.ImageURL == "" {
		return fmt.Errorf("%w: work %+v", ErrMalformedResponse, w)
	}
	return nil
}

func encodeNewWork(nw domain.NewWork) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("title", nw.Title); err != nil {
		return nil, "", fmt.Errorf("write title field: %w", err)
	}
	if err := mw.WriteField("category", strconv.FormatInt(nw.CategoryID, 10)); err != nil {
		return nil, "", fmt.Errorf("write category field: %w", err)
	}

	filename := nw.Filename
	if filename == "" {
		filename = "image"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	mimeType := nw.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(nw.Image); err != nil {
		return nil, "", fmt.Errorf("write image part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
