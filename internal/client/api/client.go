// Package api is the typed client of the blog REST API. It builds requests,
// attaches the bearer token, decodes responses and turns every failure into
// one of the errors declared in errors.go.
package api

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
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/blogmanager/internal/session"
)

// DefaultBaseURL is where the API lives when nothing else is configured.
const DefaultBaseURL = "http://localhost:8000/api"

// maxMessage caps the length of a server message surfaced to callers.
const maxMessage = 200

type authMode int

const (
	authNone authMode = iota
	authOptional
	authRequired
)

// operation names a call and carries its generic failure message.
type operation struct {
	name    string
	failure string
}

// Client calls the blog API. It holds no state besides its configuration and
// is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	now     func() time.Time
}

// New returns a Client for baseURL. A nil hc uses http.DefaultClient, a nil
// log discards logs.
func New(baseURL string, hc *http.Client, log *zap.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		log:     log,
		now:     time.Now,
	}
}

type call struct {
	op     operation
	method string
	path   string
	query  url.Values
	body   any
	auth   authMode
}

// send performs c and returns the body of a 2xx response.
func (c *Client) send(ctx context.Context, s *session.Session, cl call) ([]byte, error) {
	usable := s.Usable(c.now())
	if cl.auth == authRequired && !usable {
		return nil, fmt.Errorf("%s: %w", cl.op.name, ErrUnauthenticated)
	}

	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var reader io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, &RequestFailedError{Op: cl.op.name, Message: cl.op.failure, Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, reader)
	if err != nil {
		return nil, &RequestFailedError{Op: cl.op.name, Message: cl.op.failure, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.auth != authNone && usable {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api request failed",
			zap.String("op", cl.op.name),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, &RequestFailedError{Op: cl.op.name, Message: cl.op.failure, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.log.Debug("api request",
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", c.now().Sub(start)))
	if err != nil {
		return nil, &RequestFailedError{Op: cl.op.name, Status: resp.StatusCode, Message: cl.op.failure, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverMessage(resp.Header.Get("Content-Type"), body)
		if msg == "" {
			msg = cl.op.failure
		}
		c.log.Warn("api request rejected",
			zap.String("op", cl.op.name),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return nil, &RequestFailedError{Op: cl.op.name, Status: resp.StatusCode, Message: msg}
	}
	return body, nil
}

// serverMessage extracts a message from an error body: the "message" or
// "error" field of a JSON object, or a short plain-text body.
func serverMessage(contentType string, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		return clip(firstNonEmpty(payload.Message, payload.Error))
	}
	if strings.HasPrefix(contentType, "text/plain") {
		return clip(strings.TrimSpace(string(body)))
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// clip cuts s to at most maxMessage bytes without splitting a rune.
func clip(s string) string {
	if len(s) <= maxMessage {
		return s
	}
	n := maxMessage
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func invalid(op operation, what string) error {
	return &RequestFailedError{
		Op:      op.name,
		Message: op.failure + ": " + what,
		Err:     fmt.Errorf("%w: %s", ErrInvalidInput, what),
	}
}

func itemPath(collection string, id int64) string {
	return fmt.Sprintf("/%s/%d", collection, id)
}
