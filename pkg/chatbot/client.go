package chatbot

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

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Client is the capability surface of the answer-generation backend.
// There is exactly one implementation against the real backend; tests use
// in-package fakes.
type Client interface {
	CreateUser(ctx context.Context, userID string, username string, chatID string) error
	GetUser(ctx context.Context, userID string) (*User, error)
	RemoveUser(ctx context.Context, userID string) (string, error)
	ClearHistory(ctx context.Context, userID string) (string, error)
	Generate(ctx context.Context, userID string, text string) (*Generation, error)
	RegisterCandidates(ctx context.Context, userID string, answerID string, messageIDs []string) error
	PersistChoice(ctx context.Context, userID string, answerID string, messageID string) (string, error)
	SetCustomAnswer(ctx context.Context, userID string, messageID string, customText string) error
}

// ErrUnavailable is returned by Generate when the backend times out or
// answers with a server error. Callers show the static fallback text and
// abort the turn.
var ErrUnavailable = errors.New("chatbot backend unavailable")

const defaultTimeout = 3 * time.Minute

// HTTPClient talks to the backend over its JSON HTTP API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

type Option func(*HTTPClient)

// WithTimeout bounds every backend call.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = h
	}
}

// NewHTTPClient initializes and returns a new backend client.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
}

// do issues one request and returns the raw response body. Any non-2xx
// status is an error; Generate handles its own status mapping and does
// not go through here.
func (c *HTTPClient) do(ctx context.Context, method string, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	return respBody, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, userID string, username string, chatID string) error {
	_, err := c.do(ctx, http.MethodPost, "/users", createUserRequest{
		Username: username,
		UserID:   userID,
		ChatID:   chatID,
	})
	return err
}

func (c *HTTPClient) GetUser(ctx context.Context, userID string) (*User, error) {
	body, err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, errors.Wrap(err, "decode user")
	}
	return &user, nil
}

func (c *HTTPClient) RemoveUser(ctx context.Context, userID string) (string, error) {
	body, err := c.do(ctx, http.MethodDelete, "/dialog/"+url.PathEscape(userID), nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *HTTPClient) ClearHistory(ctx context.Context, userID string) (string, error) {
	body, err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID)+"/context", nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Generate asks the backend for candidate answers to one user turn.
// Timeouts, transport failures and 5xx responses all collapse into
// ErrUnavailable; the backend holds no partial state for a failed
// generation, so the caller only needs to know "no candidates".
func (c *HTTPClient) Generate(ctx context.Context, userID string, text string) (*Generation, error) {
	buf, err := json.Marshal(generateRequest{Text: text})
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	path := fmt.Sprintf("/users/%s/context/generate", url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, errors.Wrapf(ErrUnavailable, "generate: status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("generate: unexpected status %d", resp.StatusCode)
	}

	var gen Generation
	if err := json.Unmarshal(respBody, &gen); err != nil {
		return nil, errors.Wrap(err, "decode generation")
	}
	return &gen, nil
}

func (c *HTTPClient) RegisterCandidates(ctx context.Context, userID string, answerID string, messageIDs []string) error {
	path := fmt.Sprintf("/users/%s/context/%s/possible_contexts_ids",
		url.PathEscape(userID), url.PathEscape(answerID))
	_, err := c.do(ctx, http.MethodPost, path, registerCandidatesRequest{
		PossibleContextsIDs: messageIDs,
	})
	return err
}

func (c *HTTPClient) PersistChoice(ctx context.Context, userID string, answerID string, messageID string) (string, error) {
	path := fmt.Sprintf("/users/%s/context/%s/user_choice",
		url.PathEscape(userID), url.PathEscape(answerID))
	body, err := c.do(ctx, http.MethodPost, path, persistChoiceRequest{MessageID: messageID})
	if err != nil {
		return "", err
	}
	var choice persistChoiceResponse
	if err := json.Unmarshal(body, &choice); err != nil {
		return "", errors.Wrap(err, "decode choice")
	}
	return choice.Text, nil
}

func (c *HTTPClient) SetCustomAnswer(ctx context.Context, userID string, messageID string, customText string) error {
	path := fmt.Sprintf("/users/%s/context/messages/custom_answer", url.PathEscape(userID))
	_, err := c.do(ctx, http.MethodPost, path, customAnswerRequest{
		MessageID:  messageID,
		CustomText: customText,
	})
	return err
}
