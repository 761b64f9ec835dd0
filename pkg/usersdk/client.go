package usersdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is used when no base URL is given.
const DefaultBaseURL = "http://backend:8000"

// Client talks to the user directory service.
type Client struct {
	BaseURL string

	http *resty.Client
}

// Option customises a Client.
type Option func(*resty.Client)

// WithTimeout sets the per-request timeout (default 10s).
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithRetries retries idempotent requests on transport errors and 5xx.
func WithRetries(n int) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(n).
			SetRetryWaitTime(100 * time.Millisecond).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
					return false
				}
				return err != nil || r.StatusCode() >= http.StatusInternalServerError
			})
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *resty.Client) { c.SetHeader(key, value) }
}

// NewClient returns a client for baseURL, e.g. "http://backend:8000".
// Trailing slashes are ignored.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(rc)
	}

	return &Client{BaseURL: baseURL, http: rc}
}

// CreateUser registers a new user. A duplicate email yields an APIError for
// which IsConflict is true; invalid input yields one for which IsValidation
// is true.
func (c *Client) CreateUser(ctx context.Context, req UserCreateRequest) (UserPublic, error) {
	var out UserPublic
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post("/users/")
	if err := check(resp, err, http.StatusOK); err != nil {
		return UserPublic{}, err
	}
	return out, nil
}

// ListUsers fetches one page of users.
func (c *Client) ListUsers(ctx context.Context, params ListUsersParams) (UsersPublic, error) {
	q := url.Values{}
	if params.Skip != nil {
		q.Set("skip", strconv.Itoa(*params.Skip))
	}
	if params.Limit != nil {
		q.Set("limit", strconv.Itoa(*params.Limit))
	}

	var out UsersPublic
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(q).
		SetResult(&out).
		Get("/users/")
	if err := check(resp, err, http.StatusOK); err != nil {
		return UsersPublic{}, err
	}
	if out.Data == nil {
		out.Data = []UserPublic{}
	}
	return out, nil
}

// GetUser fetches a user by id. IsNotFound reports a missing user.
func (c *Client) GetUser(ctx context.Context, id string) (UserPublic, error) {
	if strings.TrimSpace(id) == "" {
		return UserPublic{}, ErrEmptyID
	}

	var out UserPublic
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		Get("/users/{id}")
	if err := check(resp, err, http.StatusOK); err != nil {
		return UserPublic{}, err
	}
	return out, nil
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service can reach its database.
func (c *Client) GetReadiness(ctx context.Context) (HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (HealthResponse, error) {
	var out HealthResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(path)
	if err := check(resp, err, http.StatusOK); err != nil {
		return HealthResponse{}, err
	}
	return out, nil
}

func check(resp *resty.Response, err error, expected int) error {
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode() != expected {
		return parseErrorResponse(resp.StatusCode(), resp.Body())
	}
	return nil
}
