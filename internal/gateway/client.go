// Package gateway implements the HTTP client for the movie catalog API.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vkozyrev/cinescope/internal/domain"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the catalog API. Message carries the
// server-supplied text when the body contained one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// Client implements domain.CatalogGateway and domain.AuthGateway against the
// catalog API. A single resty client carries the base URL and the session
// cookie jar; every request goes through it.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// New creates a gateway client for the given base URL.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	// Cookie jar errors only occur with a non-nil PublicSuffixList
	jar, _ := cookiejar.New(nil)

	c := resty.New().
		SetBaseURL(baseURL).
		SetCookieJar(jar).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: c, logger: logger}
}

// GetMovies returns one page of the catalog listing.
func (c *Client) GetMovies(ctx context.Context, q domain.MovieQuery) ([]domain.Movie, error) {
	req := c.http.R().SetContext(ctx)
	if q.Page > 0 {
		req.SetQueryParam("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(q.Limit))
	}
	if q.SortField != "" {
		req.SetQueryParam("sortField", q.SortField)
		req.SetQueryParam("sortType", strconv.Itoa(q.SortType))
	}
	if q.SelectFields != "" {
		req.SetQueryParam("selectFields", q.SelectFields)
	}
	if q.Genre != "" {
		req.SetQueryParam("genres", q.Genre)
	}

	resp, err := req.Get("/movie")
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return decodeMovieList(resp.Body()), nil
}

// GetMovieByID returns a single movie by identifier.
func (c *Client) GetMovieByID(ctx context.Context, id int) (*domain.Movie, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/movie/" + strconv.Itoa(id))
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, domain.ErrMovieNotFound
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	var m domain.Movie
	if err := json.Unmarshal(resp.Body(), &m); err != nil {
		return nil, fmt.Errorf("decode movie %d: %w", id, err)
	}
	if m.ID == 0 && m.Title == "" {
		return nil, nil
	}
	return &m, nil
}

// GetRandomMovie calls the dedicated random endpoint. Upstream deployments
// may not expose it; a 404 surfaces as an APIError for the caller's fallback.
func (c *Client) GetRandomMovie(ctx context.Context) (*domain.Movie, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/movie/random")
	if err != nil {
		return nil, fmt.Errorf("get random movie: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	var m domain.Movie
	if err := json.Unmarshal(resp.Body(), &m); err != nil {
		return nil, fmt.Errorf("decode random movie: %w", err)
	}
	if m.ID == 0 && m.Title == "" {
		return nil, nil
	}
	return &m, nil
}

// Login posts credentials and resolves the identity from the response body.
func (c *Client) Login(ctx context.Context, data domain.LoginData) (*domain.User, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(data).Post("/auth/login")
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return resolveUser(resp.Body()), nil
}

// Register creates an account. The upstream expects both confirmPassword and
// passwordConfirm spellings, so the body is built explicitly.
func (c *Client) Register(ctx context.Context, data domain.RegisterData) (*domain.User, error) {
	body := map[string]string{
		"email":           data.Email,
		"password":        data.Password,
		"confirmPassword": data.ConfirmPassword,
		"passwordConfirm": data.ConfirmPassword,
		"name":            data.Name,
		"surname":         data.Surname,
	}

	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post("/user")
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return resolveUser(resp.Body()), nil
}

// GetProfile returns the identity bound to the current session cookie.
func (c *Client) GetProfile(ctx context.Context) (*domain.User, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/profile")
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	var u domain.User
	if err := json.Unmarshal(resp.Body(), &u); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if u.Email == "" {
		return nil, nil
	}
	return &u, nil
}

// Logout invalidates the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Post("/auth/logout")
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// decodeMovieList tolerates both listing shapes the API is known to return:
// {docs: [...]} and a bare array.
func decodeMovieList(body []byte) []domain.Movie {
	var wrapper struct {
		Docs []domain.Movie `json:"docs"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Docs != nil {
		return wrapper.Docs
	}

	var list []domain.Movie
	if err := json.Unmarshal(body, &list); err == nil {
		return list
	}
	return nil
}

// resolveUser extracts an identity from an auth response body, which may be
// {user: {...}}, a bare user object, or something opaque (nil result).
func resolveUser(body []byte) *domain.User {
	var wrapper struct {
		User *domain.User `json:"user"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.User != nil && wrapper.User.Email != "" {
		return wrapper.User
	}

	var u domain.User
	if err := json.Unmarshal(body, &u); err == nil && u.Email != "" {
		return &u
	}
	return nil
}

// apiError builds an APIError from a non-2xx response, extracting the most
// specific message the body offers.
func apiError(resp *resty.Response) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode(),
		Message:    extractMessage(resp.Body(), resp.Status()),
	}
}

func extractMessage(body []byte, statusText string) string {
	var asString string
	if err := json.Unmarshal(body, &asString); err == nil && asString != "" {
		return asString
	}

	var structured struct {
		Message string `json:"message"`
		Err     string `json:"error"`
		Errors  []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &structured); err == nil {
		switch {
		case structured.Message != "":
			return structured.Message
		case structured.Err != "":
			return structured.Err
		case len(structured.Errors) > 0 && structured.Errors[0].Message != "":
			return structured.Errors[0].Message
		}
	}

	if len(body) > 0 && body[0] != '{' && body[0] != '[' {
		return string(body)
	}
	return statusText
}
