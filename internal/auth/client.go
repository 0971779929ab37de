package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"

	"github.com/xcode-links/xcache/internal/branding"
)

// catalogPath is the listDownloads endpoint below the services URL.
const catalogPath = "/services-account/QH65B2/downloadws/listDownloads.action"

// downloadPagePath is the page listing pre-release builds below the site URL.
const downloadPagePath = "/download/"

const userAgent = "xcache"

// Endpoints are the URLs a session talks to.
type Endpoints struct {
	SignIn   string
	Services string
	Site     string
	// Download is the prefix of artifact URLs; the session cookie is the
	// jar's view of this URL.
	Download string
}

// DefaultEndpoints returns the endpoints baked into the binary.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		SignIn:   branding.SignInURL(),
		Services: branding.ServicesURL(),
		Site:     branding.SiteURL(),
		Download: branding.DownloadURL(),
	}
}

// Client signs in and hands out sessions.
type Client struct {
	httpClient *http.Client
	endpoints  Endpoints
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing). A cookie jar
// is attached to a copy of it when it has none.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithEndpoints overrides the default endpoints.
func WithEndpoints(e Endpoints) Option {
	return func(cl *Client) {
		cl.endpoints = e
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		endpoints:  DefaultEndpoints(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type signInRequest struct {
	AccountName string `json:"accountName"`
	Password    string `json:"password"`
	RememberMe  bool   `json:"rememberMe"`
}

// Authenticate posts the credentials and returns a session carrying the
// cookies the sign-in endpoint set.
func (c *Client) Authenticate(ctx context.Context, creds Credentials) (*Session, error) {
	if creds.User == "" || creds.Password == "" {
		return nil, ErrNoCredentials
	}

	hc := *c.httpClient
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		hc.Jar = jar
	}

	payload, err := json.Marshal(signInRequest{
		AccountName: creds.User,
		Password:    creds.Password,
		RememberMe:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding sign-in request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoints.SignIn, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("signing in: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidCredentials
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("sign-in returned status %d", resp.StatusCode)
	}

	return &Session{
		client:    &hc,
		endpoints: c.endpoints,
		teamID:    creds.TeamID,
	}, nil
}
