package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Session is a signed-in account.
type Session struct {
	client    *http.Client
	endpoints Endpoints
	teamID    string
}

// Endpoints returns the URLs the session was created for.
func (s *Session) Endpoints() Endpoints {
	return s.endpoints
}

// TeamID returns the selected team, if any.
func (s *Session) TeamID() string {
	return s.teamID
}

// Cookie returns the session cookies for artifact downloads as a
// "name=value; name2=value2" header value.
func (s *Session) Cookie() string {
	u, err := url.Parse(s.endpoints.Download)
	if err != nil || s.client.Jar == nil {
		return ""
	}
	cookies := s.client.Jar.Cookies(u)
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}

// FetchCatalog posts to the listDownloads endpoint and returns the raw body.
func (s *Session) FetchCatalog(ctx context.Context) ([]byte, error) {
	form := url.Values{}
	if s.teamID != "" {
		form.Set("teamId", s.teamID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoints.Services+catalogPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating catalog request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	body, err := s.do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching download catalog: %w", err)
	}
	return body, nil
}

// FetchDownloadPage returns the HTML of the developer download page.
func (s *Session) FetchDownloadPage(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoints.Site+downloadPagePath, nil)
	if err != nil {
		return "", fmt.Errorf("creating download page request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	body, err := s.do(req)
	if err != nil {
		return "", fmt.Errorf("fetching download page: %w", err)
	}
	return string(body), nil
}

func (s *Session) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("session rejected (status %d): %w", resp.StatusCode, ErrInvalidCredentials)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
