//go:build integration

package integration_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"
)

// requireCurl skips the test when curl is not installed.
func requireCurl(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("curl")
	if err != nil {
		t.Skip("curl not available, skipping")
	}
	return path
}

// artifactServer serves deterministic payloads with Range support and
// records which requests carried the session cookie.
type artifactServer struct {
	*httptest.Server

	mu       sync.Mutex
	payloads map[string][]byte
	withAuth map[string]int
	requests map[string]int
	catalog  string
	page     string
}

func newArtifactServer(t *testing.T) *artifactServer {
	t.Helper()
	s := &artifactServer{
		payloads: map[string][]byte{},
		withAuth: map[string]int{},
		requests: map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/signin", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "myacinfo", Value: "integration-token", Path: "/"})
	})
	mux.HandleFunc("/services-account/QH65B2/downloadws/listDownloads.action", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, s.catalog)
	})
	mux.HandleFunc("/download/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, s.page)
	})
	mux.HandleFunc("/artifacts", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")

		s.mu.Lock()
		payload, ok := s.payloads[path]
		s.requests[path]++
		if c, err := r.Cookie("myacinfo"); err == nil && c.Value == "integration-token" {
			s.withAuth[path]++
		}
		s.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, path, time.Unix(0, 0), bytes.NewReader(payload))
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// add registers a payload of size bytes under remotePath.
func (s *artifactServer) add(remotePath string, size int) []byte {
	payload := bytes.Repeat([]byte("xcode-"), size/6+1)[:size]
	s.mu.Lock()
	s.payloads[remotePath] = payload
	s.mu.Unlock()
	return payload
}

func (s *artifactServer) downloadBase() string {
	return s.URL + "/artifacts?path="
}

func (s *artifactServer) url(remotePath string) string {
	return s.downloadBase() + remotePath
}

func (s *artifactServer) authenticatedRequests(remotePath string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withAuth[remotePath]
}

func (s *artifactServer) requestCount(remotePath string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[remotePath]
}

// lines collects downloader output.
type lines struct {
	mu  sync.Mutex
	all []string
}

func (l *lines) add(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.all = append(l.all, line)
}

func (l *lines) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.all, "\n")
}
