package transfer

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

type call struct {
	name   string
	args   []string
	cookie string // cookie file content while the downloader ran, "" if absent
}

// fakeRunner replays exit codes in order and records each invocation.
type fakeRunner struct {
	codes      []int
	err        error
	cookiePath string
	lines      []string
	calls      []call
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, output func(string)) (int, error) {
	c := call{name: name, args: args}
	if f.cookiePath != "" {
		if data, err := os.ReadFile(f.cookiePath); err == nil {
			c.cookie = string(data)
		}
	}
	f.calls = append(f.calls, c)

	for _, l := range f.lines {
		output(l)
	}
	if f.err != nil {
		return -1, f.err
	}
	code := 0
	if i := len(f.calls) - 1; i < len(f.codes) {
		code = f.codes[i]
	}
	return code, nil
}

var bothTransports = HostTransports{Curl: "/usr/bin/curl", Wget: "/usr/bin/wget"}

func newTestEngine(t *testing.T, r *fakeRunner, host HostTransports, opts ...Option) *Engine {
	t.Helper()
	cookiePath := filepath.Join(t.TempDir(), CookieFileName)
	r.cookiePath = cookiePath
	base := []Option{
		WithRunner(r),
		WithHostTransports(host),
		WithCookiePath(cookiePath),
		WithLogger(log.New(io.Discard)),
		WithProgress(func(string) {}),
	}
	return New(append(base, opts...)...)
}

func assertNoCookieFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("cookie file still present after Fetch: %v", err)
	}
}

func TestFetch_SucceedsFirstTry(t *testing.T) {
	r := &fakeRunner{codes: []int{0}}
	e := newTestEngine(t, r, bothTransports)

	res, err := e.Fetch(context.Background(), Request{URL: "https://example.com/a.xip", Cookie: "myacinfo=abc"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !res.OK || res.Attempts != 1 || res.Status != ExitSuccess {
		t.Errorf("result = %+v, want OK after 1 attempt", res)
	}
	if len(r.calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(r.calls))
	}
	if r.calls[0].name != "/usr/bin/curl" {
		t.Errorf("binary = %q, want curl", r.calls[0].name)
	}
}

func TestFetch_PartialThenSuccess(t *testing.T) {
	r := &fakeRunner{codes: []int{18, 18, 18, 0}}
	e := newTestEngine(t, r, bothTransports)

	res, err := e.Fetch(context.Background(), Request{URL: "https://example.com/a.xip", Cookie: "a=b"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !res.OK {
		t.Errorf("expected OK, got %+v", res)
	}
	if res.Attempts != 4 || len(r.calls) != 4 {
		t.Errorf("attempts = %d, calls = %d, want 4", res.Attempts, len(r.calls))
	}
}

func TestFetch_PartialExhausted(t *testing.T) {
	r := &fakeRunner{codes: []int{18, 18, 18, 18, 0}}
	e := newTestEngine(t, r, bothTransports)

	res, err := e.Fetch(context.Background(), Request{URL: "https://example.com/a.xip", Cookie: "a=b"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if res.OK {
		t.Error("expected failure after exhausting resume attempts")
	}
	if res.Status != ExitPartialFile || res.ExitCode != 18 {
		t.Errorf("status = %v (%d), want partial-file (18)", res.Status, res.ExitCode)
	}
	if len(r.calls) != DefaultResumeAttempts+1 {
		t.Errorf("calls = %d, want %d", len(r.calls), DefaultResumeAttempts+1)
	}
}

func TestFetch_ResumeAttemptsOption(t *testing.T) {
	r := &fakeRunner{codes: []int{18, 18, 18}}
	e := newTestEngine(t, r, bothTransports, WithResumeAttempts(1))

	res, _ := e.Fetch(context.Background(), Request{URL: "https://example.com/a.xip", Cookie: "a=b"})
	if res.OK || len(r.calls) != 2 {
		t.Errorf("OK = %v, calls = %d, want failure after 2 calls", res.OK, len(r.calls))
	}
}

func TestFetch_FailureIsNotRetried(t *testing.T) {
	r := &fakeRunner{codes: []int{22, 0}}
	e := newTestEngine(t, r, bothTransports)

	res, err := e.Fetch(context.Background(), Request{URL: "https://example.com/a.xip", Cookie: "a=b"})
	if err != nil {
		t.Fatalf("transfer failures must not be returned as errors: %v", err)
	}
	if res.OK || res.Status != ExitFailure || res.ExitCode != 22 {
		t.Errorf("result = %+v, want failure with exit 22", res)
	}
	if len(r.calls) != 1 {
		t.Errorf("calls = %d, want 1", len(r.calls))
	}
	assertNoCookieFile(t, r.cookiePath)
}

func TestFetch_RunnerError(t *testing.T) {
	r := &fakeRunner{err: errors.New("exec: no such file")}
	e := newTestEngine(t, r, bothTransports)

	res, err := e.Fetch(context.Background(), Request{URL: "https://example.com/a.xip", Cookie: "a=b"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if res.OK || res.Status != ExitFailure {
		t.Errorf("result = %+v, want failure", res)
	}
	if len(r.calls) != 1 || r.calls[0].cookie == "" {
		t.Errorf("calls = %+v, want one call with the cookie file present", r.calls)
	}
	assertNoCookieFile(t, r.cookiePath)
}

func TestFetch_UnparsableURLRemovesStaleCookie(t *testing.T) {
	r := &fakeRunner{codes: []int{0}}
	e := newTestEngine(t, r, bothTransports)
	if err := os.WriteFile(r.cookiePath, []byte("stale=secret\n"), 0600); err != nil {
		t.Fatal(err)
	}

	res, err := e.Fetch(context.Background(), Request{URL: "https://example.com/a\n.xip", Cookie: "a=b"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if res.OK || res.Status != ExitFailure {
		t.Errorf("result = %+v, want failure", res)
	}
	if len(r.calls) != 0 {
		t.Errorf("runner called %d times, want 0", len(r.calls))
	}
	assertNoCookieFile(t, r.cookiePath)
}

func TestFetch_CookieFileScopedToInvocation(t *testing.T) {
	r := &fakeRunner{codes: []int{18, 0}}
	e := newTestEngine(t, r, bothTransports)

	if _, err := e.Fetch(context.Background(), Request{URL: "https://download.example.com/a.xip", Cookie: "ADCDownloadAuth=tok"}); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	for i, c := range r.calls {
		if !strings.Contains(c.cookie, "ADCDownloadAuth\ttok") {
			t.Errorf("call %d: cookie file content = %q, want the session cookie", i, c.cookie)
		}
		if !slices.Contains(c.args, "--cookie") {
			t.Errorf("call %d: args %v missing --cookie", i, c.args)
		}
	}
	assertNoCookieFile(t, r.cookiePath)
}

func TestFetch_StaleCookieFileOverwritten(t *testing.T) {
	r := &fakeRunner{codes: []int{0}}
	e := newTestEngine(t, r, bothTransports)
	if err := os.WriteFile(r.cookiePath, []byte("stale=1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Fetch(context.Background(), Request{URL: "https://example.com/a.xip", Cookie: "fresh=2"}); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	got := r.calls[0].cookie
	if strings.Contains(got, "stale") || !strings.Contains(got, "fresh\t2") {
		t.Errorf("cookie file content = %q, want only the fresh cookie", got)
	}
	assertNoCookieFile(t, r.cookiePath)
}

func TestFetch_AnonymousPrefersWget(t *testing.T) {
	r := &fakeRunner{codes: []int{0}}
	e := newTestEngine(t, r, bothTransports)

	res, err := e.Fetch(context.Background(), Request{URL: "https://example.com/a.dmg"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if res.Transport != PlainCapable || r.calls[0].name != "/usr/bin/wget" {
		t.Errorf("transport = %v (%s), want wget", res.Transport, r.calls[0].name)
	}
	if r.calls[0].cookie != "" {
		t.Error("anonymous transfer wrote a cookie file")
	}
}

func TestFetch_NoTransport(t *testing.T) {
	tests := []struct {
		name   string
		host   HostTransports
		cookie string
	}{
		{"cookie without curl", HostTransports{Wget: "/usr/bin/wget"}, "a=b"},
		{"nothing installed", HostTransports{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{}
			e := newTestEngine(t, r, tt.host)
			_, err := e.Fetch(context.Background(), Request{URL: "https://example.com/a.xip", Cookie: tt.cookie})
			if !errors.Is(err, ErrNoTransport) {
				t.Errorf("err = %v, want ErrNoTransport", err)
			}
			if len(r.calls) != 0 {
				t.Errorf("runner called %d times, want 0", len(r.calls))
			}
		})
	}
}

func TestFetch_EmptyDestinationDiscards(t *testing.T) {
	r := &fakeRunner{codes: []int{0}}
	e := newTestEngine(t, r, HostTransports{Curl: "/usr/bin/curl"})

	if _, err := e.Fetch(context.Background(), Request{URL: "https://example.com/a.xip"}); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	args := r.calls[0].args
	i := slices.Index(args, "--output")
	if i < 0 || args[i+1] != os.DevNull {
		t.Errorf("args = %v, want --output %s", args, os.DevNull)
	}
}

func TestFetch_ResumedFrom(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "Xcode_15.xip")
	if err := os.WriteFile(dest, make([]byte, 1024), 0644); err != nil {
		t.Fatal(err)
	}
	r := &fakeRunner{codes: []int{0}}
	e := newTestEngine(t, r, bothTransports)

	res, err := e.Fetch(context.Background(), Request{URL: "https://example.com/a.xip", Destination: dest})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if res.ResumedFrom != 1024 {
		t.Errorf("ResumedFrom = %d, want 1024", res.ResumedFrom)
	}
}

func TestFetch_ForwardsProgress(t *testing.T) {
	r := &fakeRunner{codes: []int{0}, lines: []string{"#### 10.0%", "######## 20.0%"}}
	var got []string
	e := newTestEngine(t, r, bothTransports, WithProgress(func(l string) { got = append(got, l) }))

	if _, err := e.Fetch(context.Background(), Request{URL: "https://example.com/a.dmg"}); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !slices.Equal(got, r.lines) {
		t.Errorf("progress = %v, want %v", got, r.lines)
	}
}

func TestFetch_RetriesPassedToDownloader(t *testing.T) {
	r := &fakeRunner{codes: []int{0}}
	e := newTestEngine(t, r, HostTransports{Curl: "/usr/bin/curl"}, WithRetries(9))

	if _, err := e.Fetch(context.Background(), Request{URL: "https://example.com/a.xip"}); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	args := r.calls[0].args
	i := slices.Index(args, "--retry")
	if i < 0 || args[i+1] != "9" {
		t.Errorf("args = %v, want --retry 9", args)
	}
}
