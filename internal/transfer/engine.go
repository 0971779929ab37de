package transfer

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

const (
	// DefaultRetries is handed to the downloader for ordinary transient
	// failures.
	DefaultRetries = 5
	// DefaultResumeAttempts is the number of extra whole attempts made after
	// a partial-file exit.
	DefaultResumeAttempts = 3
)

// Request describes one transfer.
type Request struct {
	URL string
	// Destination is the output path. Empty means the discard sink.
	Destination string
	// Cookie is the session cookie header value; empty for anonymous
	// downloads.
	Cookie string
}

// Result reports how a transfer ended.
type Result struct {
	OK        bool
	Transport Capability
	Attempts  int
	Status    ExitStatus
	ExitCode  int
	// ResumedFrom is the size of the destination before the first attempt.
	ResumedFrom int64
}

// Engine executes transfers one at a time.
type Engine struct {
	host           HostTransports
	hostSet        bool
	runner         Runner
	retries        int
	resumeAttempts int
	cookiePath     string
	logger         *log.Logger
	progress       func(line string)
}

// Option configures an Engine.
type Option func(*Engine)

// WithHostTransports sets the probed transports instead of probing PATH.
func WithHostTransports(h HostTransports) Option {
	return func(e *Engine) {
		e.host = h
		e.hostSet = true
	}
}

// WithRunner replaces the subprocess runner (useful for testing).
func WithRunner(r Runner) Option {
	return func(e *Engine) { e.runner = r }
}

// WithRetries sets the downloader's own retry count.
func WithRetries(n int) Option {
	return func(e *Engine) { e.retries = n }
}

// WithResumeAttempts sets how many extra attempts follow a partial-file exit.
func WithResumeAttempts(n int) Option {
	return func(e *Engine) { e.resumeAttempts = n }
}

// WithCookiePath overrides the well-known cookie file location.
func WithCookiePath(path string) Option {
	return func(e *Engine) { e.cookiePath = path }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithProgress receives every line the downloader prints.
func WithProgress(fn func(line string)) Option {
	return func(e *Engine) { e.progress = fn }
}

// New creates an Engine. Unless WithHostTransports is given, PATH is probed
// once here.
func New(opts ...Option) *Engine {
	e := &Engine{
		runner:         ExecRunner{},
		retries:        DefaultRetries,
		resumeAttempts: DefaultResumeAttempts,
		cookiePath:     DefaultCookiePath(),
		logger:         log.Default(),
		progress:       func(line string) { fmt.Fprintln(os.Stderr, line) },
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.hostSet {
		e.host = Probe()
	}
	if e.resumeAttempts < 0 {
		e.resumeAttempts = 0
	}
	return e
}

// Host returns the transports the engine chooses from.
func (e *Engine) Host() HostTransports {
	return e.host
}

// Fetch downloads req.URL to req.Destination. Transfer failures are reported
// through Result.OK; the error is reserved for configuration problems such as
// a missing downloader.
func (e *Engine) Fetch(ctx context.Context, req Request) (Result, error) {
	capability, err := Choose(req.Cookie != "", e.host)
	if err != nil {
		return Result{}, err
	}
	t := transportFor(capability)

	dest := req.Destination
	if dest == "" {
		dest = os.DevNull
	}

	res := Result{Transport: capability, ResumedFrom: partialSize(dest)}
	if res.ResumedFrom > 0 {
		e.logger.Info("Resuming partial download", "path", dest, "bytes", res.ResumedFrom)
	}

	for attempt := 1; attempt <= e.resumeAttempts+1; attempt++ {
		res.Attempts = attempt

		code, runErr := e.invoke(ctx, t, req, dest)
		if runErr != nil {
			e.logger.Error("Download could not run", "url", req.URL, "error", runErr)
			res.Status = ExitFailure
			res.ExitCode = code
			return res, nil
		}

		res.ExitCode = code
		res.Status = t.classify(code)
		switch res.Status {
		case ExitSuccess:
			res.OK = true
			return res, nil
		case ExitPartialFile:
			e.logger.Warn("Partial file, restarting transfer", "url", req.URL, "attempt", attempt, "of", e.resumeAttempts+1)
		default:
			e.logger.Error("Download failed", "url", req.URL, "exit", code)
			return res, nil
		}
	}

	e.logger.Error("Giving up after partial transfers", "url", req.URL, "attempts", res.Attempts)
	return res, nil
}

// invoke runs the downloader once. The cookie file exists only while the
// downloader runs.
func (e *Engine) invoke(ctx context.Context, t transport, req Request, dest string) (int, error) {
	inv := invocation{
		URL:         req.URL,
		Destination: dest,
		Retries:     e.retries,
	}
	if req.Cookie != "" {
		release, err := acquireCookie(e.cookiePath, req.URL, req.Cookie)
		if err != nil {
			return -1, err
		}
		defer release()
		inv.CookieFile = e.cookiePath
	}

	e.logger.Debug("Starting transfer", "transport", t.binary(e.host), "url", req.URL, "dest", dest)
	return e.runner.Run(ctx, t.binary(e.host), t.args(inv), e.progress)
}

// partialSize returns the size of a regular file at path, or 0.
func partialSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return 0
	}
	return info.Size()
}
