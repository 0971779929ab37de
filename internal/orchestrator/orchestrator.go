package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/xcode-links/xcache/internal/transfer"
)

// Fetcher performs one transfer. *transfer.Engine satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, req transfer.Request) (transfer.Result, error)
}

// Item is one artifact to download.
type Item struct {
	// Label is printed before the transfer starts ("Xcode 10.1").
	Label       string
	URL         string
	Destination string
	NeedsCookie bool
}

// Report lists item labels by outcome.
type Report struct {
	Succeeded []string
	Failed    []string
}

// Total is the number of items attempted.
func (r Report) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// Orchestrator runs items through a Fetcher.
type Orchestrator struct {
	fetcher Fetcher
	cookie  string
	out     io.Writer
	logger  *log.Logger
	printer *message.Printer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCookie sets the session cookie passed to items that need one.
func WithCookie(cookie string) Option {
	return func(o *Orchestrator) { o.cookie = cookie }
}

// WithOutput sets where item labels are printed (default stdout).
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) { o.out = w }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithLanguage selects the locale used for byte counts.
func WithLanguage(tag language.Tag) Option {
	return func(o *Orchestrator) { o.printer = message.NewPrinter(tag) }
}

// New creates an Orchestrator.
func New(f Fetcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher: f,
		out:     os.Stdout,
		logger:  log.Default(),
		printer: message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run fetches every item in order. The error is non-nil only when the run
// had to stop early; the report then covers the items attempted so far.
func (o *Orchestrator) Run(ctx context.Context, items []Item) (Report, error) {
	var report Report
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		fmt.Fprintln(o.out, item.Label)

		req := transfer.Request{URL: item.URL, Destination: item.Destination}
		if item.NeedsCookie {
			req.Cookie = o.cookie
		}

		res, err := o.fetcher.Fetch(ctx, req)
		if err != nil {
			if errors.Is(err, transfer.ErrNoTransport) {
				return report, err
			}
			o.logger.Error("Download failed", "item", item.Label, "error", err)
			report.Failed = append(report.Failed, item.Label)
			continue
		}

		if !res.OK {
			o.logger.Error("Download failed", "item", item.Label, "status", res.Status, "exit", res.ExitCode, "attempts", res.Attempts)
			report.Failed = append(report.Failed, item.Label)
			continue
		}

		if res.ResumedFrom > 0 {
			o.logger.Info("Completed", "item", item.Label, "resumed", o.printer.Sprintf("%d bytes", res.ResumedFrom))
		} else {
			o.logger.Info("Completed", "item", item.Label, "attempts", res.Attempts)
		}
		report.Succeeded = append(report.Succeeded, item.Label)
	}
	return report, nil
}

// Summary renders the report as one line.
func (o *Orchestrator) Summary(r Report) string {
	return o.printer.Sprintf("%d of %d downloads succeeded", len(r.Succeeded), r.Total())
}
