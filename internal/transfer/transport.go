package transfer

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// ErrNoTransport is returned when the host has no downloader that can serve
// the transfer. It is a configuration error and aborts the run.
var ErrNoTransport = errors.New("no suitable download transport found")

// Capability is the kind of downloader a transfer needs.
type Capability int

const (
	// CookieCapable transports can present a session cookie (curl).
	CookieCapable Capability = iota + 1
	// PlainCapable transports download anonymously (wget).
	PlainCapable
)

func (c Capability) String() string {
	switch c {
	case CookieCapable:
		return "cookie-capable"
	case PlainCapable:
		return "plain"
	default:
		return "unknown"
	}
}

// Binary names looked up on PATH.
const (
	curlBinary = "curl"
	wgetBinary = "wget"
)

//nolint:gochecknoglobals // Test seam for exec.LookPath().
var lookPath = exec.LookPath

// HostTransports records where the downloader binaries live. An empty path
// means the binary is not installed.
type HostTransports struct {
	Curl string
	Wget string
}

// Probe looks up the downloader binaries on PATH once.
func Probe() HostTransports {
	var h HostTransports
	if p, err := lookPath(curlBinary); err == nil {
		h.Curl = p
	}
	if p, err := lookPath(wgetBinary); err == nil {
		h.Wget = p
	}
	return h
}

// Has reports whether a transport of the given capability is installed.
func (h HostTransports) Has(c Capability) bool {
	switch c {
	case CookieCapable:
		return h.Curl != ""
	case PlainCapable:
		return h.Wget != ""
	default:
		return false
	}
}

// Choose picks the transport for one transfer. A cookie requires curl.
// Without a cookie wget is preferred and curl is the fallback.
func Choose(needsCookie bool, host HostTransports) (Capability, error) {
	if needsCookie {
		if host.Has(CookieCapable) {
			return CookieCapable, nil
		}
		return 0, fmt.Errorf("%w: authenticated downloads need %s on PATH", ErrNoTransport, curlBinary)
	}
	if host.Has(PlainCapable) {
		return PlainCapable, nil
	}
	if host.Has(CookieCapable) {
		return CookieCapable, nil
	}
	return 0, fmt.Errorf("%w: install %s or %s", ErrNoTransport, curlBinary, wgetBinary)
}

// invocation is everything a transport needs to build its command line.
type invocation struct {
	URL         string
	Destination string
	CookieFile  string
	Retries     int
}

type transport interface {
	binary(h HostTransports) string
	args(inv invocation) []string
	classify(code int) ExitStatus
}

func transportFor(c Capability) transport {
	if c == PlainCapable {
		return wget{}
	}
	return curl{}
}

type curl struct{}

func (curl) binary(h HostTransports) string { return h.Curl }

func (curl) args(inv invocation) []string {
	args := []string{
		"--location",
		"--retry", strconv.Itoa(inv.Retries),
		"--continue-at", "-",
	}
	if inv.CookieFile != "" {
		args = append(args, "--cookie", inv.CookieFile, "--cookie-jar", inv.CookieFile)
	}
	return append(args,
		"--output", inv.Destination,
		"--progress-bar",
		inv.URL,
	)
}

func (curl) classify(code int) ExitStatus { return classifyCurl(code) }

type wget struct{}

func (wget) binary(h HostTransports) string { return h.Wget }

// wget counts the first try in --tries and treats 0 as unlimited.
func (wget) args(inv invocation) []string {
	return []string{
		"--continue",
		"--tries=" + strconv.Itoa(inv.Retries+1),
		"--progress=bar:force",
		"--output-document=" + inv.Destination,
		inv.URL,
	}
}

// wget resumes on its own and has no partial-file exit code.
func (wget) classify(code int) ExitStatus {
	if code == 0 {
		return ExitSuccess
	}
	return ExitFailure
}
