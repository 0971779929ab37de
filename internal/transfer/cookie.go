package transfer

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/xcode-links/xcache/internal/platform"
)

// CookieFileName is the well-known name of the temporary cookie file.
const CookieFileName = "xcode-links-cookies.txt"

// DefaultCookiePath is where the cookie file lives while a transfer runs.
func DefaultCookiePath() string {
	return filepath.Join(os.TempDir(), CookieFileName)
}

// acquireCookie writes cookie to path in Netscape format, replacing any stale
// file, and returns the function that removes it.
func acquireCookie(path, rawURL, cookie string) (release func(), err error) {
	release = func() { _ = os.Remove(path) }

	content, err := netscapeCookies(rawURL, cookie)
	if err != nil {
		release()
		return nil, err
	}
	if err := platform.WritePrivate(path, []byte(content)); err != nil {
		release()
		return nil, fmt.Errorf("cookie file: %w", err)
	}
	return release, nil
}

// netscapeCookies renders a "name=value; name2=value2" cookie header as a
// curl cookie file scoped to the parent domain of rawURL, so the cookie
// follows redirects to sibling download hosts.
func netscapeCookies(rawURL, cookie string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing download URL: %w", err)
	}

	domain, subdomains := cookieDomain(u.Hostname())
	secure := "FALSE"
	if u.Scheme == "https" {
		secure = "TRUE"
	}

	var b strings.Builder
	b.WriteString("# Netscape HTTP Cookie File\n")
	for _, pair := range strings.Split(cookie, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" {
			continue
		}
		fmt.Fprintf(&b, "%s\t%s\t/\t%s\t0\t%s\t%s\n", domain, subdomains, secure, name, value)
	}
	return b.String(), nil
}

func cookieDomain(host string) (domain, includeSubdomains string) {
	if net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return host, "FALSE"
	}
	labels := strings.Split(host, ".")
	return "." + strings.Join(labels[len(labels)-2:], "."), "TRUE"
}
