package release

import (
	"strings"

	"github.com/xcode-links/xcache/internal/version"
)

// productPrefix is stripped from catalog names ("Xcode 10.1" -> "10.1").
const productPrefix = "Xcode "

// Release is one downloadable Xcode build.
type Release struct {
	Name            string
	Version         version.Version
	Path            string
	URL             string
	ReleaseNotesURL string
	DateModified    int64 // zero for scraped pre-releases
}

// New builds a Release from a catalog record. downloadBase is the prefix the
// remote path is appended to; notesPath may be empty.
func New(name, remotePath string, dateModified int64, notesPath, downloadBase string) Release {
	r := Release{
		Name:         strings.TrimPrefix(name, productPrefix),
		Path:         remotePath,
		URL:          downloadBase + remotePath,
		DateModified: dateModified,
	}
	if notesPath != "" {
		r.ReleaseNotesURL = downloadBase + notesPath
	}
	r.Version = version.Parse(r.Name)
	return r
}

// NewPrerelease builds a Release from a link scraped off the download page.
// The remote path is the value after the last "=" of link
// ("...download?path=/Developer_Tools/Xcode_12_beta/Xcode_12_beta.xip"), so a
// pre-release and a catalog record with the same path share a URL.
func NewPrerelease(name, link, notesPath, downloadBase string) Release {
	path := link
	if i := strings.LastIndex(link, "="); i >= 0 {
		path = link[i+1:]
	}
	return New(strings.TrimSpace(name), path, 0, notesPath, downloadBase)
}

// Label is the human-readable identifier printed per item.
func (r Release) Label() string {
	return productPrefix + r.Name
}

// Equal reports whether both releases describe the same build. Version alone
// is not enough: distinct builds may share a version string.
func (r Release) Equal(other Release) bool {
	return r.DateModified == other.DateModified &&
		r.Name == other.Name &&
		r.Path == other.Path &&
		r.URL == other.URL &&
		r.Version.Equal(other.Version)
}

func (r Release) String() string {
	return r.Label() + " -- " + r.URL
}
