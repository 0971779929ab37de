package catalog

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xcode-links/xcache/internal/release"
	"github.com/xcode-links/xcache/internal/version"
)

// dateLayout is the format the catalog uses for dateModified strings.
const dateLayout = "01/02/06 15:04"

var productName = regexp.MustCompile(`^Xcode [0-9]`)

// Response is the decoded listDownloads payload.
type Response struct {
	ResultCode   int      `json:"resultCode"`
	ResultString string   `json:"resultString"`
	Downloads    []Record `json:"downloads"`
}

// Record is one entry of the catalog.
type Record struct {
	Name             string    `json:"name"`
	Files            []File    `json:"files"`
	DateModified     Timestamp `json:"dateModified"`
	ReleaseNotesPath string    `json:"release_notes_path"`
}

// File is a remote file descriptor attached to a record.
type File struct {
	RemotePath string `json:"remotePath"`
}

// Timestamp accepts the catalog's dateModified as either a number or a
// "MM/DD/YY hh:mm" string and stores Unix seconds.
type Timestamp int64

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = 0
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		v, err := n.Int64()
		if err != nil {
			return fmt.Errorf("parsing dateModified %s: %w", data, err)
		}
		*ts = Timestamp(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing dateModified %s: %w", data, err)
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*ts = Timestamp(v)
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		// Unknown formats order first rather than failing the whole catalog.
		*ts = 0
		return nil
	}
	*ts = Timestamp(t.Unix())
	return nil
}

// ResultError is returned when the catalog reports a non-zero result code.
type ResultError struct {
	Code    int
	Message string
}

func (e *ResultError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog request failed with result code %d", e.Code)
	}
	return fmt.Sprintf("catalog request failed with result code %d: %s", e.Code, e.Message)
}

// envelope is the part of every listDownloads body that is present even when
// the request failed.
type envelope struct {
	ResultCode   int    `json:"resultCode"`
	ResultString string `json:"resultString"`
}

// Decode validates and decodes a listDownloads body. A failing result code
// yields *ResultError so the run stops before selecting from partial data.
// The result code is reported before schema validation, whatever the rest of
// the body looks like.
func Decode(body []byte) (*Response, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.ResultCode != 0 {
		return nil, &ResultError{Code: env.ResultCode, Message: env.ResultString}
	}

	if err := Validate(body); err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding catalog response: %w", err)
	}
	return &resp, nil
}

// Options controls how catalog records become releases.
type Options struct {
	// DownloadBase is prefixed to every remote path.
	DownloadBase string
	// Floor drops releases older than this version.
	Floor version.Version
}

// Releases turns the catalog records into Xcode releases. Only records named
// "Xcode <digit>..." that point at a .dmg or .xip are kept; releases below the
// floor are dropped. The result is ordered oldest to newest by DateModified.
func Releases(resp *Response, opts Options) []release.Release {
	if resp == nil {
		return nil
	}

	var out []release.Release
	for _, rec := range resp.Downloads {
		if !productName.MatchString(rec.Name) || len(rec.Files) == 0 {
			continue
		}
		r := release.New(rec.Name, rec.Files[0].RemotePath, int64(rec.DateModified), rec.ReleaseNotesPath, opts.DownloadBase)
		if !r.Version.AtLeast(opts.Floor) {
			continue
		}
		if !isInstaller(r.URL) {
			continue
		}
		out = append(out, r)
	}

	SortByDateModified(out)
	return out
}

// SortByDateModified orders releases oldest to newest in place. Releases with
// the same timestamp keep their relative order.
func SortByDateModified(releases []release.Release) {
	sort.SliceStable(releases, func(i, j int) bool {
		return releases[i].DateModified < releases[j].DateModified
	})
}

// Merge appends the pre-releases whose name is not already in the catalog.
func Merge(listed, prereleases []release.Release) []release.Release {
	names := make(map[string]bool, len(listed))
	for _, r := range listed {
		names[r.Name] = true
	}

	out := make([]release.Release, 0, len(listed)+len(prereleases))
	out = append(out, listed...)
	for _, pre := range prereleases {
		if names[pre.Name] {
			continue
		}
		names[pre.Name] = true
		out = append(out, pre)
	}
	return out
}

func isInstaller(url string) bool {
	return strings.HasSuffix(url, ".dmg") || strings.HasSuffix(url, ".xip")
}
