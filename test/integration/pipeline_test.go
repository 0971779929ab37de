//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/xcode-links/xcache/internal/auth"
	"github.com/xcode-links/xcache/internal/catalog"
	"github.com/xcode-links/xcache/internal/orchestrator"
	"github.com/xcode-links/xcache/internal/selector"
	"github.com/xcode-links/xcache/internal/transfer"
	"github.com/xcode-links/xcache/internal/version"
)

const pipelineCatalog = `{
  "resultCode": 0,
  "downloads": [
    {"name": "Xcode 10.1", "dateModified": 300, "files": [{"remotePath": "/Developer_Tools/Xcode_10.1/Xcode_10.1.xip"}]},
    {"name": "Xcode 10", "dateModified": 200, "files": [{"remotePath": "/Developer_Tools/Xcode_10/Xcode_10.xip"}]},
    {"name": "Xcode 10.0.1", "dateModified": 250, "files": [{"remotePath": "/Developer_Tools/Xcode_10.0.1/Xcode_10.0.1.xip"}]},
    {"name": "Xcode 6.4", "dateModified": 100, "files": [{"remotePath": "/Developer_Tools/Xcode_6.4/Xcode_6.4.dmg"}]}
  ]
}`

// TestSelectAndFetchPipeline signs in, reads the catalog, keeps the newest
// build of every family and downloads the selection with curl.
func TestSelectAndFetchPipeline(t *testing.T) {
	curl := requireCurl(t)
	server := newArtifactServer(t)
	server.catalog = pipelineCatalog
	server.page = "<html><p>No betas right now.</p></html>"

	payloads := map[string][]byte{
		"Xcode_10.1.xip":   server.add("/Developer_Tools/Xcode_10.1/Xcode_10.1.xip", 2048),
		"Xcode_10.0.1.xip": server.add("/Developer_Tools/Xcode_10.0.1/Xcode_10.0.1.xip", 3072),
	}
	server.add("/Developer_Tools/Xcode_10/Xcode_10.xip", 1024)

	ctx := context.Background()
	client := auth.New(auth.WithEndpoints(auth.Endpoints{
		SignIn:   server.URL + "/signin",
		Services: server.URL,
		Site:     server.URL,
		Download: server.downloadBase(),
	}))
	session, err := client.Authenticate(ctx, auth.Credentials{User: "dev@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	body, err := session.FetchCatalog(ctx)
	if err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}
	resp, err := catalog.Decode(body)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	floor := version.Parse("7.0")
	listed := catalog.Releases(resp, catalog.Options{DownloadBase: server.downloadBase(), Floor: floor})

	page, err := session.FetchDownloadPage(ctx)
	if err != nil {
		t.Fatalf("FetchDownloadPage: %v", err)
	}
	all := catalog.Merge(listed, catalog.ScrapePrereleases(page, catalog.Bases{Download: server.downloadBase(), Site: server.URL}))

	selected := selector.Select(all, selector.Options{Floor: floor, KeepPerFamily: 1})
	var labels []string
	for _, r := range selected {
		labels = append(labels, r.Label())
	}
	if !slices.Equal(labels, []string{"Xcode 10.1", "Xcode 10.0.1"}) {
		t.Fatalf("selected = %v", labels)
	}

	outDir := t.TempDir()
	var progress lines
	engine := transfer.New(
		transfer.WithHostTransports(transfer.HostTransports{Curl: curl}),
		transfer.WithCookiePath(filepath.Join(t.TempDir(), transfer.CookieFileName)),
		transfer.WithLogger(log.New(io.Discard)),
		transfer.WithProgress(progress.add),
	)
	var printed bytes.Buffer
	o := orchestrator.New(engine,
		orchestrator.WithCookie(session.Cookie()),
		orchestrator.WithOutput(&printed),
		orchestrator.WithLogger(log.New(io.Discard)),
	)

	report, err := o.Run(ctx, orchestrator.ReleaseItems(selected, outDir))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Failed) != 0 {
		t.Fatalf("failed = %v, output:\n%s", report.Failed, progress.String())
	}
	if printed.String() != "Xcode 10.1\nXcode 10.0.1\n" {
		t.Errorf("printed labels = %q", printed.String())
	}

	for name, want := range payloads {
		got, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if !bytes.Equal(got, want) {
			t.Errorf("%s differs from the served payload", name)
		}
	}
	if n := server.requestCount("/Developer_Tools/Xcode_10/Xcode_10.xip"); n != 0 {
		t.Errorf("unselected release downloaded %d times", n)
	}
	if n := server.authenticatedRequests("/Developer_Tools/Xcode_10.1/Xcode_10.1.xip"); n != 1 {
		t.Errorf("authenticated requests for 10.1 = %d, want 1", n)
	}
}
