package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"

	"github.com/goliatone/go-sitegen/internal/generator"
)

type builderFunc func(context.Context, generator.BuildOptions) (*generator.BuildResult, error)

func (f builderFunc) Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	return f(ctx, opts)
}

func okBuilder(calls *atomic.Int32) Builder {
	return builderFunc(func(context.Context, generator.BuildOptions) (*generator.BuildResult, error) {
		if calls != nil {
			calls.Add(1)
		}
		return &generator.BuildResult{PagesBuilt: 2}, nil
	})
}

func siteFiles() fstest.MapFS {
	return fstest.MapFS{
		"index.html":      {Data: []byte("<html><body><h1>home</h1></body></html>")},
		"404.html":        {Data: []byte("<html><body>missing</body></html>")},
		"blogs/a.html":    {Data: []byte("<html><body>post</body></html>")},
		"static/site.css": {Data: []byte("body{}")},
		"sitemap.xml":     {Data: []byte("<urlset></urlset>")},
		"services/x.html": {Data: []byte("<p>no body tag</p>")},
	}
}

func newTestServer(t *testing.T, cfg Config, builder Builder) *Server {
	t.Helper()
	if builder == nil {
		builder = okBuilder(nil)
	}
	srv, err := New(cfg, Dependencies{Builder: builder, Files: siteFiles()})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewRequiresBuilder(t *testing.T) {
	if _, err := New(Config{}, Dependencies{}); !errors.Is(err, ErrBuilderRequired) {
		t.Fatalf("expected ErrBuilderRequired, got %v", err)
	}
}

func TestServerInjectsReloadScriptIntoHTML(t *testing.T) {
	srv := newTestServer(t, Config{LiveReload: true}, nil)

	rec := get(t, srv.Handler(), "/blogs/a.html")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, reloadPath) {
		t.Fatalf("expected reload script, got %s", body)
	}
	if strings.Index(body, "<script>") > strings.Index(body, "</body>") {
		t.Fatalf("script must precede </body>: %s", body)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
		t.Fatalf("unexpected cache header %q", got)
	}
}

func TestServerLeavesAssetsUntouched(t *testing.T) {
	srv := newTestServer(t, Config{LiveReload: true}, nil)

	rec := get(t, srv.Handler(), "/static/site.css")
	if rec.Body.String() != "body{}" {
		t.Fatalf("asset altered: %q", rec.Body.String())
	}
	if rec.Header().Get("Pragma") != "no-cache" {
		t.Fatalf("expected no-cache headers on assets")
	}
}

func TestServerWithoutLiveReload(t *testing.T) {
	srv := newTestServer(t, Config{}, nil)

	rec := get(t, srv.Handler(), "/blogs/a.html")
	if strings.Contains(rec.Body.String(), "<script>") {
		t.Fatalf("did not expect reload script: %s", rec.Body.String())
	}
}

func TestServerServesNotFoundPage(t *testing.T) {
	srv := newTestServer(t, Config{LiveReload: true}, nil)

	rec := get(t, srv.Handler(), "/nope.html")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing") {
		t.Fatalf("expected generated 404 page, got %s", rec.Body.String())
	}
}

func TestServerRootServesIndex(t *testing.T) {
	srv := newTestServer(t, Config{}, nil)

	rec := get(t, srv.Handler(), "/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "home") {
		t.Fatalf("expected index page, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestInjectScriptWithoutBody(t *testing.T) {
	in := []byte("<p>fragment</p>")
	if got := InjectScript(in); string(got) != string(in) {
		t.Fatalf("expected unchanged fragment, got %s", got)
	}
}

func TestRebuildUpdatesStatus(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, Config{}, okBuilder(&calls))

	if err := srv.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	rec := get(t, srv.Handler(), statusPath)
	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Builds != 1 || status.PagesBuilt != 2 || status.Error != "" || calls.Load() != 1 {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestRebuildReportsFailure(t *testing.T) {
	buildErr := errors.New("loader exploded")
	srv := newTestServer(t, Config{}, builderFunc(func(context.Context, generator.BuildOptions) (*generator.BuildResult, error) {
		return nil, buildErr
	}))

	if err := srv.Rebuild(context.Background()); !errors.Is(err, buildErr) {
		t.Fatalf("expected build error, got %v", err)
	}
	if status := srv.Status(); status.Error != buildErr.Error() {
		t.Fatalf("expected error in status, got %+v", status)
	}
}

func TestIgnoredSkipsGeneratedOutputs(t *testing.T) {
	root := t.TempDir()
	srv, err := New(Config{Root: root}, Dependencies{
		Builder: builderFunc(func(context.Context, generator.BuildOptions) (*generator.BuildResult, error) {
			return &generator.BuildResult{
				Rendered:  []generator.RenderedPage{{Output: "blogs/a.html"}},
				Artifacts: []string{"static/search-index.json"},
			}, nil
		}),
		Files: siteFiles(),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := srv.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	cases := map[string]bool{
		filepath.Join(root, "blogs", "a.html"):             true,
		filepath.Join(root, "static", "search-index.json"): true,
		filepath.Join(root, "static", ".sitegen-123"):      true,
		filepath.Join(root, "content", "blogs", "post.md"): false,
		filepath.Join(root, "templates", "base.html"):      false,
	}
	for name, want := range cases {
		if got := srv.ignored(name); got != want {
			t.Errorf("ignored(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestRebuildBroadcastsReload(t *testing.T) {
	srv := newTestServer(t, Config{LiveReload: true}, nil)
	httpServer := httptest.NewServer(srv.Handler())
	defer httpServer.Close()

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + reloadPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().Count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := srv.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(message) != ReloadMessage {
		t.Fatalf("expected reload, got %q", message)
	}
}

func TestWatcherDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := newWatcher([]string{dir, filepath.Join(dir, "missing")}, 50*time.Millisecond, nil, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan string, 8)
	go w.run(ctx, func(p string) { changed <- p })

	target := filepath.Join(dir, "post.md")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte("# v"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	select {
	case p := <-changed:
		if filepath.Base(p) != "post.md" {
			t.Fatalf("unexpected changed path %s", p)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestStatusRejectsPost(t *testing.T) {
	srv := newTestServer(t, Config{}, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, statusPath, strings.NewReader("{}")))
	if rec.Code != http.StatusMethodNotAllowed {
		body, _ := io.ReadAll(rec.Body)
		t.Fatalf("expected 405, got %d %s", rec.Code, body)
	}
}
