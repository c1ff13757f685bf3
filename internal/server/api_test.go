package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/banger/internal/models"
	"github.com/desertthunder/banger/internal/repositories"
	"github.com/desertthunder/banger/internal/shared"
	"github.com/desertthunder/banger/internal/tasks"
	tu "github.com/desertthunder/banger/internal/testing"
	"github.com/goccy/go-json"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func catalogFor(path string) *tasks.Catalog {
	logger := shared.NewLogger(io.Discard)
	repo := repositories.NewDocumentRepository(path, repositories.DocumentOpts{Sleep: noSleep, Logger: logger})
	return tasks.NewCatalog(repo, logger)
}

func newTestAPI(t *testing.T, path string, opts ...func(*APIOpts)) *BasicRouter {
	t.Helper()
	o := APIOpts{
		Songs:  catalogFor(path),
		Stats:  catalogFor(path),
		Logger: shared.NewLogger(io.Discard),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return NewAPI(o)
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestSongsEndpoint(t *testing.T) {
	t.Run("returns normalized songs", func(t *testing.T) {
		path := tu.WriteDocument(t, map[string]any{
			"_default": map[string]any{
				"1": map[string]any{
					"youtube_url": "https://youtu.be/abc12345678",
					"song_title":  "Test",
					"user":        map[string]any{"first_name": "Ann"},
				},
				"2": map[string]any{"youtube_url": "https://youtu.be/abc12345679"},
			},
		})

		rec := do(newTestAPI(t, path), http.MethodGet, "/api/songs")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %s", ct)
		}

		songs := decode[[]models.SongResponse](t, rec)
		if len(songs) != 1 {
			t.Fatalf("expected 1 song, got %d", len(songs))
		}
		s := songs[0]
		if s.ID != "https://youtu.be/abc12345678" || s.YouTubeID != "abc12345678" || s.AddedBy != "Ann" || s.Artist != "Unknown Artist" {
			t.Errorf("unexpected song %+v", s)
		}
	})

	t.Run("uses external field names", func(t *testing.T) {
		path := tu.WriteDocument(t, map[string]any{"_default": map[string]any{
			"1": tu.SongEntry("https://youtu.be/abc12345678", "Test", "Ann", "Lee"),
		}})

		body := do(newTestAPI(t, path), http.MethodGet, "/api/songs").Body.String()
		for _, key := range []string{"id", "title", "artist", "youtubeId", "thumbnailUrl", "plays", "likes", "dislikes", "date", "addedBy"} {
			if !strings.Contains(body, `"`+key+`":`) {
				t.Errorf("expected key %s in %s", key, body)
			}
		}
	})

	t.Run("empty database is an empty array", func(t *testing.T) {
		path := tu.WriteFile(t, "db.json", `{}`)
		rec := do(newTestAPI(t, path), http.MethodGet, "/api/songs")
		if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Errorf("expected 200 with [], got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing file is 404", func(t *testing.T) {
		rec := do(newTestAPI(t, filepath.Join(t.TempDir(), "db.json")), http.MethodGet, "/api/songs")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if body := decode[models.ErrorResponse](t, rec); body.Error != "Database file not found" {
			t.Errorf("unexpected body %+v", body)
		}
	})

	t.Run("malformed file is 500 without leaking the path", func(t *testing.T) {
		path := tu.WriteFile(t, "db.json", `{"_default": {`)
		rec := do(newTestAPI(t, path), http.MethodGet, "/api/songs")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}

		body := decode[models.ErrorResponse](t, rec)
		if body.Error == "" || body.Details != shared.ErrMalformedSource.Error() {
			t.Errorf("unexpected body %+v", body)
		}
		if strings.Contains(rec.Body.String(), filepath.Dir(path)) {
			t.Errorf("response leaks path: %s", rec.Body.String())
		}
	})

	t.Run("non-object document is 500", func(t *testing.T) {
		path := tu.WriteFile(t, "db.json", `"songs"`)
		rec := do(newTestAPI(t, path), http.MethodGet, "/api/songs")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if body := decode[models.ErrorResponse](t, rec); body.Details != shared.ErrInvalidFormat.Error() {
			t.Errorf("unexpected details %q", body.Details)
		}
	})

	t.Run("rejects other methods", func(t *testing.T) {
		path := tu.WriteFile(t, "db.json", `{}`)
		rec := do(newTestAPI(t, path), http.MethodPost, "/api/songs")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if rec.Header().Get("Allow") != http.MethodGet {
			t.Errorf("expected Allow: GET, got %q", rec.Header().Get("Allow"))
		}
	})

	t.Run("answers HEAD", func(t *testing.T) {
		path := tu.WriteFile(t, "db.json", `{}`)
		if rec := do(newTestAPI(t, path), http.MethodHead, "/api/songs"); rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	t.Run("counts shares per user", func(t *testing.T) {
		table := map[string]any{}
		for i, u := range []string{"A", "A", "B", "A"} {
			id := string(rune('1' + i))
			table[id] = tu.SongEntry("https://youtu.be/abc1234567"+id, "Song "+id, u, "")
		}
		path := tu.WriteDocument(t, map[string]any{"_default": table})

		rec := do(newTestAPI(t, path), http.MethodGet, "/api/songs/stats")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		stats := decode[models.Stats](t, rec)
		if stats.TotalSongs != 4 {
			t.Errorf("expected 4 songs, got %d", stats.TotalSongs)
		}
		want := []models.UserStat{{Username: "A", Shares: 3}, {Username: "B", Shares: 1}}
		if len(stats.UserStats) != 2 || stats.UserStats[0] != want[0] || stats.UserStats[1] != want[1] {
			t.Errorf("expected %v, got %v", want, stats.UserStats)
		}
	})

	t.Run("missing file is zeroed stats", func(t *testing.T) {
		rec := do(newTestAPI(t, filepath.Join(t.TempDir(), "db.json")), http.MethodGet, "/api/songs/stats")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != `{"totalSongs":0,"userStats":[]}` {
			t.Errorf("unexpected body %s", body)
		}
	})

	t.Run("malformed file is 500", func(t *testing.T) {
		path := tu.WriteFile(t, "db.json", `not json at all`)
		rec := do(newTestAPI(t, path), http.MethodGet, "/api/songs/stats")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if body := decode[models.ErrorResponse](t, rec); body.Error != "Failed to generate statistics" || body.Details != "" {
			t.Errorf("unexpected body %+v", body)
		}
	})
}

func TestRouter(t *testing.T) {
	path := tu.WriteFile(t, "db.json", `{}`)

	t.Run("health", func(t *testing.T) {
		rec := do(newTestAPI(t, path), http.MethodGet, "/health")
		if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"status":"ok"}` {
			t.Errorf("unexpected health response %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown path is JSON 404", func(t *testing.T) {
		rec := do(newTestAPI(t, path), http.MethodGet, "/api/unknown")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if body := decode[models.ErrorResponse](t, rec); body.Error != "Not found" {
			t.Errorf("unexpected body %+v", body)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		api := newTestAPI(t, path)
		do(api, http.MethodGet, "/api/songs")

		rec := do(api, http.MethodGet, "/metrics")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `banger_http_requests_total{method="GET",route="/api/songs",status="200"} 1`) {
			t.Errorf("expected request counter in metrics output")
		}
		if !strings.Contains(body, `banger_normalized_entries{outcome="valid",source="songs"} 0`) {
			t.Errorf("expected normalization gauge in metrics output")
		}
	})

	t.Run("request id is generated and propagated", func(t *testing.T) {
		api := newTestAPI(t, path)
		if rec := do(api, http.MethodGet, "/health"); rec.Header().Get(RequestIDHeader) == "" {
			t.Error("expected generated request id")
		}

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, req)
		if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
			t.Errorf("expected propagated id, got %q", got)
		}
	})

	t.Run("cors preflight", func(t *testing.T) {
		api := newTestAPI(t, path, func(o *APIOpts) { o.CORSOrigins = []string{"http://localhost:5173"} })

		req := httptest.NewRequest(http.MethodOptions, "/api/songs", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("expected allowed origin header, got %q (status %d)", got, rec.Code)
		}
	})

	t.Run("rate limit", func(t *testing.T) {
		api := newTestAPI(t, path, func(o *APIOpts) {
			o.RateLimit = 0.001
			o.RateBurst = 1
		})

		if rec := do(api, http.MethodGet, "/health"); rec.Code != http.StatusOK {
			t.Fatalf("expected first request to pass, got %d", rec.Code)
		}
		if rec := do(api, http.MethodGet, "/health"); rec.Code != http.StatusTooManyRequests {
			t.Errorf("expected 429, got %d", rec.Code)
		}
	})

	t.Run("recovers from panics", func(t *testing.T) {
		r := NewBasicRouter()
		r.Use(Recover(shared.NewLogger(io.Discard)))
		r.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := do(r, http.MethodGet, "/boom")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var calls []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					calls = append(calls, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mw("first"), mw("second"))
		r.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		do(r, http.MethodGet, "/")

		if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
			t.Errorf("unexpected order %v", calls)
		}
	})
}

func TestServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	srv := NewServer(ln.Addr().String(), http.HandlerFunc(Health), shared.NewLogger(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
