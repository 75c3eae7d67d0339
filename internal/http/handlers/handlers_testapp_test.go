package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/reading-tracker/backend/internal/app"
	"github.com/gabriel/reading-tracker/backend/internal/config"
	"github.com/gabriel/reading-tracker/backend/internal/database"
	apihttp "github.com/gabriel/reading-tracker/backend/internal/http"
)

const seriesPage = `<html><head>
<title>Solo Leveling - Read Free Manhwa Online</title>
<meta property="og:description" content="Hunters and gates.">
<meta property="og:image" content="/cover.jpg">
</head><body>
<div><b>Genres:</b> <span><span>Action</span><span>Action</span><span>Fantasy</span></span></div>
<div><b>Type:</b> <span>Manhwa</span></div>
<div data-name="chapter-list">
  <div><a href="/title/1-solo/1-ch">Chapter 1</a><time data-time="1000"></time></div>
  <div><a href="/title/1-solo/2-ch">Chapter 2</a><time data-time="2000"></time></div>
</div>
</body></html>`

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/title/1-solo":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(seriesPage))
		case "/cover.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte("jpeg-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func setupTestApp(t *testing.T) (*sql.DB, *fiber.App, func()) {
	t.Helper()

	tmpDir := t.TempDir()
	db, err := database.Open(filepath.Join(tmpDir, "test.sqlite"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := database.ApplyMigrations(context.Background(), db, database.MigrationSource("")); err != nil {
		_ = db.Close()
		t.Fatalf("apply migrations: %v", err)
	}

	tuning := config.DefaultTuning()
	tuning.BatchDelay = 0
	cfg := config.Config{
		AppName:            "test-app",
		Tuning:             tuning,
		CoverMirrorDir:     filepath.Join(tmpDir, "covers"),
		CoverMirrorBaseURL: "/covers",
	}

	services, err := app.New(cfg, db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		_ = db.Close()
		t.Fatalf("build services: %v", err)
	}
	server := apihttp.NewServer(services)

	cleanup := func() {
		_ = server.Shutdown()
		_ = db.Close()
	}

	return db, server, cleanup
}

func doJSON(t *testing.T, server *fiber.App, req *http.Request, wantStatus int) map[string]any {
	t.Helper()

	res, err := server.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != wantStatus {
		body, _ := io.ReadAll(res.Body)
		t.Fatalf("%s %s: expected %d, got %d: %s", req.Method, req.URL.Path, wantStatus, res.StatusCode, body)
	}

	var payload map[string]any
	if res.StatusCode == http.StatusNoContent {
		return payload
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}
