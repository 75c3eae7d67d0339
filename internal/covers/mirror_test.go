package covers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cover.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("\x89PNG fake"))
		case "/no-head.jpg":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte("jpeg"))
		case "/page.html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAccessible(t *testing.T) {
	server := imageServer(t)
	mirror := NewMirror(Options{}, discardLogger())
	ctx := context.Background()

	if !mirror.Accessible(ctx, server.URL+"/cover.png") {
		t.Fatalf("expected cover to be accessible")
	}
	if !mirror.Accessible(ctx, server.URL+"/no-head.jpg") {
		t.Fatalf("expected GET fallback when HEAD is rejected")
	}
	if mirror.Accessible(ctx, server.URL+"/missing.jpg") {
		t.Fatalf("expected missing cover to be inaccessible")
	}
}

func TestRehostStoresDeterministicCopy(t *testing.T) {
	server := imageServer(t)
	dir := t.TempDir()
	mirror := NewMirror(Options{Dir: dir, BaseURL: "http://localhost:8080/covers/"}, discardLogger())

	source := server.URL + "/cover.png"
	rehosted := mirror.Rehost(context.Background(), source)

	name := uuid.NewSHA1(uuid.NameSpaceURL, []byte(source)).String() + ".png"
	if rehosted != "http://localhost:8080/covers/"+name {
		t.Fatalf("unexpected rehosted url %q", rehosted)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if !strings.HasPrefix(string(data), "\x89PNG") {
		t.Fatalf("unexpected copy contents %q", data)
	}

	if again := mirror.Rehost(context.Background(), rehosted); again != rehosted {
		t.Fatalf("expected local url to be returned as is, got %q", again)
	}
	if !mirror.Accessible(context.Background(), rehosted) {
		t.Fatalf("expected local copy to be accessible")
	}
}

func TestRehostReturnsOriginalOnFailure(t *testing.T) {
	server := imageServer(t)
	mirror := NewMirror(Options{Dir: t.TempDir(), BaseURL: "http://localhost/covers"}, discardLogger())

	for _, source := range []string{
		server.URL + "/missing.jpg",
		server.URL + "/page.html",
		"://bad-url",
	} {
		if got := mirror.Rehost(context.Background(), source); got != source {
			t.Fatalf("expected original %q, got %q", source, got)
		}
	}
}

func TestRehostDisabledWithoutDir(t *testing.T) {
	server := imageServer(t)
	mirror := NewMirror(Options{}, discardLogger())

	source := server.URL + "/cover.png"
	if got := mirror.Rehost(context.Background(), source); got != source {
		t.Fatalf("expected original url when disabled, got %q", got)
	}
}

func TestRehostRejectsOversizedImage(t *testing.T) {
	server := imageServer(t)
	dir := t.TempDir()
	mirror := NewMirror(Options{Dir: dir, BaseURL: "http://localhost/covers", MaxBytes: 4}, discardLogger())

	source := server.URL + "/cover.png"
	if got := mirror.Rehost(context.Background(), source); got != source {
		t.Fatalf("expected original url for oversized image, got %q", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files left behind, got %d", len(entries))
	}
}
