// Package covers checks cover images and keeps local copies of them.
package covers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

const defaultMaxBytes = 8 << 20

var extensionsByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/avif": ".avif",
}

var errNotImage = errors.New("response is not an image")

type Options struct {
	// Dir is where copies are written. Empty disables re-hosting.
	Dir       string
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	MaxBytes  int64
	Client    *http.Client
}

type Mirror struct {
	dir       string
	baseURL   string
	userAgent string
	maxBytes  int64
	client    *http.Client
	logger    *slog.Logger
}

func NewMirror(opts Options, logger *slog.Logger) *Mirror {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Mirror{
		dir:       strings.TrimSpace(opts.Dir),
		baseURL:   strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBytes,
		client:    client,
		logger:    logger,
	}
}

// Accessible reports whether imageURL answers with a 2xx. Hosts that reject
// HEAD get a GET before the image is declared broken.
func (m *Mirror) Accessible(ctx context.Context, imageURL string) bool {
	if m.isLocal(imageURL) {
		_, err := os.Stat(filepath.Join(m.dir, filepath.Base(imageURL)))
		return err == nil
	}

	for _, method := range []string{http.MethodHead, http.MethodGet} {
		res, err := m.do(ctx, method, imageURL)
		if err != nil {
			continue
		}
		res.Body.Close()
		if res.StatusCode >= 200 && res.StatusCode < 300 {
			return true
		}
	}
	return false
}

// Rehost copies imageURL into the mirror directory and returns the copy's
// public URL. Any failure returns imageURL unchanged.
func (m *Mirror) Rehost(ctx context.Context, imageURL string) string {
	if m.dir == "" || m.baseURL == "" || m.isLocal(imageURL) {
		return imageURL
	}

	name, size, err := m.store(ctx, imageURL)
	if err != nil {
		m.logger.Warn("cover rehost failed", "url", imageURL, "error", err)
		return imageURL
	}

	m.logger.Debug("cover rehosted", "url", imageURL, "file", name, "size", humanize.Bytes(uint64(size)))
	return m.baseURL + "/" + name
}

func (m *Mirror) store(ctx context.Context, imageURL string) (string, int64, error) {
	res, err := m.do(ctx, http.MethodGet, imageURL)
	if err != nil {
		return "", 0, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", 0, fmt.Errorf("download cover: status %d", res.StatusCode)
	}
	ext, err := extensionFor(res.Header.Get("Content-Type"))
	if err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create cover dir: %w", err)
	}

	// Same source URL, same file name.
	name := uuid.NewSHA1(uuid.NameSpaceURL, []byte(imageURL)).String() + ext

	tmp, err := os.CreateTemp(m.dir, ".cover-*")
	if err != nil {
		return "", 0, fmt.Errorf("create temp cover: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, io.LimitReader(res.Body, m.maxBytes+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", 0, fmt.Errorf("write cover: %w", err)
	}
	if size > m.maxBytes {
		return "", 0, fmt.Errorf("cover exceeds %s", humanize.Bytes(uint64(m.maxBytes)))
	}
	if size == 0 {
		return "", 0, errors.New("cover is empty")
	}

	if err := os.Rename(tmp.Name(), filepath.Join(m.dir, name)); err != nil {
		return "", 0, fmt.Errorf("move cover into place: %w", err)
	}
	return name, size, nil
}

func (m *Mirror) do(ctx context.Context, method string, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", strings.ToLower(method), err)
	}
	if m.userAgent != "" {
		req.Header.Set("User-Agent", m.userAgent)
	}
	req.Header.Set("Accept", "image/avif,image/webp,image/*,*/*;q=0.8")
	return m.client.Do(req)
}

func (m *Mirror) isLocal(imageURL string) bool {
	return m.baseURL != "" && m.dir != "" && strings.HasPrefix(imageURL, m.baseURL+"/")
}

func extensionFor(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("%w: %q", errNotImage, contentType)
	}
	if ext, ok := extensionsByType[mediaType]; ok {
		return ext, nil
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0], nil
	}
	return ".img", nil
}
