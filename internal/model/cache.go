package model

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/example/go-german-tts/internal/onnx"
	"github.com/spf13/afero"
)

// Cache keeps extracted model archives under Root, one subdirectory per
// archive. A present subdirectory counts as downloaded; there is no
// versioning or invalidation.
type Cache struct {
	Fs      afero.Fs
	Root    string
	BaseURL string
	Client  *http.Client
	Stdout  io.Writer
}

// NewCache returns a cache on the host filesystem.
func NewCache(root, baseURL string) *Cache {
	return &Cache{
		Fs:      afero.NewOsFs(),
		Root:    root,
		BaseURL: baseURL,
		Client:  &http.Client{},
		Stdout:  io.Discard,
	}
}

// Dir is where a's contents live once extracted.
func (c *Cache) Dir(a Archive) string {
	return filepath.Join(c.Root, a.Subdir)
}

// Present reports whether a has already been extracted.
func (c *Cache) Present(a Archive) bool {
	ok, err := afero.DirExists(c.Fs, c.Dir(a))
	return err == nil && ok
}

// Ensure downloads and extracts a unless its directory already exists.
// Failures leave no directory behind, so a later call retries from scratch.
func (c *Cache) Ensure(ctx context.Context, a Archive) (string, error) {
	dir := c.Dir(a)
	if c.Present(a) {
		slog.Debug("model archive cached", "archive", a.Name, "dir", dir)
		return dir, nil
	}

	if c.Root == "" {
		return "", errors.New("cache root is required")
	}
	if a.SHA256 != "" && !isSHA256Hex(a.SHA256) {
		return "", fmt.Errorf("archive %s: invalid pinned sha256 %q", a.Name, a.SHA256)
	}

	url, err := a.URL(c.BaseURL)
	if err != nil {
		return "", err
	}

	if err := c.Fs.MkdirAll(c.Root, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	start := time.Now()
	archivePath := filepath.Join(c.Root, a.Name)
	fmt.Fprintf(c.stdout(), "download %s -> %s\n", url, archivePath)

	sum, err := download(ctx, c.client(), c.Fs, url, archivePath, a.SHA256, c.stdout())
	if err != nil {
		return "", fmt.Errorf("download %s: %w", a.Name, err)
	}
	defer func() { _ = c.Fs.Remove(archivePath) }()

	f, err := c.Fs.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", archivePath, err)
	}
	defer f.Close()

	if err := extractTarGz(c.Fs, f, dir); err != nil {
		_ = c.Fs.RemoveAll(dir)
		return "", fmt.Errorf("extract %s: %w", a.Name, err)
	}

	fmt.Fprintf(c.stdout(), "extracted %s (sha256=%s)\n", a.Name, sum)
	slog.Info("model archive ready", "archive", a.Name, "dir", dir, "elapsed", time.Since(start))

	return dir, nil
}

// Graphs holds the ONNX graph paths of a variant.
type Graphs struct {
	Acoustic string
	Vocoder  string
}

// EnsureAll makes every archive of m available and locates its graphs.
func (c *Cache) EnsureAll(ctx context.Context, m Manifest) (Graphs, error) {
	for _, a := range m.Archives {
		if _, err := c.Ensure(ctx, a); err != nil {
			return Graphs{}, err
		}
	}

	return c.Graphs(m)
}

// Graphs locates the graphs of m in the cache without downloading.
func (c *Cache) Graphs(m Manifest) (Graphs, error) {
	var g Graphs
	for _, a := range m.Archives {
		p, err := FindGraph(c.Fs, c.Dir(a))
		if err != nil {
			return Graphs{}, fmt.Errorf("archive %s: %w", a.Name, err)
		}

		switch a.Graph {
		case onnx.GraphAcoustic:
			g.Acoustic = p
		case onnx.GraphVocoder:
			g.Vocoder = p
		default:
			return Graphs{}, fmt.Errorf("archive %s: unknown graph role %q", a.Name, a.Graph)
		}
	}

	return g, nil
}

func (c *Cache) client() *http.Client {
	if c.Client == nil {
		return http.DefaultClient
	}
	return c.Client
}

func (c *Cache) stdout() io.Writer {
	if c.Stdout == nil {
		return io.Discard
	}
	return c.Stdout
}
