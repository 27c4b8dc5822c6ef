package model

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/afero"
)

var shaHexPattern = regexp.MustCompile(`(?i)^[a-f0-9]{64}$`)

// progressInterval throttles progress lines.
const progressInterval = 700 * time.Millisecond

// download streams url into outPath on fs through a ".tmp" sibling and
// returns the sha256 of the body. A non-empty expected checksum must match.
func download(ctx context.Context, client *http.Client, fs afero.Fs, url, outPath, expected string, stdout io.Writer) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("download failed for %s: %s", url, resp.Status)
	}

	tmp := outPath + ".tmp"
	fh, err := fs.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	h := sha256.New()
	pw := &progressWriter{out: stdout, total: resp.ContentLength, last: time.Now()}

	if _, err := io.Copy(io.MultiWriter(fh, h, pw), resp.Body); err != nil {
		_ = fh.Close()
		_ = fs.Remove(tmp)
		return "", fmt.Errorf("download read failed: %w", err)
	}

	if err := fh.Close(); err != nil {
		_ = fs.Remove(tmp)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	actual := hex.EncodeToString(h.Sum(nil))
	if expected != "" && !strings.EqualFold(actual, expected) {
		_ = fs.Remove(tmp)
		return "", fmt.Errorf("checksum mismatch for %s: expected %s got %s", url, strings.ToLower(expected), actual)
	}

	if err := fs.Rename(tmp, outPath); err != nil {
		_ = fs.Remove(tmp)
		return "", fmt.Errorf("move temp file into place: %w", err)
	}

	return actual, nil
}

type progressWriter struct {
	out     io.Writer
	total   int64
	written int64
	last    time.Time
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if time.Since(p.last) > progressInterval {
		if p.total > 0 {
			pct := float64(p.written) * 100 / float64(p.total)
			fmt.Fprintf(p.out, "  progress: %.1f%% (%d/%d bytes)\n", pct, p.written, p.total)
		} else {
			fmt.Fprintf(p.out, "  progress: %d bytes\n", p.written)
		}
		p.last = time.Now()
	}

	return len(b), nil
}

func isSHA256Hex(v string) bool {
	return shaHexPattern.MatchString(v)
}
