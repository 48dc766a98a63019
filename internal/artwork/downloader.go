// ABOUTME: Artwork fetcher for whisper gift images
// ABOUTME: Decodes data: URLs and downloads http(s) images into a hash-keyed cache
package artwork

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrUnsupportedURL is returned for schemes other than data, http and https
var ErrUnsupportedURL = errors.New("unsupported artwork URL")

// Downloader manages artwork downloads
type Downloader struct {
	cacheDir    string
	currentPath string
	client      *http.Client
	logger      *zap.Logger
}

// NewDownloader creates a downloader caching into cacheDir (default: a temp subdirectory)
func NewDownloader(cacheDir string, logger *zap.Logger) (*Downloader, error) {
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "whisper-artwork")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Downloader{
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}, nil
}

// Download resolves an image URL to a cached file path
func (d *Downloader) Download(rawURL string) (string, error) {
	if rawURL == "" {
		return "", nil
	}

	switch {
	case strings.HasPrefix(rawURL, "data:"):
		return d.saveDataURL(rawURL)
	case strings.HasPrefix(rawURL, "http://"), strings.HasPrefix(rawURL, "https://"):
		return d.fetch(rawURL)
	default:
		return "", fmt.Errorf("%w: %.32s", ErrUnsupportedURL, rawURL)
	}
}

// Export resolves rawURL and copies the image to dest
func (d *Downloader) Export(rawURL, dest string) error {
	path, err := d.Download(rawURL)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New("gift has no image")
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	d.logger.Info("Artwork exported", zap.String("path", dest))
	return out.Close()
}

// cachePath maps a URL to its cache file
func (d *Downloader) cachePath(key, ext string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(d.cacheDir, fmt.Sprintf("%x%s", hash[:8], ext))
}

// cached reports a cache hit and records it as current
func (d *Downloader) cached(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	d.logger.Debug("Artwork cache hit", zap.String("path", path))
	d.currentPath = path
	return true
}

// saveDataURL decodes a base64 data: URL
func (d *Downloader) saveDataURL(rawURL string) (string, error) {
	meta, data, ok := strings.Cut(strings.TrimPrefix(rawURL, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", fmt.Errorf("%w: data URL must be base64 encoded", ErrUnsupportedURL)
	}

	cachePath := d.cachePath(rawURL, extensionForMIME(strings.TrimSuffix(meta, ";base64")))
	if d.cached(cachePath) {
		return cachePath, nil
	}

	image, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode data URL: %w", err)
	}

	if err := os.WriteFile(cachePath, image, 0644); err != nil {
		return "", fmt.Errorf("failed to save artwork: %w", err)
	}

	d.logger.Info("Artwork decoded", zap.String("path", cachePath), zap.Int("bytes", len(image)))
	d.currentPath = cachePath
	return cachePath, nil
}

// fetch downloads an http(s) image
func (d *Downloader) fetch(rawURL string) (string, error) {
	cachePath := d.cachePath(rawURL, getExtension(rawURL))
	if d.cached(cachePath) {
		return cachePath, nil
	}

	d.logger.Info("Downloading artwork", zap.String("url", rawURL))
	resp, err := d.client.Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to download artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("artwork download failed: HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(cachePath)
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(cachePath)
		return "", fmt.Errorf("failed to save artwork: %w", err)
	}

	d.logger.Info("Artwork saved", zap.String("path", cachePath))
	d.currentPath = cachePath
	return cachePath, nil
}

// CurrentPath returns the path to the current artwork
func (d *Downloader) CurrentPath() string {
	return d.currentPath
}

// getExtension extracts file extension from URL
func getExtension(rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}

	ext := filepath.Ext(path)
	if ext == "" {
		ext = ".jpg" // Default to JPEG
	}

	return ext
}

// extensionForMIME maps an image MIME type to a file extension
func extensionForMIME(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// Cleanup removes cached artwork
func (d *Downloader) Cleanup() error {
	return os.RemoveAll(d.cacheDir)
}
