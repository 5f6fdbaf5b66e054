// Package fetch materializes remote release assets on local storage.
//
// An asset is fetched at most once: if its local path exists, nothing is
// requested. Failures are reported as notices and never returned to the
// caller, who must check the path again before using it.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/alnah/go-primarybrief/internal/fileutil"
)

// Sentinel errors carried in failure notices and logs.
var (
	ErrRequest    = errors.New("request failed")
	ErrHTTPStatus = errors.New("unexpected HTTP status")
	ErrWrite      = errors.New("failed to write asset")
)

// DefaultTimeout bounds a single download when the caller provides no client.
const DefaultTimeout = 2 * time.Minute

// Materializer downloads missing assets from a fixed base URL.
type Materializer struct {
	baseURL  string
	origin   string
	client   *http.Client
	notifier Notifier
	logger   *zap.Logger
	group    singleflight.Group
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithHTTPClient sets the client used for downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Materializer) {
		if c != nil {
			m.client = c
		}
	}
}

// WithNotifier sets where viewer-facing notices are sent.
func WithNotifier(n Notifier) Option {
	return func(m *Materializer) {
		if n != nil {
			m.notifier = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Materializer) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Materializer fetching from baseURL + remote name.
// baseURL is used verbatim, so it normally ends with a slash.
func New(baseURL string, opts ...Option) *Materializer {
	m := &Materializer{
		baseURL:  baseURL,
		origin:   originLabel(baseURL),
		client:   &http.Client{Timeout: DefaultTimeout},
		notifier: discard{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// originLabel names the asset host for viewers.
func originLabel(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	host := strings.ToLower(u.Hostname())
	if host == "github.com" || strings.HasSuffix(host, ".github.com") {
		return "GitHub Releases"
	}
	return u.Host
}

// BaseURL returns the origin assets are fetched from.
func (m *Materializer) BaseURL() string {
	return m.baseURL
}

// EnsureLocal guarantees a download attempt for localPath if it is absent and
// returns localPath regardless of the outcome. An existing path is returned
// without any network access or freshness check.
func (m *Materializer) EnsureLocal(ctx context.Context, remoteName, localPath string) string {
	if exists(localPath) {
		return localPath
	}

	// Callers racing on the same path share one download.
	_, _, _ = m.group.Do(localPath, func() (any, error) {
		if exists(localPath) {
			return nil, nil
		}
		m.fetch(ctx, remoteName, localPath)
		return nil, nil
	})

	return localPath
}

// fetch downloads one asset and reports the outcome as notices.
func (m *Materializer) fetch(ctx context.Context, remoteName, localPath string) {
	url := m.baseURL + remoteName
	log := m.logger.With(zap.String("asset", remoteName), zap.String("url", url), zap.String("path", localPath))

	m.notifier.Notify(Notice{Level: LevelInfo, Message: fmt.Sprintf("Fetching %s from %s…", remoteName, m.origin)})
	log.Info("fetching asset")

	start := time.Now()
	n, err := m.download(ctx, url, localPath)
	if err != nil {
		m.notifier.Notify(Notice{
			Level:   LevelError,
			Message: fmt.Sprintf("Failed to fetch %s from %s: %v", remoteName, url, err),
		})
		log.Warn("asset fetch failed", zap.Error(err))
		return
	}

	m.notifier.Notify(Notice{Level: LevelSuccess, Message: "Downloaded " + remoteName})
	log.Info("asset downloaded", zap.Int("bytes", n), zap.Duration("elapsed", time.Since(start)))
}

// download performs one GET and writes the whole body to localPath.
func (m *Materializer) download(ctx context.Context, url, localPath string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRequest, err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return 0, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: reading body: %v", ErrRequest, err)
	}

	if err := fileutil.WriteFileAll(localPath, body); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return len(body), nil
}

// exists reports whether anything is present at path.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
