package icons

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/elkdraw/elkdraw/pkg/cache"
	"github.com/elkdraw/elkdraw/pkg/httputil"
)

const (
	// DefaultBaseURL is the Iconify API endpoint serving icon documents.
	DefaultBaseURL = "https://api.iconify.design"

	// EnvCacheDir overrides the persistent icon cache location. Setting it
	// to an empty string disables the disk cache.
	EnvCacheDir = "ELKDRAW_ICON_CACHE_DIR"

	defaultFetchTimeout = 5 * time.Second
	userAgent           = "elkdraw/1.0"
)

// HTTPResolver fetches icons over HTTP with per-pass memoization and an
// optional persistent byte cache.
//
// Failures are memoized alongside successes, so an unreachable icon is
// attempted once per pass, not once per node. Disk-cache writes are
// best-effort; a corrupted cached document is detected on load, removed,
// and refetched.
//
// HTTPResolver is not goroutine-safe: each rendering pass owns its own
// instance.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
	store   cache.Cache
	memo    map[string]*Glyph
}

// HTTPOption configures an HTTPResolver.
type HTTPOption func(*HTTPResolver)

// WithBaseURL points the resolver at a different icon service.
func WithBaseURL(url string) HTTPOption {
	return func(r *HTTPResolver) { r.baseURL = url }
}

// WithClient replaces the HTTP client (and with it the fetch timeout).
func WithClient(c *http.Client) HTTPOption {
	return func(r *HTTPResolver) { r.client = c }
}

// WithStore attaches a persistent cache for fetched icon documents.
func WithStore(store cache.Cache) HTTPOption {
	return func(r *HTTPResolver) { r.store = store }
}

// NewHTTPResolver creates a resolver with a 5 second fetch timeout and no
// persistent cache.
func NewHTTPResolver(opts ...HTTPOption) *HTTPResolver {
	r := &HTTPResolver{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: defaultFetchTimeout},
		store:   cache.NewNullCache(),
		memo:    map[string]*Glyph{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fetches and parses the icon named name. Unresolvable icons
// (network failure, unknown name, malformed content) yield (nil, nil) and
// are remembered as unavailable for the rest of the pass.
func (r *HTTPResolver) Resolve(ctx context.Context, name string) (*Glyph, error) {
	if glyph, seen := r.memo[name]; seen {
		return glyph, nil
	}

	glyph := r.resolve(ctx, name)
	r.memo[name] = glyph
	return glyph, nil
}

func (r *HTTPResolver) resolve(ctx context.Context, name string) *Glyph {
	if data, hit, _ := r.store.Get(ctx, name); hit {
		if glyph, err := ParseGlyph(string(data)); err == nil {
			return glyph
		}
		// Corrupted entry: heal by refetching.
		_ = r.store.Delete(ctx, name)
	}

	text, err := r.fetch(ctx, name)
	if err != nil {
		return nil
	}
	glyph, err := ParseGlyph(text)
	if err != nil {
		return nil
	}

	_ = r.store.Set(ctx, name, []byte(text), 0)
	return glyph
}

func (r *HTTPResolver) fetch(ctx context.Context, name string) (string, error) {
	url := r.baseURL + "/" + name + ".svg"
	headers := map[string]string{"User-Agent": userAgent}

	var text string
	err := httputil.Retry(ctx, 2, 200*time.Millisecond, func() error {
		var err error
		text, err = httputil.GetText(ctx, r.client, url, headers)
		return err
	})
	return text, err
}

// DefaultCacheDir resolves the persistent icon cache directory. The second
// return value is false when caching is disabled (explicit empty override,
// or no usable base directory).
//
// Resolution order: EnvCacheDir override, $XDG_CACHE_HOME, %LOCALAPPDATA%,
// then ~/.cache; the non-override bases get an elkdraw/icons suffix.
func DefaultCacheDir() (string, bool) {
	if dir, set := os.LookupEnv(EnvCacheDir); set {
		if dir == "" {
			return "", false
		}
		return dir, true
	}
	if base := os.Getenv("XDG_CACHE_HOME"); base != "" {
		return filepath.Join(base, "elkdraw", "icons"), true
	}
	if base := os.Getenv("LOCALAPPDATA"); base != "" {
		return filepath.Join(base, "elkdraw", "icons"), true
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".cache", "elkdraw", "icons"), true
	}
	return "", false
}
