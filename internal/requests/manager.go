package requests

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yinchen618/pu-in-practice/internal/metrics"
)

const (
	cacheKeyPrefix = "pu:req:"
	maxBodyBytes   = 8 << 20
	maxErrorBody   = 512
)

// Manager issues GET requests against the training backend. Callers opt in
// per request to response caching and to coalescing of identical in-flight
// requests.
type Manager struct {
	client *http.Client
	cache  Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

type options struct {
	op     string
	cache  bool
	dedupe bool
}

type Option func(*options)

// WithCache serves the response from the cache when fresh and stores
// successful responses.
func WithCache() Option {
	return func(o *options) { o.cache = true }
}

// WithDedupe shares one network call between concurrent identical requests.
func WithDedupe() Option {
	return func(o *options) { o.dedupe = true }
}

// WithOp names the request in logs and metrics.
func WithOp(op string) Option {
	return func(o *options) { o.op = op }
}

// NewManager builds a request manager. cache may be nil and a ttl <= 0
// disables caching.
func NewManager(client *http.Client, cache Cache, ttl time.Duration, logger *zap.Logger) *Manager {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		client: client,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the body of a successful GET to url. The returned slice is
// owned by the caller.
func (m *Manager) Get(ctx context.Context, url string, opts ...Option) ([]byte, error) {
	o := options{op: "get"}
	for _, opt := range opts {
		opt(&o)
	}
	useCache := o.cache && m.cache != nil && m.ttl > 0
	key := cacheKeyPrefix + url

	if useCache {
		body, ok, err := m.cache.Get(ctx, key)
		if err != nil {
			m.logger.Warn("Response cache lookup failed", zap.String("op", o.op), zap.String("url", url), zap.Error(err))
		}
		metrics.CacheLookup(ok)
		if ok {
			return body, nil
		}
	}

	fetch := func(ctx context.Context) ([]byte, error) {
		body, err := m.do(ctx, url, o.op)
		if err != nil {
			return nil, err
		}
		if useCache {
			if err := m.cache.Set(ctx, key, body, m.ttl); err != nil {
				m.logger.Warn("Response cache store failed", zap.String("op", o.op), zap.String("url", url), zap.Error(err))
			}
		}
		return body, nil
	}

	if !o.dedupe {
		return fetch(ctx)
	}

	// the shared call must outlive any single caller's cancellation
	ch := m.group.DoChan(key, func() (interface{}, error) {
		return fetch(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, &Error{URL: url, Kind: KindTransport, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		body := res.Val.([]byte)
		return append([]byte(nil), body...), nil
	}
}

func (m *Manager) do(ctx context.Context, url, op string) ([]byte, error) {
	start := time.Now()
	body, err := m.roundTrip(ctx, url)

	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
	}
	metrics.ObserveUpstream(op, outcome, time.Since(start))
	return body, err
}

func (m *Manager) roundTrip(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{URL: url, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: url, Kind: KindTransport, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := strings.TrimSpace(string(body))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &Error{URL: url, Kind: KindStatus, StatusCode: resp.StatusCode, Body: text}
	}

	return body, nil
}
