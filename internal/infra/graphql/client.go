package graphql

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"
	"github.com/rs/zerolog"

	domain "github.com/bryanwahyu/compliance-view/internal/domain/compliance"
	"github.com/bryanwahyu/compliance-view/internal/infra/cache"
)

// DefaultAPIRoot is where the compliance service is mounted on the platform.
const DefaultAPIRoot = "/r/insights/platform/compliance"

// Fetch outcomes reported to a Recorder.
const (
	OutcomeCacheHit       = "cache_hit"
	OutcomeNetworkSuccess = "network_success"
	OutcomeNetworkError   = "network_error"
)

// Recorder observes every QuerySystem call.
type Recorder interface {
	ObserveFetch(outcome string, d time.Duration)
}

// Endpoint joins the platform base URL, the API root and /graphql.
func Endpoint(baseURL, apiRoot string) string {
	if apiRoot == "" {
		apiRoot = DefaultAPIRoot
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.Trim(apiRoot, "/") + "/graphql"
}

// Client sends the system query and keeps responses in a Store, keyed by
// query text and variables. It never retries.
type Client struct {
	gql      *graphql.Client
	store    domain.Store
	endpoint string
	log      zerolog.Logger
	recorder Recorder
}

type options struct {
	httpClient *http.Client
	logger     zerolog.Logger
	recorder   Recorder
}

type Option func(*options)

// WithHTTPClient replaces the default http.Client, which has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// NewClient builds a client for endpoint. A nil store gets an in-memory one.
func NewClient(endpoint string, store domain.Store, opts ...Option) *Client {
	o := options{
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if store == nil {
		store = cache.NewMemoryStore()
	}

	gql := graphql.NewClient(endpoint, graphql.WithHTTPClient(withStatusCheck(o.httpClient)))
	log := o.logger.With().Str("component", "graphql").Str("endpoint", endpoint).Logger()
	gql.Log = func(s string) { log.Trace().Msg(s) }

	return &Client{
		gql:      gql,
		store:    store,
		endpoint: endpoint,
		log:      log,
		recorder: o.recorder,
	}
}

func (c *Client) Endpoint() string { return c.endpoint }

// statusTransport fails any response outside 2xx. machinebox/graphql only
// looks at the body, so a 5xx with a JSON body would otherwise decode as data.
type statusTransport struct {
	base http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
		res.Body.Close()
		return nil, fmt.Errorf("server returned a non-200 status code: %d", res.StatusCode)
	}
	return res, nil
}

// withStatusCheck returns a copy of hc whose transport rejects non-2xx
// responses. hc itself is left untouched.
func withStatusCheck(hc *http.Client) *http.Client {
	cp := *hc
	base := cp.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	cp.Transport = statusTransport{base: base}
	return &cp
}

type systemResponse struct {
	System *domain.System `json:"system"`
}

// QuerySystem returns the system tree for systemID, from the store when a
// response for the same variables is cached. Any failure wraps
// domain.ErrQueryFailed.
func (c *Client) QuerySystem(ctx context.Context, systemID string) (*domain.System, error) {
	start := time.Now()
	vars := variables(systemID)
	key, err := cacheKey(systemQuery, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrQueryFailed, err)
	}

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Msg("cache read failed, querying server")
	} else if ok {
		var resp systemResponse
		if err := json.Unmarshal(raw, &resp); err == nil {
			c.observe(OutcomeCacheHit, start)
			return resp.System, nil
		}
		c.log.Warn().Str("key", key).Msg("cached response undecodable, querying server")
	}

	req := graphql.NewRequest(systemQuery)
	for k, v := range vars {
		req.Var(k, v)
	}

	var data json.RawMessage
	if err := c.gql.Run(ctx, req, &data); err != nil {
		c.observe(OutcomeNetworkError, start)
		c.log.Debug().Err(err).Str("system_id", systemID).Msg("system query failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrQueryFailed, err)
	}
	if len(data) == 0 {
		data = json.RawMessage("null")
	}

	var resp systemResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		c.observe(OutcomeNetworkError, start)
		return nil, fmt.Errorf("%w: decoding system: %w", domain.ErrQueryFailed, err)
	}
	c.observe(OutcomeNetworkSuccess, start)

	if err := c.store.Set(ctx, key, data); err != nil {
		c.log.Warn().Err(err).Msg("cache write failed")
	}
	return resp.System, nil
}

// ClearStore drops every cached response.
func (c *Client) ClearStore(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Ping reports whether the response store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

func (c *Client) observe(outcome string, start time.Time) {
	if c.recorder != nil {
		c.recorder.ObserveFetch(outcome, time.Since(start))
	}
}

func cacheKey(query string, vars map[string]any) (string, error) {
	// encoding/json sorts map keys, so equal variables give equal keys.
	b, err := json.Marshal(vars)
	if err != nil {
		return "", fmt.Errorf("encode variables: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte{0})
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil)), nil
}
