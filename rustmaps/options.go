package rustmaps

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "rustmaps-go"
)

// Option configures a Client or an HTTPClient.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL        string
	timeout        time.Duration
	userAgent      string
	roundTripper   http.RoundTripper
	sessionFactory func() *resty.Client
	logger         zerolog.Logger
	validateToken  TokenValidator
}

func defaultOptions() *clientOptions {
	return &clientOptions{
		baseURL:       BaseURL,
		timeout:       defaultTimeout,
		userAgent:     defaultUserAgent,
		logger:        zerolog.Nop(),
		validateToken: defaultTokenValidator,
	}
}

func buildOptions(opts []Option) *clientOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithTimeout sets the per-request timeout of new sessions. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout >= 0 {
			o.timeout = timeout
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithRoundTripper sets the connector used by every session the client opens.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.roundTripper = rt
	}
}

// WithSessionFactory replaces how sessions are created. It takes precedence
// over WithTimeout, WithUserAgent and WithRoundTripper.
func WithSessionFactory(factory func() *resty.Client) Option {
	return func(o *clientOptions) {
		o.sessionFactory = factory
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithTokenValidator replaces the local API key check done by NewClient.
func WithTokenValidator(v TokenValidator) Option {
	return func(o *clientOptions) {
		if v != nil {
			o.validateToken = v
		}
	}
}

// RequestOption configures a single facade call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	staging bool
}

// WithStaging targets the pre-production map dataset.
func WithStaging(staging bool) RequestOption {
	return func(o *requestOptions) {
		o.staging = staging
	}
}

func buildRequestOptions(opts []RequestOption) requestOptions {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
