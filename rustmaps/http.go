package rustmaps

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// HTTPClient sends routes to the API over a single reusable session. The
// session is opened lazily, closed on demand or after a 401, and reopened
// transparently by the next request. It is safe for concurrent use.
type HTTPClient struct {
	baseURL    string
	newSession func() *resty.Client
	logger     zerolog.Logger

	mu      sync.Mutex
	session *resty.Client
}

// NewHTTPClient creates a transport. No session is opened until the first
// request or EnsureSession.
func NewHTTPClient(opts ...Option) *HTTPClient {
	return newHTTPClient(buildOptions(opts))
}

func newHTTPClient(o *clientOptions) *HTTPClient {
	h := &HTTPClient{
		baseURL:    o.baseURL,
		newSession: o.sessionFactory,
		logger:     o.logger,
	}
	if h.newSession == nil {
		h.newSession = func() *resty.Client {
			return newRestySession(o)
		}
	}
	return h
}

func newRestySession(o *clientOptions) *resty.Client {
	c := resty.New()
	if o.roundTripper != nil {
		c.SetTransport(o.roundTripper)
	}
	c.SetTimeout(o.timeout)
	if o.userAgent != "" {
		c.SetHeader("User-Agent", o.userAgent)
	}
	c.SetLogger(restyLogger{logger: o.logger})
	return c
}

// EnsureSession opens a session if none is open. It is idempotent.
func (h *HTTPClient) EnsureSession() {
	h.ensureSession()
}

func (h *HTTPClient) ensureSession() *resty.Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		h.session = h.newSession()
		h.logger.Debug().Str("base_url", h.baseURL).Msg("Opened rustmaps session")
	}
	return h.session
}

// Close releases the session. Calling it on a closed client is a no-op.
func (h *HTTPClient) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		return
	}
	h.session.GetClient().CloseIdleConnections()
	h.session = nil
	h.logger.Debug().Msg("Closed rustmaps session")
}

// IsClosed reports whether no session is currently open.
func (h *HTTPClient) IsClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session == nil
}

// Request sends route with the given headers and returns the decoded body.
//
// Only 200 and 201 count as success. Any other status yields a
// *RequestError; a 401 also closes the session. Network failures are
// returned as-is (wrapped) and do not match ErrRequestFailed.
func (h *HTTPClient) Request(ctx context.Context, route Route, headers map[string]string) (Body, error) {
	session := h.ensureSession()

	method := string(route.Method)
	url := route.URLWithBase(h.baseURL)

	req := session.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	// Set after the caller's headers, so it wins on collision.
	req.SetHeader("Accept", "application/json")

	resp, err := req.Execute(method, url)
	if err != nil {
		return Body{}, fmt.Errorf("%s %s: %w", method, url, err)
	}

	h.logger.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode()).
		Msg("Request completed")

	body := decodeBody(resp.Header().Get("Content-Type"), resp.Body())
	h.logger.Debug().
		Str("method", method).
		Str("url", url).
		Stringer("kind", body.Kind).
		Interface("body", body.Value()).
		Msg("Response received")

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		return body, nil
	case http.StatusUnauthorized:
		h.Close()
	}

	reqErr := newRequestError(method, url, resp, body)
	h.logger.Warn().
		Str("method", method).
		Str("url", url).
		Int("status", reqErr.Status).
		Int("code", reqErr.Code).
		Msg("Request failed")
	return Body{}, reqErr
}

// restyLogger routes resty's own diagnostics into zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) { l.logger.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...any)  { l.logger.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...any) { l.logger.Debug().Msgf(format, v...) }
