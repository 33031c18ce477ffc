package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lunamarket/storefront-client/internal/session"
	"github.com/lunamarket/storefront-client/internal/tokenstore"
	"github.com/lunamarket/storefront-client/pkg/config"
	pkgerrors "github.com/lunamarket/storefront-client/pkg/errors"
	"github.com/lunamarket/storefront-client/pkg/logger"
	"github.com/lunamarket/storefront-client/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-Id"
)

// Request describes one backend call. Services fill the struct and hand it to
// Do; the client owns authentication, retries, and decoding.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// Header carries caller-supplied headers, including the manually-set
	// Authorization case the interceptor refreshes by value.
	Header http.Header

	// SkipAuth passes the request through with no bearer handling. The
	// refresh endpoint always behaves as if this were set.
	SkipAuth bool

	// UseMerchant pins the request to the merchant identity regardless of
	// the active auth mode.
	UseMerchant bool

	retried  bool
	authMode session.Mode
}

// Client is the storefront HTTP core: it attaches the right bearer token to
// every outgoing request, renews expired tokens behind a single-flight
// coordinator, and performs the one-shot refresh-then-retry cycle on
// auth-class responses.
type Client struct {
	baseURL     string
	refreshPath string
	userAgent   string
	httpClient  *http.Client
	tokens      *tokenstore.Store
	session     *session.Manager
	logg        *logger.Logger
	metrics     *metrics.ClientMetrics

	refreshGroup singleflight.Group
}

// Params bundles the dependencies required to build the client.
type Params struct {
	Config     config.APIConfig
	Auth       config.AuthConfig
	HTTPClient *http.Client
	Tokens     *tokenstore.Store
	Session    *session.Manager
	Logger     *logger.Logger
	Metrics    *metrics.ClientMetrics
}

// New constructs the HTTP core with the provided stack.
func New(params Params) (*Client, error) {
	if params.Config.BaseURL == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if params.Tokens == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	httpClient := params.HTTPClient
	if httpClient == nil {
		timeout := params.Config.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	refreshPath := params.Auth.RefreshPath
	if refreshPath == "" {
		refreshPath = "/auth/refresh-token"
	}

	return &Client{
		baseURL:     strings.TrimSuffix(params.Config.BaseURL, "/"),
		refreshPath: refreshPath,
		userAgent:   params.Config.UserAgent,
		httpClient:  httpClient,
		tokens:      params.Tokens,
		session:     params.Session,
		logg:        params.Logger,
		metrics:     params.Metrics,
	}, nil
}

// Do dispatches the request and decodes the success payload into out (out may
// be nil for calls whose body is irrelevant).
func (c *Client) Do(ctx context.Context, req *Request, out any) error {
	if req == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "nil request")
	}
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	if req.Header == nil {
		req.Header = http.Header{}
	}

	ctx = c.logg.WithEndpoint(ctx, req.Path)

	if err := c.attachAuth(ctx, req); err != nil {
		return err
	}

	status, body, err := c.send(ctx, req)
	if err != nil {
		return err
	}

	if (status == http.StatusUnauthorized || status == http.StatusForbidden) && c.canRetry(req) {
		return c.logFailure(ctx, c.retryOnce(ctx, req, out, status, body))
	}

	return c.logFailure(ctx, c.finish(status, body, out))
}

// logFailure records the full error chain for a request that ultimately
// failed, then hands the error back unchanged.
func (c *Client) logFailure(ctx context.Context, err error) error {
	if err != nil {
		c.logg.Debug(c.logg.WithField(ctx, "error", pkgerrors.Dump(err)), "request failed")
	}
	return err
}

func (c *Client) canRetry(req *Request) bool {
	return !req.retried && req.Path != c.refreshPath
}

// send performs the wire call and returns the raw status and body. Network
// failures come back as typed errors; HTTP error statuses do not.
func (c *Client) send(ctx context.Context, req *Request) (int, []byte, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return 0, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body")
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
	if err != nil {
		return 0, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	httpReq.Header.Set(headerRequestID, uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ObserveRequest(req.Path, "network_error", time.Since(start))
		return 0, nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "calling backend")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveRequest(req.Path, "network_error", time.Since(start))
		return 0, nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "reading response body")
	}
	c.metrics.ObserveRequest(req.Path, strconv.Itoa(resp.StatusCode), time.Since(start))
	return resp.StatusCode, body, nil
}

func (c *Client) finish(status int, body []byte, out any) error {
	if status >= 200 && status < 300 {
		return decodePayload(body, out)
	}
	return errorFromResponse(status, body)
}

func bearer(token string) string {
	return "Bearer " + token
}
