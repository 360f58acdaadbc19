package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/client/credstore"
	"github.com/dmitrijs2005/gymclient/internal/client/models"
	"github.com/dmitrijs2005/gymclient/internal/client/tokens"
	"github.com/dmitrijs2005/gymclient/internal/common"
	"github.com/dmitrijs2005/gymclient/internal/logging"
	"github.com/dmitrijs2005/gymclient/internal/netx"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	loginPath   = "/user/login/"
	refreshPath = "/token/refresh/"
	pingPath    = "/user/test/"

	refreshFlightKey = "refresh"
	maxBodySize      = 4 << 20

	DefaultTimeout = 15 * time.Second
)

var errNoRefreshToken = errors.New("no refresh token stored")

// Options configures an HTTPClient. BaseURL and Store are required.
type Options struct {
	BaseURL    string
	Store      credstore.Store
	HTTPClient *http.Client
	Logger     logging.Logger

	// Timeout bounds the shared refresh call and is the default timeout of
	// the underlying http.Client when none is given.
	Timeout time.Duration

	// ExpirySkew treats access tokens expiring within the skew as expired.
	ExpirySkew time.Duration

	// OnSessionExpired is called after the session has been torn down by a
	// failed refresh or a repeated 401. It is not called on Logout.
	OnSessionExpired func(ctx context.Context)

	Now func() time.Time
}

// HTTPClient is the REST client of the gym backend.
type HTTPClient struct {
	baseURL   string
	store     credstore.Store
	http      *http.Client
	log       logging.Logger
	timeout   time.Duration
	skew      time.Duration
	onExpired func(ctx context.Context)
	now       func() time.Time

	refreshGroup singleflight.Group

	// sessionMu orders generation changes with the session writes they guard.
	sessionMu  sync.Mutex
	generation atomic.Uint64
}

// New validates opts and builds a client.
func New(opts Options) (*HTTPClient, error) {
	if opts.Store == nil {
		return nil, errors.New("credential store is required")
	}

	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", opts.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: expected http(s)://host[/prefix]", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &HTTPClient{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		store:     opts.Store,
		http:      hc,
		log:       log,
		timeout:   timeout,
		skew:      opts.ExpirySkew,
		onExpired: opts.OnSessionExpired,
		now:       now,
	}, nil
}

type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// send performs a single HTTP exchange. token may be empty for the
// unauthenticated endpoints.
func (c *HTTPClient) send(ctx context.Context, method, path string, query url.Values, payload []byte, token, requestID string) (*response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}
	req.Header.Set(common.RequestIDHeaderName, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		if netx.IsConnectivityError(err) {
			return nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s: %w", ErrUnavailable, method, path, err)
	}

	return &response{status: resp.StatusCode, body: data}, nil
}

func encodeBody(in any) ([]byte, error) {
	if in == nil {
		return nil, nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return b, nil
}

func decodeBody(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func (c *HTTPClient) accessToken(ctx context.Context) (string, error) {
	token, ok, err := c.store.Get(ctx, common.KeyAccess)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotLoggedIn, err)
	}
	if !ok || token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// UserID returns the id of the logged in user from the credential store.
func (c *HTTPClient) UserID(ctx context.Context) (int64, error) {
	raw, ok, err := c.store.Get(ctx, common.KeyUserID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotLoggedIn, err)
	}
	if !ok || raw == "" {
		return 0, ErrNotLoggedIn
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed user id %q", ErrNotLoggedIn, raw)
	}
	return id, nil
}

// Login exchanges credentials for a token pair and stores the new session.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	payload, err := encodeBody(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, http.MethodPost, loginPath, nil, payload, "", uuid.NewString())
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, newRequestFailed(resp.status, resp.body)
	}

	var lr models.LoginResponse
	if err := json.Unmarshal(resp.body, &lr); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if lr.Access == "" || lr.Refresh == "" {
		return nil, errors.New("login response is missing tokens")
	}

	session := &models.Session{
		AccessToken:  lr.Access,
		RefreshToken: lr.Refresh,
		UserID:       strconv.FormatInt(lr.UserID, 10),
	}

	c.sessionMu.Lock()
	c.generation.Add(1)
	err = c.store.SetMany(ctx, map[string]string{
		common.KeyAccess:  session.AccessToken,
		common.KeyRefresh: session.RefreshToken,
		common.KeyUserID:  session.UserID,
	})
	c.sessionMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	c.log.Info(ctx, "logged in", "user_id", session.UserID)
	return session, nil
}

// Logout forgets the session. Responses of requests still in flight are
// discarded.
func (c *HTTPClient) Logout(ctx context.Context) error {
	c.sessionMu.Lock()
	c.generation.Add(1)
	err := c.store.DeleteMany(ctx, common.SessionKeys...)
	c.sessionMu.Unlock()
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	c.log.Info(ctx, "logged out")
	return nil
}

// Ping checks that the backend is reachable. It does not authenticate.
func (c *HTTPClient) Ping(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodGet, pingPath, nil, nil, "", uuid.NewString())
	if err != nil {
		return err
	}
	if !resp.ok() {
		return newRequestFailed(resp.status, resp.body)
	}
	return nil
}

// Close releases idle connections. The credential store is owned by the
// caller and stays open.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// RefreshAccessToken exchanges the stored refresh token for a new access
// token, stores it and returns it.
//
// Concurrent callers share one refresh. The shared call is detached from the
// caller's cancellation; a caller whose ctx ends gets ctx.Err() and the
// session is left alone. Every other failure tears the session down and
// wraps ErrRefreshFailed. A refresh that outlives its session (logout or a
// new login meanwhile) leaves the store untouched and returns
// ErrStaleResponse.
func (c *HTTPClient) RefreshAccessToken(ctx context.Context) (string, error) {
	return c.renew(ctx, "")
}

// renew runs the shared refresh. When stale is set and the store already
// holds a different access token, another caller has refreshed in the
// meantime and that token is returned without calling the backend.
// Flights are keyed by session generation so callers of different sessions
// never share one.
func (c *HTTPClient) renew(ctx context.Context, stale string) (string, error) {
	gen := c.generation.Load()
	key := refreshFlightKey + "/" + strconv.FormatUint(gen, 10)

	ch := c.refreshGroup.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		if c.generation.Load() != gen {
			return "", ErrStaleResponse
		}
		if stale != "" {
			current, ok, err := c.store.Get(fctx, common.KeyAccess)
			if err == nil && ok && current != "" && current != stale {
				return current, nil
			}
		}
		return c.refresh(fctx, gen)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *HTTPClient) refresh(ctx context.Context, gen uint64) (string, error) {
	refreshToken, ok, err := c.store.Get(ctx, common.KeyRefresh)
	if err != nil {
		return "", c.refreshFailed(ctx, gen, err)
	}
	if !ok || refreshToken == "" {
		return "", c.refreshFailed(ctx, gen, errNoRefreshToken)
	}

	payload, err := encodeBody(models.RefreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", c.refreshFailed(ctx, gen, err)
	}

	resp, err := c.send(ctx, http.MethodPost, refreshPath, nil, payload, "", uuid.NewString())
	if err != nil {
		return "", c.refreshFailed(ctx, gen, err)
	}
	if !resp.ok() {
		return "", c.refreshFailed(ctx, gen, newRequestFailed(resp.status, resp.body))
	}

	var pair models.TokenPair
	if err := json.Unmarshal(resp.body, &pair); err != nil {
		return "", c.refreshFailed(ctx, gen, fmt.Errorf("decode refresh response: %w", err))
	}
	if pair.Access == "" {
		return "", c.refreshFailed(ctx, gen, errors.New("refresh response has no access token"))
	}

	values := map[string]string{common.KeyAccess: pair.Access}
	if pair.Refresh != "" {
		values[common.KeyRefresh] = pair.Refresh
	}
	c.sessionMu.Lock()
	if c.generation.Load() != gen {
		c.sessionMu.Unlock()
		c.log.Debug(ctx, "session changed during refresh, new token dropped")
		return "", ErrStaleResponse
	}
	err = c.store.SetMany(ctx, values)
	c.sessionMu.Unlock()
	if err != nil {
		return "", c.refreshFailed(ctx, gen, err)
	}

	c.log.Info(ctx, "access token refreshed", "rotated", pair.Refresh != "")
	return pair.Access, nil
}

func (c *HTTPClient) refreshFailed(ctx context.Context, gen uint64, cause error) error {
	c.log.Warn(ctx, "token refresh failed", "error", cause)
	if !c.teardown(ctx, gen) {
		return fmt.Errorf("%w: %w", ErrStaleResponse, cause)
	}
	return fmt.Errorf("%w: %w", ErrRefreshFailed, cause)
}

// teardown ends session gen after an irrecoverable authorization failure.
// It reports false, and touches nothing, when gen is no longer the current
// session.
func (c *HTTPClient) teardown(ctx context.Context, gen uint64) bool {
	ctx = context.WithoutCancel(ctx)

	c.sessionMu.Lock()
	if c.generation.Load() != gen {
		c.sessionMu.Unlock()
		c.log.Debug(ctx, "session already replaced, teardown skipped")
		return false
	}
	c.generation.Add(1)
	err := c.store.DeleteMany(ctx, common.SessionKeys...)
	c.sessionMu.Unlock()

	if err != nil {
		c.log.Error(ctx, "failed to clear session", "error", err)
	}
	c.log.Warn(ctx, "session expired, credentials cleared")

	if c.onExpired != nil {
		c.onExpired(ctx)
	}
	return true
}

func sessionExpired(err error) error {
	if errors.Is(err, ErrRefreshFailed) {
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return err
}

// Do performs an authenticated JSON request. in, when non-nil, is sent as
// the JSON body; out, when non-nil, receives the decoded 2xx reply.
//
// A request is refreshed at most once and retried at most once: a 401 on
// the first attempt (or a token already known to be expired) triggers one
// refresh, and a 401 after that ends the session with ErrSessionExpired.
// A reply that arrives after the session changed is dropped with
// ErrStaleResponse, whatever its status.
func (c *HTTPClient) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	gen := c.generation.Load()

	payload, err := encodeBody(in)
	if err != nil {
		return err
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	log := c.log.With("request_id", requestID, "method", method, "path", path)

	// One refresh per call. Spending it before the send means a 401 on the
	// first attempt already counts as a rejection after refresh.
	refreshed := false
	if expired, known := tokens.Expired(token, c.now(), c.skew); known && expired {
		log.Debug(ctx, "access token expired, refreshing before send")
		token, err = c.renew(ctx, token)
		if err != nil {
			return sessionExpired(err)
		}
		refreshed = true
	}

	resp, err := c.send(ctx, method, path, query, payload, token, requestID)
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized && !refreshed {
		log.Debug(ctx, "access token rejected, refreshing")
		token, err = c.renew(ctx, token)
		if err != nil {
			return sessionExpired(err)
		}

		resp, err = c.send(ctx, method, path, query, payload, token, requestID)
		if err != nil {
			return err
		}
	}

	if c.generation.Load() != gen {
		log.Debug(ctx, "session changed while request was in flight")
		return ErrStaleResponse
	}

	if resp.status == http.StatusUnauthorized {
		log.Warn(ctx, "request rejected after refresh")
		if !c.teardown(ctx, gen) {
			return ErrStaleResponse
		}
		return fmt.Errorf("%w: %s %s rejected after refresh", ErrSessionExpired, method, path)
	}

	if !resp.ok() {
		return newRequestFailed(resp.status, resp.body)
	}

	return decodeBody(resp.body, out)
}
