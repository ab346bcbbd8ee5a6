package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/jrsteele09/go-course-client/internal/errors"
	"github.com/jrsteele09/go-course-client/internal/result"
	"github.com/jrsteele09/go-course-client/navigation"
	"github.com/jrsteele09/go-course-client/tokens"
)

const defaultTimeout = 30 * time.Second

// Client is the single chokepoint for calls to the backend. It attaches the tab's bearer token,
// refreshes it once on a 401, and normalizes every outcome into a result.Result.
type Client struct {
	http     *resty.Client
	tokens   *tokens.TabStore
	nav      navigation.Navigator
	log      zerolog.Logger
	coalesce bool
	refresh  singleflight.Group

	hooks    map[int]func()
	nextHook int
	hookLock sync.Mutex
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// WithHTTPClient sends requests through hc (primarily for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc)
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithRefreshCoalescing controls whether concurrent 401s share one in-flight refresh.
func WithRefreshCoalescing(enabled bool) ClientOption {
	return func(c *Client) {
		c.coalesce = enabled
	}
}

// New creates a Client for baseURL storing tokens in store.
func New(baseURL string, store *tokens.TabStore, nav navigation.Navigator, options ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[apiclient.New] baseURL is required")
	}
	if store == nil {
		return nil, errors.New("[apiclient.New] token store is required")
	}
	if nav == nil {
		return nil, errors.New("[apiclient.New] navigator is required")
	}

	c := &Client{
		http:     resty.New().SetTimeout(defaultTimeout),
		tokens:   store,
		nav:      nav,
		log:      log.Logger,
		coalesce: true,
		hooks:    make(map[int]func()),
	}
	for _, opt := range options {
		opt(c)
	}

	c.http.
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{c.log})

	return c, nil
}

// Tokens returns the tab store the client reads bearer tokens from.
func (c *Client) Tokens() *tokens.TabStore {
	return c.tokens
}

// OnSessionExpired registers fn to run when a refresh fails and the tab's tokens are dropped.
// The returned function unregisters it.
func (c *Client) OnSessionExpired(fn func()) (unregister func()) {
	c.hookLock.Lock()
	defer c.hookLock.Unlock()

	id := c.nextHook
	c.nextHook++
	c.hooks[id] = fn
	return func() {
		c.hookLock.Lock()
		defer c.hookLock.Unlock()
		delete(c.hooks, id)
	}
}

// Request sends method path with an optional JSON body. A 401 on an authenticated request is
// retried at most once, after a refresh. Failures are returned in the Result, never panicked.
func (c *Client) Request(ctx context.Context, method, path string, body any, opts ...RequestOption) result.Result[[]byte] {
	o := requestOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	return result.Run(func() ([]byte, error) {
		var bearer string
		if !o.withoutAuth {
			bearer = c.tokens.AccessToken(ctx)
		}

		resp, err := c.send(ctx, method, path, body, o, bearer)
		if err != nil {
			return nil, apperrors.Network(err)
		}

		if resp.StatusCode() == http.StatusUnauthorized && !o.withoutAuth {
			// retried once per original request, regardless of how the refresh ends
			tok, err := c.refreshTokens(ctx)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					// the caller gave up, the stored refresh token may still be good
					return nil, apperrors.Network(ctxErr)
				}
				if o.withoutRedirect {
					c.log.Debug().Err(err).Str("path", path).Msg("token refresh failed")
					return nil, apperrors.Auth("Authentication required. Please log in to continue.", err)
				}
				c.log.Warn().Err(err).Str("path", path).Msg("token refresh failed, ending session")
				c.expireSession(ctx)
				return nil, apperrors.Auth("Your session has expired. Please log in again.", err)
			}
			resp, err = c.send(ctx, method, path, body, o, tok.AccessToken)
			if err != nil {
				return nil, apperrors.Network(err)
			}
		}

		return normalize(resp)
	})
}

// Do sends the request and decodes a successful payload into T.
func Do[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) result.Result[T] {
	raw := c.Request(ctx, method, path, body, opts...)
	if !raw.Success() {
		return result.Result[T]{Err: raw.Err}
	}

	var out T
	if len(bytes.TrimSpace(raw.Data)) == 0 {
		return result.OK(out)
	}
	if err := json.Unmarshal(raw.Data, &out); err != nil {
		return result.Fail[T](apperrors.New(apperrors.KindRemote, "unexpected response from server", err))
	}
	return result.OK(out)
}

func (c *Client) send(ctx context.Context, method, path string, body any, o requestOptions, bearer string) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if len(o.query) > 0 {
		req.SetQueryParams(o.query)
	}
	if bearer != "" {
		req.SetAuthToken(bearer)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
		return nil, err
	}
	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode()).Dur("took", resp.Time()).Msg("api request")
	return resp, nil
}

func (c *Client) refreshTokens(ctx context.Context) (*oauth2.Token, error) {
	if !c.coalesce {
		return c.doRefresh(ctx)
	}
	// the shared refresh outlives the caller that started it; the client timeout still bounds it
	shared := context.WithoutCancel(ctx)
	ch := c.refresh.DoChan(c.tokens.TabID(), func() (interface{}, error) {
		return c.doRefresh(shared)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*oauth2.Token), nil
	}
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

func (c *Client) doRefresh(ctx context.Context) (*oauth2.Token, error) {
	refresh := c.tokens.RefreshToken(ctx)
	if refresh == "" {
		return nil, apperrors.ErrNoRefreshToken
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"refresh": refresh}).
		Post(RouteAuthRefresh)
	if err != nil {
		return nil, errors.Wrap(err, "[doRefresh] request")
	}
	if !resp.IsSuccess() {
		return nil, errors.Wrap(apperrors.ErrRefreshFailed, ErrorMessage(resp.Body(), resp.StatusCode()))
	}

	var payload refreshResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil || payload.Access == "" {
		return nil, errors.Wrap(apperrors.ErrRefreshFailed, "[doRefresh] no access token in response")
	}

	tok := &oauth2.Token{AccessToken: payload.Access, RefreshToken: payload.Refresh, TokenType: "Bearer"}
	// stored before the original request is re-issued
	if err := c.tokens.Save(ctx, tok); err != nil {
		return nil, errors.Wrap(err, "[doRefresh] save tokens")
	}
	c.log.Debug().Str("tab", c.tokens.TabID()).Bool("rotated", payload.Refresh != "").Msg("access token refreshed")
	return tok, nil
}

func (c *Client) expireSession(ctx context.Context) {
	if err := c.tokens.Clear(context.WithoutCancel(ctx)); err != nil {
		c.log.Error().Err(err).Msg("failed to clear tokens")
	}

	c.hookLock.Lock()
	hooks := make([]func(), 0, len(c.hooks))
	for _, fn := range c.hooks {
		hooks = append(hooks, fn)
	}
	c.hookLock.Unlock()

	for _, fn := range hooks {
		fn()
	}

	if c.nav.CurrentPath() != navigation.RouteLogin {
		c.nav.Navigate(navigation.RouteLogin)
	}
}

func normalize(resp *resty.Response) ([]byte, error) {
	if resp.IsSuccess() {
		return resp.Body(), nil
	}
	msg := ErrorMessage(resp.Body(), resp.StatusCode())
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, apperrors.Auth(msg, nil)
	}
	return nil, apperrors.Remote(msg)
}
