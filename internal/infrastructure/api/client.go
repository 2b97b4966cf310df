// Package api talks to the document archive server: login, logout and batch uploads.
package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
	"github.com/kirillkom/scan-uploader/internal/infrastructure/resilience"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"

	loginPath  = "/auth/login"
	logoutPath = "/auth/logout"

	maxErrorBody = 2048
)

type Options struct {
	// Timeout bounds a whole request. Zero leaves the transport defaults in place.
	Timeout   time.Duration
	Transport http.RoundTripper
	// Executor guards the best-effort logout notification only. Login and
	// upload are operator actions and always reach the network.
	Executor *resilience.Executor
}

type Client struct {
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(opts Options) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		executor: opts.Executor,
	}
}

func (c *Client) Login(ctx context.Context, baseURL string, creds domain.Credentials) (domain.TokenPair, error) {
	return c.login(ctx, baseURL, creds)
}

// Logout is guarded by a breaker per server host, so a dead server stops
// delaying sign-outs without affecting any other host.
func (c *Client) Logout(ctx context.Context, baseURL, accessToken string) error {
	operation := "logout " + hostOf(baseURL)
	if c.executor == nil {
		return c.logout(ctx, baseURL, accessToken)
	}
	err := c.executor.Execute(ctx, operation, func(ctx context.Context) error {
		return c.logout(ctx, baseURL, accessToken)
	}, classifyAPIError)
	if resilience.IsCircuitOpen(err) {
		return &domain.TransportError{Operation: "logout", Err: err}
	}
	return err
}

// Upload sends one multipart batch. A returned error means no response arrived;
// every status code, accepted or not, comes back in the response.
func (c *Client) Upload(ctx context.Context, req domain.UploadRequest) (domain.UploadResponse, error) {
	return c.upload(ctx, req)
}

func hostOf(baseURL string) string {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return baseURL
	}
	return parsed.Host
}
