package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
	"github.com/kirillkom/scan-uploader/internal/core/ports"
)

// SessionManager owns the token pair. Authenticate is safe to call from a worker
// goroutine; Establish, Login and Logout mutate state and belong to the coordinating loop.
type SessionManager struct {
	auth     ports.AuthGateway
	observer ports.UploadObserver
	logger   *slog.Logger

	tokens domain.TokenPair
}

func NewSessionManager(auth ports.AuthGateway, observer ports.UploadObserver, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		auth:     auth,
		observer: observer,
		logger:   logger,
	}
}

func (m *SessionManager) Authenticate(ctx context.Context, baseURL, username, password string) (domain.TokenPair, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return domain.TokenPair{}, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	pair, err := m.auth.Login(ctx, normalizeBaseURL(baseURL), domain.Credentials{
		Username: username,
		Password: password,
	})
	if err == nil && !pair.Complete() {
		err = domain.ErrTokenExtraction
	}
	if m.observer != nil {
		m.observer.ObserveLogin(err)
	}
	if err != nil {
		m.logger.Warn("login_failed", "username", username, "error", err)
		return domain.TokenPair{}, err
	}
	m.logger.Info("login_succeeded", "username", username)
	return pair, nil
}

func (m *SessionManager) Establish(pair domain.TokenPair) {
	m.tokens = pair
}

func (m *SessionManager) Login(ctx context.Context, baseURL, username, password string) error {
	pair, err := m.Authenticate(ctx, baseURL, username, password)
	if err != nil {
		return err
	}
	m.Establish(pair)
	return nil
}

// SignOut drops the local tokens and returns the access token that was in use.
func (m *SessionManager) SignOut() string {
	token := m.tokens.Access
	m.tokens = domain.TokenPair{}
	return token
}

// Revoke tells the server a token is no longer used. Failures are only logged.
func (m *SessionManager) Revoke(ctx context.Context, baseURL, token string) {
	if token == "" {
		return
	}
	if err := m.auth.Logout(ctx, normalizeBaseURL(baseURL), token); err != nil {
		m.logger.Warn("logout_notify_failed", "error", err)
	}
}

func (m *SessionManager) Logout(ctx context.Context, baseURL string) {
	m.Revoke(ctx, baseURL, m.SignOut())
}

func (m *SessionManager) IsAuthenticated() bool {
	return m.tokens.Access != ""
}

func (m *SessionManager) AccessToken() (string, bool) {
	return m.tokens.Access, m.tokens.Access != ""
}

func normalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
