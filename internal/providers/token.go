package providers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultTokenMargin = 60 * time.Second

type TokenConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client

	// Margin is how long before expiry a cached token stops being handed out.
	Margin time.Duration
	Now    func() time.Time
}

// TokenCache holds one client-credentials bearer token and refreshes it lazily.
// Two callers racing on an expired token may both exchange; the later write wins.
type TokenCache struct {
	creds      *clientcredentials.Config
	httpClient *http.Client
	margin     time.Duration
	now        func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

func NewTokenCache(cfg TokenConfig) *TokenCache {
	if cfg.Margin <= 0 {
		cfg.Margin = defaultTokenMargin
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TokenCache{
		creds: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: cfg.HTTPClient,
		margin:     cfg.Margin,
		now:        cfg.Now,
	}
}

func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	tok := c.token
	c.mu.Unlock()

	if c.valid(tok) {
		return tok.AccessToken, nil
	}

	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	fresh, err := c.creds.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}

	c.mu.Lock()
	c.token = fresh
	c.mu.Unlock()

	return fresh.AccessToken, nil
}

// Invalidate drops the cached token, e.g. after the API rejected it.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.token = nil
	c.mu.Unlock()
}

func (c *TokenCache) valid(tok *oauth2.Token) bool {
	if tok == nil || tok.AccessToken == "" {
		return false
	}
	if tok.Expiry.IsZero() {
		return true
	}
	return c.now().Before(tok.Expiry.Add(-c.margin))
}
