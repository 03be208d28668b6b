package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"go.uber.org/zap"
)

// Session is the HTTP identity for one category's worth of requests. The
// client carries the cookies picked up during warm-up.
type Session struct {
	Client *http.Client
}

type SessionProvider interface {
	Acquire(ctx context.Context) (*Session, error)
}

type SessionProviderConfig struct {
	BaseURL        string
	UserAgent      string
	RequestTimeout time.Duration
	SettleDelay    time.Duration
}

type httpSessionProvider struct {
	cfg    SessionProviderConfig
	logger *zap.Logger
}

// NewSessionProvider returns a provider that performs a browser-like warm-up
// request against the site root to collect cookies, then waits a settle delay
// before handing the session out. Sessions are not reused across categories.
func NewSessionProvider(cfg SessionProviderConfig, log *zap.Logger) SessionProvider {
	return &httpSessionProvider{cfg: cfg, logger: log}
}

func (p *httpSessionProvider) Acquire(ctx context.Context) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	client := &http.Client{
		Jar:     jar,
		Timeout: p.cfg.RequestTimeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build warm-up request: %w", err)
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session warm-up: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	p.logger.Debug("session warmed up",
		zap.String("base_url", p.cfg.BaseURL),
		zap.Int("status", resp.StatusCode),
	)

	if err := sleepCtx(ctx, p.cfg.SettleDelay); err != nil {
		return nil, err
	}

	return &Session{Client: client}, nil
}

// sleepCtx pauses for d but wakes immediately on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
