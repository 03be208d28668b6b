package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionProviderWarmsUpAndCollectsCookies(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		http.SetCookie(w, &http.Cookie{Name: "visitor-id", Value: "abc123"})
	}))
	t.Cleanup(srv.Close)

	p := NewSessionProvider(SessionProviderConfig{
		BaseURL:        srv.URL,
		UserAgent:      "test-agent",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop())

	sess, err := p.Acquire(context.Background())

	require.NoError(t, err)
	require.NotNil(t, sess.Client.Jar)
	assert.Equal(t, "test-agent", gotUA)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	cookies := sess.Client.Jar.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, "visitor-id", cookies[0].Name)
	assert.Equal(t, "abc123", cookies[0].Value)
}

func TestSessionProviderHandsOutFreshSessions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)

	p := NewSessionProvider(SessionProviderConfig{BaseURL: srv.URL}, zap.NewNop())

	a, err := p.Acquire(context.Background())
	require.NoError(t, err)
	b, err := p.Acquire(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, a.Client, b.Client)
	assert.NotSame(t, a.Client.Jar, b.Client.Jar)
}

func TestSessionProviderFailsWhenWarmUpFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := NewSessionProvider(SessionProviderConfig{BaseURL: srv.URL}, zap.NewNop())

	sess, err := p.Acquire(context.Background())

	require.Error(t, err)
	assert.Nil(t, sess)
}

func TestSleepCtxReturnsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sleepCtx(ctx, time.Minute)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSleepCtxZeroDurationIsImmediate(t *testing.T) {
	assert.NoError(t, sleepCtx(context.Background(), 0))
}
