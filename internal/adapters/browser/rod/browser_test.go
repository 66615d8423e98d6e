package rod

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/adapters/browser"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePage = `<!doctype html>
<html><body>
<span>邮箱登录</span>
<input name="username" placeholder="email">
<button type="submit">继续</button>
<script>localStorage.setItem("user", JSON.stringify({id: 42}));</script>
</body></html>`

// Requires a local Chromium install; run with ARC_BROWSER_TESTS=1.
func TestPageAgainstFixture(t *testing.T) {
	if os.Getenv("ARC_BROWSER_TESTS") != "1" {
		t.Skip("set ARC_BROWSER_TESTS=1 to drive a real browser")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(fixturePage))
	}))
	t.Cleanup(server.Close)

	ctx := context.Background()
	b, err := Launch(ctx, browser.Options{Headless: true}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	session, err := b.NewSession(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	page := session.Page()
	require.NoError(t, page.Navigate(ctx, server.URL, 30*time.Second))

	input, err := page.Query(ctx, `input[name="username"]`)
	require.NoError(t, err)
	require.NotNil(t, input)
	require.NoError(t, input.Fill(ctx, "user@example.com"))

	missing, err := page.Query(ctx, "#does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)

	texts, err := page.QueryTexts(ctx, "span")
	require.NoError(t, err)
	assert.Equal(t, []string{"邮箱登录"}, texts)

	item, ok, err := page.LocalStorageItem(ctx, "user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":42}`, item)

	raw, err := page.Evaluate(ctx, `(arg) => arg.value * 2`, map[string]int{"value": 21})
	require.NoError(t, err)
	assert.Equal(t, "42", string(raw))

	require.NoError(t, page.PressKey(ctx, "Escape"))
	require.NoError(t, session.Close())
	require.NoError(t, session.Close())
}

func TestKeyForKnownAndUnknown(t *testing.T) {
	t.Parallel()

	_, err := keyFor("Escape")
	require.NoError(t, err)

	_, err = keyFor("F13")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported key")
}

func TestSettleError(t *testing.T) {
	t.Parallel()

	const url = "https://anyrouter.top/login"

	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	t.Run("settled", func(t *testing.T) {
		require.NoError(t, settleError(context.Background(), context.Background(), url, time.Minute))
	})

	t.Run("deadline becomes navigation error", func(t *testing.T) {
		err := settleError(context.Background(), expired, url, time.Minute)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNavigation)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Contains(t, err.Error(), "did not settle within 1m0s")
	})

	t.Run("caller cancel wins", func(t *testing.T) {
		err := settleError(canceled, expired, url, time.Minute)
		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, errors.Is(err, domain.ErrNavigation))
	})
}
