package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTelegram struct {
	mu       sync.Mutex
	getMe    int
	messages []map[string]string
	fail     bool
}

func (f *fakeTelegram) handler(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		f.mu.Lock()
		defer f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			f.getMe++
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"arc","username":"arc_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			if f.fail {
				_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
				return
			}
			f.messages = append(f.messages, map[string]string{
				"chat_id": r.Form.Get("chat_id"),
				"text":    r.Form.Get("text"),
			})
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":5,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`))
		default:
			http.NotFound(w, r)
		}
	})
}

func newFakeNotifier(t *testing.T, fake *fakeTelegram) *Notifier {
	t.Helper()

	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	n, err := NewNotifier(Config{Token: "123:abc", ChatID: 42, Endpoint: server.URL + "/bot%s/%s"}, time.UTC, server.Client())
	require.NoError(t, err)

	return n
}

func TestNotifySendsReport(t *testing.T) {
	t.Parallel()

	fake := &fakeTelegram{}
	n := newFakeNotifier(t, fake)
	report := domain.BatchReport{
		RunID:     "run-1",
		Timestamp: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Outcomes:  []domain.AccountOutcome{{Name: "main", Success: true}},
	}

	require.NoError(t, n.Notify(context.Background(), report))
	require.NoError(t, n.Notify(context.Background(), report))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, 1, fake.getMe, "bot is built once")
	require.Len(t, fake.messages, 2)
	assert.Equal(t, "42", fake.messages[0]["chat_id"])
	assert.Contains(t, fake.messages[0]["text"], "anyrouter check-in 2026-03-01: 1/1 succeeded")
	assert.Contains(t, fake.messages[0]["text"], "[ok] main")
}

func TestNotifyReportsAPIError(t *testing.T) {
	t.Parallel()

	n := newFakeNotifier(t, &fakeTelegram{fail: true})

	err := n.Notify(context.Background(), domain.BatchReport{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send telegram message")
	assert.Contains(t, err.Error(), "chat not found")
}

func TestNewNotifierRequiresTokenAndChat(t *testing.T) {
	t.Parallel()

	_, err := NewNotifier(Config{ChatID: 1}, nil, nil)
	require.Error(t, err)

	_, err = NewNotifier(Config{Token: "t"}, nil, nil)
	require.Error(t, err)
}
