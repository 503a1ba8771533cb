package telegram

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ratebot/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReceiver(t *testing.T, status int, body string) *Receiver {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTEST/getUpdates", r.URL.Path)
		assert.Equal(t, "-1", r.URL.Query().Get("offset"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return NewReceiver("TEST").WithBaseURL(srv.URL)
}

func TestReceiver_FetchLatest(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    *domain.Update
		wantErr bool
	}{
		{
			name:   "text message with username",
			status: http.StatusOK,
			body: `{"ok":true,"result":[{"update_id":42,"message":{"message_id":7,"text":"/help",` +
				`"chat":{"id":100,"type":"private"},"from":{"id":200,"is_bot":false,"first_name":"Bob","username":"bob"}}}]}`,
			want: &domain.Update{
				ID:      42,
				Message: &domain.Message{ID: 7, ChatID: 100, UserID: 200, Username: "@bob", Text: "/help"},
			},
		},
		{
			name:   "first name fallback",
			status: http.StatusOK,
			body: `{"ok":true,"result":[{"update_id":43,"message":{"message_id":8,"text":"hi",` +
				`"chat":{"id":100,"type":"private"},"from":{"id":200,"is_bot":false,"first_name":"Bob"}}}]}`,
			want: &domain.Update{
				ID:      43,
				Message: &domain.Message{ID: 8, ChatID: 100, UserID: 200, Username: "Bob", Text: "hi"},
			},
		},
		{
			name:   "sticker has no message",
			status: http.StatusOK,
			body:   `{"ok":true,"result":[{"update_id":44,"message":{"message_id":9,"chat":{"id":100,"type":"private"}}}]}`,
			want:   &domain.Update{ID: 44},
		},
		{
			name:   "last update wins",
			status: http.StatusOK,
			body:   `{"ok":true,"result":[{"update_id":1},{"update_id":2}]}`,
			want:   &domain.Update{ID: 2},
		},
		{
			name:   "no updates",
			status: http.StatusOK,
			body:   `{"ok":true,"result":[]}`,
		},
		{
			name:    "api rejected",
			status:  http.StatusOK,
			body:    `{"ok":false,"description":"Unauthorized"}`,
			wantErr: true,
		},
		{
			name:    "bad status",
			status:  http.StatusBadGateway,
			body:    ``,
			wantErr: true,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `{"ok":`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestReceiver(t, tc.status, tc.body)

			got, err := r.FetchLatest(t.Context())

			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReceiver_NetworkErrorHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	r := NewReceiver("123456:SECRET-TOKEN").WithBaseURL(srv.URL)
	srv.Close()

	_, err := r.FetchLatest(t.Context())

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-TOKEN")
}
