package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawsconnect/internal/domain"
)

func TestExpoPushSendsMessage(t *testing.T) {
	var got []expoMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer expo-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"data":[{"status":"ok","id":"abc"}]}`))
	}))
	defer srv.Close()

	c := NewExpoPush(srv.URL, "expo-token")
	require.NoError(t, c.SendPush(context.Background(), "ExponentPushToken[x]", "Hi", "Body", "pawsconnect://adoption/1"))

	require.Len(t, got, 1)
	assert.Equal(t, "ExponentPushToken[x]", got[0].To)
	assert.Equal(t, "pawsconnect://adoption/1", got[0].Data["url"])
}

func TestExpoPushWithoutTokenIsNoop(t *testing.T) {
	c := NewExpoPush("http://127.0.0.1:1", "")
	assert.NoError(t, c.SendPush(context.Background(), "  ", "Hi", "Body", ""))
}

func TestExpoPushErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		permanent bool
	}{
		{"device not registered", 200, `{"data":[{"status":"error","message":"gone","details":{"error":"DeviceNotRegistered"}}]}`, true},
		{"rate limited ticket", 200, `{"data":[{"status":"error","message":"slow down","details":{"error":"MessageRateExceeded"}}]}`, false},
		{"server error", 502, `bad gateway`, false},
		{"bad request", 400, `{"errors":[{"code":"VALIDATION_ERROR"}]}`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			err := NewExpoPush(srv.URL, "").SendPush(context.Background(), "tok", "t", "b", "")
			require.Error(t, err)
			assert.Equal(t, tc.permanent, IsPermanent(err))
		})
	}
}

func TestEmailAPIForwardsIdempotencyKey(t *testing.T) {
	var body emailRequest
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("Idempotency-Key")
		assert.Equal(t, "Bearer re_123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer srv.Close()

	c := NewEmailAPI(srv.URL, "re_123", "PawsConnect <no-reply@pawsconnect.app>")
	require.NoError(t, c.SendEmail(context.Background(), "user_verified:u@1:email", "ana@example.com", "Account verified", "<p>hi</p>"))

	assert.Equal(t, "user_verified:u@1:email", key)
	assert.Equal(t, []string{"ana@example.com"}, body.To)
	assert.Equal(t, "Account verified", body.Subject)
}

func TestEmailAPIUnconfigured(t *testing.T) {
	err := NewEmailAPI("https://api.resend.com/emails", "", "x").SendEmail(context.Background(), "k", "a@b.c", "s", "h")
	assert.True(t, errors.Is(err, domain.ErrProviderUnavailable))
	assert.False(t, IsPermanent(err))
}
