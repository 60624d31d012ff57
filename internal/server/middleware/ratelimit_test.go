package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute, testLogger())
	defer rl.Stop()

	// Первые rate запросов проходят, следующий отклоняется
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	// Другой IP имеет собственный bucket
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestRateLimiter_RefillAfterWindow(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond, testLogger())
	defer rl.Stop()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	time.Sleep(60 * time.Millisecond)

	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimitMiddleware(2, time.Minute, testLogger())(next)

	doRequest := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/user/login", nil)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, doRequest("1.2.3.4:1234"))
	assert.Equal(t, http.StatusOK, doRequest("1.2.3.4:1234"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest("1.2.3.4:1234"))

	// Лимит считается отдельно для каждого клиента
	assert.Equal(t, http.StatusOK, doRequest("5.6.7.8:1234"))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{
			name:     "remote addr only",
			remote:   "1.2.3.4:5678",
			expected: "1.2.3.4:5678",
		},
		{
			name:     "x-forwarded-for single",
			headers:  map[string]string{"X-Forwarded-For": "9.9.9.9"},
			remote:   "1.2.3.4:5678",
			expected: "9.9.9.9",
		},
		{
			name:     "x-forwarded-for chain",
			headers:  map[string]string{"X-Forwarded-For": "9.9.9.9,10.0.0.1"},
			remote:   "1.2.3.4:5678",
			expected: "9.9.9.9",
		},
		{
			name:     "x-real-ip",
			headers:  map[string]string{"X-Real-IP": "8.8.8.8"},
			remote:   "1.2.3.4:5678",
			expected: "8.8.8.8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, getClientIP(req))
		})
	}
}
