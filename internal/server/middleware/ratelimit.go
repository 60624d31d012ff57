package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter ограничивает частоту запросов: не более rate запросов
// на окно window для каждого клиента отдельно
type RateLimiter struct {
	logger  *slog.Logger
	clients map[string]*clientWindow
	done    chan struct{}
	rate    int
	window  time.Duration
	mu      sync.Mutex
}

// clientWindow считает запросы клиента в текущем окне
type clientWindow struct {
	windowStart time.Time
	count       int
}

// NewRateLimiter создает новый rate limiter
// rate - максимальное количество запросов на окно window
func NewRateLimiter(rate int, window time.Duration, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		logger:  logger,
		clients: make(map[string]*clientWindow),
		done:    make(chan struct{}),
		rate:    rate,
		window:  window,
	}

	go rl.sweepLoop()

	return rl
}

// Allow проверяет, не превышен ли лимит для клиента key
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	cw, ok := rl.clients[key]
	if !ok || now.Sub(cw.windowStart) >= rl.window {
		// Новое окно: счетчик начинается заново
		rl.clients[key] = &clientWindow{windowStart: now, count: 1}
		return true
	}

	if cw.count >= rl.rate {
		return false
	}

	cw.count++
	return true
}

// Stop останавливает фоновую очистку
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// sweepLoop периодически выбрасывает клиентов с закрытыми окнами,
// иначе map растет на каждый уникальный IP
func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep(time.Now())
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, cw := range rl.clients {
		if now.Sub(cw.windowStart) >= rl.window*2 {
			delete(rl.clients, key)
		}
	}
}

// RateLimitMiddleware создает middleware для ограничения частоты запросов по IP
func RateLimitMiddleware(rate int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(rate, window, logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r)

			if !limiter.Allow(key) {
				logger.Warn("rate limit exceeded",
					slog.String("ip", key),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded, please try again later"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP извлекает IP адрес клиента из запроса.
// За прокси реальный клиент приходит в X-Forwarded-For или X-Real-IP
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Первый адрес в цепочке принадлежит клиенту
		if idx := strings.IndexByte(xff, ','); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return r.RemoteAddr
}
