package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewMemoryLimiter builds an in-process limiter from a formatted rate such as "100-M".
func NewMemoryLimiter(formattedRate string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formattedRate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", formattedRate, err)
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit throttles callers by client IP and reports the window in
// X-RateLimit-* headers.
func RateLimit(lim *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		logger := GetLoggerFromCtx(c.Request.Context())

		window, err := lim.Get(c.Request.Context(), key)
		if err != nil {
			// the store is in-process; fail open rather than reject traffic
			logger.Error("Rate limiter unavailable", slog.String("client_ip", key), slog.String("error", err.Error()))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(window.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(window.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(window.Reset, 10))

		if window.Reached {
			retryAfter := time.Until(time.Unix(window.Reset, 0)).Round(time.Second)
			if retryAfter < time.Second {
				retryAfter = time.Second
			}
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			logger.Warn("Rate limit reached", slog.String("client_ip", key), slog.Int64("limit", window.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
