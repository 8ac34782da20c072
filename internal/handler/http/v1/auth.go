package v1

import (
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/civic_alert_system/internal/config"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
	callerKey      = "caller"
)

// APIKeyAuthMiddleware - middleware для аутентификации по API-ключу
func APIKeyAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			// Проверяем также заголовок Authorization: Bearer
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				apiKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if apiKey == "" {
			log.Warn("API key missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		if !slices.Contains(cfg.APIKeys, apiKey) {
			log.Warn("Invalid API key provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}

// IdentityMiddleware переносит пользователя и роль, выставленные шлюзом, в контекст запроса
func IdentityMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := models.ParseRole(c.GetHeader(headerUserRole))
		if err != nil {
			log.WithError(err).Warn("Invalid caller role")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + headerUserRole + " header"})
			return
		}
		c.Set(callerKey, models.Caller{
			UserID: strings.TrimSpace(c.GetHeader(headerUserID)),
			Role:   role,
		})
		c.Next()
	}
}

// callerFrom возвращает вызывающего, выставленного IdentityMiddleware
func callerFrom(c *gin.Context) models.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(models.Caller); ok {
			return caller
		}
	}
	return models.Caller{Role: models.RoleCitizen}
}

// OperatorOnlyMiddleware пропускает только ответственных служб и администраторов
func OperatorOnlyMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := callerFrom(c)
		if !caller.IsOperator() {
			log.WithFields(logrus.Fields{
				"user_id": caller.UserID,
				"role":    caller.Role,
				"path":    c.FullPath(),
			}).Warn("Operator-only route requested by non-operator")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "operation is not allowed for this role"})
			return
		}
		c.Next()
	}
}

// rateLimiter - token bucket на каждого вызывающего
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// TODO: вытеснять лимитеры вызывающих, которые давно не присылали запросов
func (l *rateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// RateLimitMiddleware ограничивает частоту запросов по пользователю, без него по IP
func RateLimitMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	limiter := newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	return func(c *gin.Context) {
		key := callerFrom(c).UserID
		if key == "" {
			key = "ip:" + c.ClientIP()
		}
		if !limiter.limiter(key).Allow() {
			log.WithField("caller", key).Warn("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
