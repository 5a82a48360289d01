package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ignatzorin/projexhub-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexhub-backend/internal/logger"
)

// RateLimitMiddleware ограничивает частоту запросов.
// Авторизованные запросы считаются по пользователю, остальные по IP.
// По умолчанию: 10 запросов в минуту.
func RateLimitMiddleware(limit int64, period time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = 1 * time.Minute
	}

	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: period,
		Limit:  limit,
	})

	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if userID, ok := c.Get(ContextUserIDKey); ok {
			if id, isID := userID.(int64); isID {
				key = "user:" + strconv.FormatInt(id, 10)
			}
		}

		state, err := instance.Get(c.Request.Context(), key)
		if err != nil {
			// Отказ хранилища лимитов не должен блокировать запросы.
			logger.Log.WithError(err).Warn("rate limiter недоступен")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", state.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", state.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", state.Reset))

		if state.Reached {
			logger.Log.WithFields(logrus.Fields{"key": key, "path": c.FullPath()}).Info("Превышен лимит запросов")
			response.TooManyRequests(c, "слишком много запросов, попробуйте позже")
			return
		}

		c.Next()
	}
}
