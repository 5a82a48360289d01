package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/projexhub-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexhub-backend/internal/logger"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

// ErrorHandler перехватывает panic и пишет в лог ошибки, прикреплённые хэндлерами.
// Клиентские ошибки (4xx) логируются на уровне Debug, серверные на уровне Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.WithFields(logrus.Fields{
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
					"panic":  r,
				}).Errorf("panic в обработчике\n%s", debug.Stack())
				if !c.Writer.Written() {
					response.Error(c, errors.New("panic"))
				}
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if !c.Writer.Written() {
			response.Error(c, err)
		}

		entry := logger.Log.WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": c.Writer.Status(),
		})
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.HTTPStatus < http.StatusInternalServerError {
			entry.Debug("Request rejected")
			return
		}
		entry.Error("Request error")
	}
}
