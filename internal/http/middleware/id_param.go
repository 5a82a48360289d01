package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/projexhub-backend/internal/interface/http/response"
)

// IDParam проверяет, что параметры пути являются положительными целыми ID,
// и сохраняет их в контекст под ключом "param:<имя>".
// Использование: router.GET("/projects/:id", IDParam("id"), handler.GetProject)
func IDParam(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			raw := c.Param(name)
			if raw == "" {
				response.BadRequest(c, "параметр "+name+" обязателен")
				return
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				response.BadRequest(c, "параметр "+name+" должен быть положительным целым числом")
				return
			}
			c.Set(ParamKey(name), id)
		}
		c.Next()
	}
}

func ParamKey(name string) string {
	return "param:" + name
}
