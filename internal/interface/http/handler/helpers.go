package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/http/middleware"
)

var errNoActor = errors.New("пользователь не найден в контексте")

func getActor(c *gin.Context) (entity.Actor, error) {
	rawID, ok := c.Get(middleware.ContextUserIDKey)
	if !ok {
		return entity.Actor{}, errNoActor
	}
	userID, ok := rawID.(int64)
	if !ok {
		return entity.Actor{}, errNoActor
	}
	rawRole, _ := c.Get(middleware.ContextRoleKey)
	role, _ := rawRole.(valueobject.Role)
	return entity.Actor{UserID: userID, Role: role}, nil
}

// pathID читает ID, проверенный middleware.IDParam, или разбирает его сам.
func pathID(c *gin.Context, name string) (int64, error) {
	if v, ok := c.Get(middleware.ParamKey(name)); ok {
		if id, ok := v.(int64); ok {
			return id, nil
		}
	}
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("некорректный ID")
	}
	return id, nil
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func parseDecimalQuery(c *gin.Context, key string) *decimal.Decimal {
	valueStr := c.Query(key)
	if valueStr == "" {
		return nil
	}

	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return nil
	}

	return &value
}
