package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
)

// TokenManager проверяет access токены, выпущенные сервисом идентификации.
// Issue нужен для локальной разработки и тестов.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue выпускает access токен с клеймами sub и role.
func (m *TokenManager) Issue(actor entity.Actor) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(actor.UserID, 10),
		"role": string(actor.Role),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseAccess извлекает пользователя и роль из access токена.
func (m *TokenManager) ParseAccess(token string) (entity.Actor, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return entity.Actor{}, err
	}
	if !parsed.Valid {
		return entity.Actor{}, jwt.ErrTokenInvalidClaims
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return entity.Actor{}, jwt.ErrTokenInvalidClaims
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return entity.Actor{}, err
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return entity.Actor{}, errors.New("некорректный sub в токене")
	}

	rawRole, _ := claims["role"].(string)
	role, err := valueobject.NewRole(rawRole)
	if err != nil {
		return entity.Actor{}, err
	}

	return entity.Actor{UserID: userID, Role: role}, nil
}
