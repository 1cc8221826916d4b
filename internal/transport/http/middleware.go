package http

import (
	"strings"

	"photoshare/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const actorContextKey = "actor"

// ActorMiddleware разбирает Bearer-токен и кладет актора в контекст.
// Невалидный или отсутствующий токен дает анонимного актора, запрос
// не отклоняется: решение принимает слой сервисов.
func ActorMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(actorContextKey, parseActor(c.Request().Header.Get("Authorization"), secret))
			return next(c)
		}
	}
}

func parseActor(header, secret string) models.Actor {
	const prefix = "Bearer "

	if !strings.HasPrefix(header, prefix) {
		return models.Actor{}
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, prefix), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return models.Actor{}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Actor{}
	}

	uid, ok := claims["uid"].(string)
	if !ok {
		return models.Actor{}
	}

	id, err := uuid.Parse(uid)
	if err != nil {
		return models.Actor{}
	}

	actor := models.Actor{ID: id, Authenticated: true}
	if staff, ok := claims["staff"].(bool); ok {
		actor.IsStaff = staff
	}

	return actor
}

func actorFromContext(c echo.Context) models.Actor {
	if actor, ok := c.Get(actorContextKey).(models.Actor); ok {
		return actor
	}
	return models.Actor{}
}
