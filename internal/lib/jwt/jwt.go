package jwt

import (
	"time"

	"photoshare/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// NewToken issues a signed HS256 token carrying the user identity.
func NewToken(user models.User, secret string, duration time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["uid"] = user.ID.String()
	claims["username"] = user.Username
	claims["email"] = user.Email
	claims["staff"] = user.IsStaff
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(duration).Unix()

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
