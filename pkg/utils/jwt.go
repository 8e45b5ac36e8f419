package utils

import (
	"strings"
	"time"

	"github.com/alimikegami/ppob-storefront/pkg/errs"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

func CreateJWTToken(operatorName string, jwtSecretKey string) (string, error) {
	claims := jwt.MapClaims{}
	claims["authorized"] = true
	claims["name"] = operatorName
	claims["exp"] = time.Now().Add(time.Hour * 24).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(jwtSecretKey))
}

// ValidateOperatorToken checks the bearer token on operator-only endpoints.
func ValidateOperatorToken(c echo.Context, jwtSecretKey string) error {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || tokenString == "" {
		return errs.ErrNotLoggedIn
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrNotLoggedIn
		}
		return []byte(jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return errs.ErrNotLoggedIn
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errs.ErrNotLoggedIn
	}

	if exp, ok := claims["exp"].(float64); ok && int64(exp) < time.Now().Unix() {
		return errs.ErrTokenExpired
	}

	return nil
}
