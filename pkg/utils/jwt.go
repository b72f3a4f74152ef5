package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var ErrEmptySecret = errors.New("jwt secret is empty")

func CreateJWTToken(userID int64, userName string, externalID string, jwtSecretKey string) (string, error) {
	if jwtSecretKey == "" {
		return "", ErrEmptySecret
	}

	claims := jwt.MapClaims{}
	claims["authorized"] = true
	claims["userID"] = userID
	claims["name"] = userName
	claims["externalID"] = externalID
	claims["exp"] = time.Now().Add(time.Hour * 24).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecretKey))
}

// ExtractTokenUser reads the claims the auth gate stored under "user".
// Zero values are returned when the request did not pass the gate.
func ExtractTokenUser(c echo.Context) (uint64, string, string) {
	user, ok := c.Get("user").(*jwt.Token)
	if !ok || !user.Valid {
		return 0, "", ""
	}

	claims, ok := user.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ""
	}

	userID, _ := claims["userID"].(float64)
	name, _ := claims["name"].(string)
	externalID, _ := claims["externalID"].(string)

	return uint64(userID), name, externalID
}
