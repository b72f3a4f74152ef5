package middleware

import (
	"net/http"

	"github.com/alimikegami/point-of-sales/product-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/product-service/pkg/response"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthGate accepts requests carrying "Authorization: Bearer <token>" signed
// with secret. The parsed token is stored under "user". With an empty secret
// every request is rejected.
func AuthGate(secret string) echo.MiddlewareFunc {
	if secret == "" {
		log.Error().Str("component", "AuthGate").Msg("JWT secret is empty, rejecting all authenticated routes")

		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return response.WriteMessageResponse(c, http.StatusUnauthorized, errs.ErrNotLoggedIn.Error())
			}
		}
	}

	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		ErrorHandler: func(c echo.Context, err error) error {
			log.Ctx(c.Request().Context()).Warn().Err(err).Str("component", "AuthGate").Msg("")

			return response.WriteMessageResponse(c, http.StatusUnauthorized, errs.ErrNotLoggedIn.Error())
		},
	})
}
