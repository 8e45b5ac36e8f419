package middleware

import (
	"github.com/alimikegami/ppob-storefront/pkg/response"
	"github.com/alimikegami/ppob-storefront/pkg/utils"
	"github.com/labstack/echo/v4"
)

// OperatorOnly guards the manual-reconciliation endpoints with the shared
// operator JWT.
func OperatorOnly(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := utils.ValidateOperatorToken(c, jwtSecret); err != nil {
				return response.WriteErrorResponse(c, err, nil)
			}

			return next(c)
		}
	}
}
