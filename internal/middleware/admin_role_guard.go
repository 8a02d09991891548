package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shopapi/internal/domain/model"
)

// AdminOnlyはAuthJWTの後ろに付ける。roleがadmin以外は403。
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxUserRoleKey).(string)
			if role != string(model.RoleAdmin) {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}
			return next(c)
		}
	}
}
