package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-commands/utils"
)

const (
	CtxStaffID      = "staff_id"
	CtxRestaurantID = "restaurant_id"
	CtxRole         = "role"
)

// AuthMiddleware verifies the bearer token and stores the staff identity
// on the context. Authorization of the action itself happens in services.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid token format"))
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *utils.StaffClaims) {
	c.Set(CtxStaffID, claims.StaffID)
	c.Set(CtxRestaurantID, claims.RestaurantID)
	c.Set(CtxRole, claims.Role)
}

// StaffID returns the authenticated staff id, or zero.
func StaffID(c *gin.Context) uint {
	return c.GetUint(CtxStaffID)
}
