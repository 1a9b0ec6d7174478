package security

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SHANKAR-YADAVA/ChatApp/tools/errs"
	jwtlib "github.com/SHANKAR-YADAVA/ChatApp/tools/security"
)

// Context key the authenticated user ID is stored under.
const CtxUserIDKey = "userID"

// CookieName matches the cookie the auth handlers set.
const CookieName = "jwt"

// Middleware is the protectRoute equivalent: token from the jwt cookie or an
// Authorization bearer header, verified, user ID stashed in the gin context.
func Middleware(opts jwtlib.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(CookieName)
		if token == "" {
			if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
				if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					token = strings.TrimSpace(authz[len("bearer "):])
				}
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenExpired)
			return
		}

		userID, err := jwtlib.Verify(opts, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenExpired)
			return
		}
		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}

// UserID reads the authenticated user ID set by Middleware.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
