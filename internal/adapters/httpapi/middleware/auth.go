package middleware

import (
	"context"
	"minisocial/internal/adapters/httpapi/response"
	"minisocial/internal/core/user"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// Authenticator resolves an Authorization header into a user.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*user.User, error)
}

// JWTAuthMiddleware rejects the request with 401 unless it carries a valid
// bearer token.
func JWTAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := auth.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			response.Abort(c, err)
			return
		}
		c.Set(currentUserKey, u)
		c.Next()
	}
}

// OptionalAuthMiddleware lets anonymous requests through. A header that is
// present but invalid is still rejected.
func OptionalAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		u, err := auth.Authenticate(c.Request.Context(), header)
		if err != nil {
			response.Abort(c, err)
			return
		}
		c.Set(currentUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the user resolved by one of the auth middlewares.
func CurrentUser(c *gin.Context) (*user.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok && u != nil
}
