package httpapi

import (
	"minisocial/internal/adapters/httpapi/middleware"
	"minisocial/internal/adapters/httpapi/response"
	"minisocial/internal/apperror"
	"minisocial/internal/core/feed"
	"minisocial/internal/core/user"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

// pathID parses the uuid path parameter name. On failure the response is
// already written.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param(name))
	if err != nil {
		response.Error(c, apperror.Validation("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// pageQuery reads limit/offset with their defaults. Range checks are left to
// the feed service.
func pageQuery(c *gin.Context, scope feed.Scope) (feed.Query, bool) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(feed.DefaultLimit)))
	if err != nil {
		response.Error(c, apperror.Validation("limit must be an integer"))
		return feed.Query{}, false
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		response.Error(c, apperror.Validation("offset must be an integer"))
		return feed.Query{}, false
	}
	return feed.Query{Scope: scope, Limit: limit, Offset: offset}, true
}

// viewer is the optional identity of the caller.
func viewer(c *gin.Context) *user.User {
	u, _ := middleware.CurrentUser(c)
	return u
}

// mustUser is the identity on routes behind JWTAuthMiddleware.
func mustUser(c *gin.Context) (*user.User, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperror.Unauthorized("missing credentials"))
	}
	return u, ok
}

// bindJSON decodes the body into req, writing a 400 on malformed input.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, apperror.Validation("invalid input"))
		return false
	}
	return true
}
