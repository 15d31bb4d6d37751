package httpapi

import (
	"minisocial/internal/adapters/httpapi/response"
	"minisocial/internal/core/feed"
	postPort "minisocial/internal/ports/post"
	"net/http"

	"github.com/gin-gonic/gin"
)

type FeedController struct{ fc FeedUseCase }

func NewFeedController(fc FeedUseCase) *FeedController { return &FeedController{fc: fc} }

// GlobalFeed serves both /posts and /posts/me-feed; they differ only in
// whether a viewer is required.
func (ctl *FeedController) GlobalFeed(c *gin.Context) {
	ctl.list(c, feed.Global())
}

func (ctl *FeedController) UserFeed(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctl.list(c, feed.ByUser(id))
}

func (ctl *FeedController) list(c *gin.Context, scope feed.Scope) {
	q, ok := pageQuery(c, scope)
	if !ok {
		return
	}
	posts, err := ctl.fc.ListFeed(c.Request.Context(), q, viewer(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, postPort.ToDTOs(posts))
}

func (ctl *FeedController) GetPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := ctl.fc.GetPost(c.Request.Context(), id, viewer(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, postPort.ToDTO(p))
}
