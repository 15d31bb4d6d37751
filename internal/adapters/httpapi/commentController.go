package httpapi

import (
	"minisocial/internal/adapters/httpapi/response"
	"minisocial/internal/metrics"
	commentPort "minisocial/internal/ports/comment"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CommentController struct{ cc PostUseCase }

func NewCommentController(cc PostUseCase) *CommentController { return &CommentController{cc: cc} }

func (ctl *CommentController) ListComments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	comments, err := ctl.cc.ListComments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]*commentPort.CommentDTO, 0, len(comments))
	for _, cm := range comments {
		out = append(out, commentPort.ToDTO(cm))
	}
	c.JSON(http.StatusOK, out)
}

func (ctl *CommentController) AddComment(c *gin.Context) {
	u, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req contentRequest
	if !bindJSON(c, &req) {
		return
	}
	cm, err := ctl.cc.AddComment(c.Request.Context(), id, u, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	metrics.RecordInteraction("comment")
	c.JSON(http.StatusCreated, commentPort.ToDTO(cm))
}

func (ctl *CommentController) DeleteComment(c *gin.Context) {
	u, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	if err := ctl.cc.DeleteComment(c.Request.Context(), id, u); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
