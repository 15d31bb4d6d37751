package httpapi

import (
	"errors"
	"fmt"
	"io"
	"minisocial/internal/adapters/httpapi/response"
	"minisocial/internal/apperror"
	postapp "minisocial/internal/core/post/service"
	"minisocial/internal/metrics"
	likePort "minisocial/internal/ports/like"
	postPort "minisocial/internal/ports/post"
	"net/http"

	"github.com/gin-gonic/gin"
)

// multipartOverhead is the slack allowed on top of the file for boundaries
// and headers.
const multipartOverhead = 64 << 10

type PostController struct {
	pc             PostUseCase
	maxUploadBytes int64
}

func NewPostController(pc PostUseCase, maxUploadBytes int64) *PostController {
	return &PostController{pc: pc, maxUploadBytes: maxUploadBytes}
}

type contentRequest struct {
	Content string `json:"content"`
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	u, ok := mustUser(c)
	if !ok {
		return
	}
	var req contentRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := ctl.pc.CreatePost(c.Request.Context(), u, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	metrics.RecordInteraction("post")
	c.JSON(http.StatusCreated, postPort.ToDTO(p))
}

func (ctl *PostController) UpdatePost(c *gin.Context) {
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
	p, err := ctl.pc.UpdatePost(c.Request.Context(), id, u, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, postPort.ToDTO(p))
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	u, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ctl.pc.DeletePost(c.Request.Context(), id, u); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// AttachImage expects a multipart form with the image in field "file".
func (ctl *PostController) AttachImage(c *gin.Context) {
	u, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if ctl.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctl.maxUploadBytes+multipartOverhead)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, apperror.Validation(fmt.Sprintf("file exceeds %d bytes", ctl.maxUploadBytes)))
			return
		}
		response.Error(c, apperror.Validation("file is required"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Error(c, apperror.Internal("could not read upload", err))
		return
	}
	defer f.Close()

	var r io.Reader = f
	if ctl.maxUploadBytes > 0 {
		// one extra byte is enough for the service to see the file is too big
		r = io.LimitReader(f, ctl.maxUploadBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		response.Error(c, apperror.Internal("could not read upload", err))
		return
	}

	p, err := ctl.pc.AttachImage(c.Request.Context(), id, u, postapp.Upload{
		Filename: fh.Filename,
		MIMEType: fh.Header.Get("Content-Type"),
		Data:     data,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	metrics.RecordInteraction("image")
	c.JSON(http.StatusOK, postPort.ToDTO(p))
}

func (ctl *PostController) LikePost(c *gin.Context) {
	u, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	status, err := ctl.pc.LikePost(c.Request.Context(), id, u)
	if err != nil {
		response.Error(c, err)
		return
	}
	metrics.RecordInteraction("like")
	c.JSON(http.StatusOK, likePort.LikeStatusDTO{Status: status})
}

func (ctl *PostController) UnlikePost(c *gin.Context) {
	u, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	status, err := ctl.pc.UnlikePost(c.Request.Context(), id, u)
	if err != nil {
		response.Error(c, err)
		return
	}
	metrics.RecordInteraction("unlike")
	c.JSON(http.StatusOK, likePort.LikeStatusDTO{Status: status})
}
