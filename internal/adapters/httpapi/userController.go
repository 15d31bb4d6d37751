package httpapi

import (
	"minisocial/internal/adapters/httpapi/response"
	userPort "minisocial/internal/ports/user"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserController struct{ uc UserUseCase }

func NewUserController(uc UserUseCase) *UserController { return &UserController{uc: uc} }

func (ctl *UserController) RegisterUser(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	tok, err := ctl.uc.RegisterUser(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, tok)
}

func (ctl *UserController) LoginUser(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	tok, err := ctl.uc.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, tok)
}

// Me is the owner view of the caller.
func (ctl *UserController) Me(c *gin.Context) {
	u, ok := mustUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctl.uc.OwnerView(u))
}

// MePublic is the public view of the caller.
func (ctl *UserController) MePublic(c *gin.Context) {
	u, ok := mustUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, userPort.ToPublic(u))
}

func (ctl *UserController) GetPublicProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	profile, err := ctl.uc.GetPublicProfile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (ctl *UserController) DeleteAccount(c *gin.Context) {
	u, ok := mustUser(c)
	if !ok {
		return
	}
	if err := ctl.uc.DeleteAccount(c.Request.Context(), u); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
