package controller

import (
	"net/http"

	"ecommerce-api/middleware"
	"ecommerce-api/service"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	users *service.UserService
}

func NewUserController(users *service.UserService) *UserController {
	return &UserController{users: users}
}

func (ctl *UserController) CreateUser(c *gin.Context) {
	var input service.UserInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := ctl.users.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (ctl *UserController) GetUsers(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	users, err := ctl.users.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (ctl *UserController) GetUserID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := ctl.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me returns the authenticated user.
func (ctl *UserController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

func (ctl *UserController) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var patch service.UserPatch
	if !bindJSON(c, &patch) {
		return
	}
	user, err := ctl.users.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (ctl *UserController) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
