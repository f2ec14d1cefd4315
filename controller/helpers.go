package controller

import (
	"strconv"

	"ecommerce-api/apperror"
	"ecommerce-api/middleware"
	"ecommerce-api/utils"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, err error) {
	middleware.Abort(c, err)
}

// paramID parses a positive numeric path parameter, answering 400 otherwise.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apperror.Validation("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

func bindPage(c *gin.Context) (utils.Page, bool) {
	var page utils.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		respondError(c, apperror.Validation("%s", err.Error()))
		return utils.Page{}, false
	}
	return page, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperror.Validation("%s", err.Error()))
		return false
	}
	return true
}
