package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/lecturehub/internal/app/models/dto"
)

// BindJSON binds and validates the JSON body into obj.
// On failure it writes the 400 envelope and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.HandleValidationError(err))
		return false
	}
	return true
}

// BindForm binds and validates form values (including multipart text fields) into obj
func BindForm(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.HandleValidationError(err))
		return false
	}
	return true
}

// BindQuery binds query string parameters into obj
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.HandleValidationError(err))
		return false
	}
	return true
}
