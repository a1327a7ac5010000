package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/lecturehub/internal/app/models/dto"
	"github.com/yigit/lecturehub/internal/app/services"
	"github.com/yigit/lecturehub/internal/middleware"
)

// CourseController handles the session lecturer's course endpoints
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// List returns the lecturer's courses with material counts.
// GET /api/lecturer/courses
func (c *CourseController) List(ctx *gin.Context) {
	lecturerID, ok := middleware.LecturerIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
		return
	}

	courses, err := c.courseService.ListWithCounts(ctx.Request.Context(), lecturerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses, fmt.Sprintf("Found %d courses", len(courses))))
}

// Materials lists the lecturer's materials of the course identified by its slug.
// GET /api/lecturer/courses/:slug/materials
func (c *CourseController) Materials(ctx *gin.Context) {
	lecturerID, ok := middleware.LecturerIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
		return
	}

	result, err := c.courseService.MaterialsBySlug(ctx.Request.Context(), lecturerID, ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}
