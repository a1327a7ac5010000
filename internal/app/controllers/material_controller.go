package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/lecturehub/internal/app/models/dto"
	"github.com/yigit/lecturehub/internal/app/repositories"
	"github.com/yigit/lecturehub/internal/app/services"
	"github.com/yigit/lecturehub/internal/middleware"
	"github.com/yigit/lecturehub/internal/pkg/apperrors"
)

// multipartOverhead is the slack allowed on top of the file size for form fields and boundaries
const multipartOverhead = 1 << 20

// parseIDParam parses a positive ID from the request path
func parseIDParam(ctx *gin.Context, paramName string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// MaterialController handles lecture material endpoints
type MaterialController struct {
	materialService services.MaterialService
	maxFileSize     int64
	logger          zerolog.Logger
}

// NewMaterialController creates a new MaterialController
func NewMaterialController(materialService services.MaterialService, maxFileSize int64, logger zerolog.Logger) *MaterialController {
	return &MaterialController{
		materialService: materialService,
		maxFileSize:     maxFileSize,
		logger:          logger,
	}
}

// List returns all materials, newest first, optionally filtered by lecturerId and code.
// GET /api/materials
func (c *MaterialController) List(ctx *gin.Context) {
	var query dto.MaterialListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	var filter repositories.MaterialFilter
	if raw := strings.TrimSpace(query.LecturerID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeBadRequest, "Invalid lecturer ID"))
			return
		}
		filter.LecturerID = &id
	}
	if code := strings.TrimSpace(query.Code); code != "" {
		filter.Code = &code
	}

	materials, err := c.materialService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(materials, ""))
}

// Search matches the query against title, code and subject.
// GET /api/materials/search?query=
func (c *MaterialController) Search(ctx *gin.Context) {
	materials, err := c.materialService.Search(ctx.Request.Context(), ctx.Query("query"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(materials, ""))
}

// Upload accepts a multipart form with title, subject, code and file.
// POST /api/materials
func (c *MaterialController) Upload(ctx *gin.Context) {
	lecturerID, ok := middleware.LecturerIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
		return
	}

	if c.maxFileSize > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxFileSize+multipartOverhead)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrFileTooLarge, "File too large"))
			return
		}
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("No file uploaded"))
		return
	}

	var req dto.CreateMaterialRequest
	if !middleware.BindForm(ctx, &req) {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	material, err := c.materialService.Upload(ctx.Request.Context(), lecturerID, &req, &services.FileUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(material, "File uploaded successfully and course auto-assigned"))
}

// View redirects to the stored file.
// GET /api/materials/:id
func (c *MaterialController) View(ctx *gin.Context) {
	c.redirectToFile(ctx)
}

// Download redirects to the stored file.
// GET /api/materials/:id/download
func (c *MaterialController) Download(ctx *gin.Context) {
	c.redirectToFile(ctx)
}

func (c *MaterialController) redirectToFile(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeBadRequest, "Invalid material ID"))
		return
	}

	url, err := c.materialService.ResolveFileURL(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Redirect(http.StatusFound, url)
}

// Delete removes a material owned by the session's lecturer.
// DELETE /api/materials/:id
func (c *MaterialController) Delete(ctx *gin.Context) {
	lecturerID, ok := middleware.LecturerIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeBadRequest, "Invalid material ID"))
		return
	}

	if err := c.materialService.Delete(ctx.Request.Context(), id, lecturerID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Material deleted successfully"))
}
