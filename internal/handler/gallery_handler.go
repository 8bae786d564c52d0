package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/service"
	"github.com/sevasetu/backend/pkg/ginutil"
)

// GalleryHandler handles HTTP requests for gallery images
type GalleryHandler struct {
	service service.GalleryService
}

// NewGalleryHandler creates a new GalleryHandler
func NewGalleryHandler(service service.GalleryService) *GalleryHandler {
	return &GalleryHandler{service: service}
}

// ListGallery godoc
// @Summary      List gallery images
// @Description  Public endpoint. Optionally filtered by category.
// @Tags         gallery
// @Produce      json
// @Param        category  query  string  false  "Image category"
// @Param        page      query  int     false  "Page number"
// @Param        limit     query  int     false  "Page size"
// @Success      200  {object}  common.APIResponse{data=service.ListResponse}
// @Router       /gallery [get]
func (h *GalleryHandler) ListGallery(c *gin.Context) {
	data, err := h.service.List(
		c.Query("category"),
		ginutil.QueryInt(c, "page", 1),
		ginutil.QueryInt(c, "limit", 20),
	)
	if err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, data.Items, &common.Meta{
		Page:       data.Page,
		Limit:      data.Limit,
		Total:      data.Total,
		TotalPages: data.TotalPages,
	})
}

// UploadGalleryImage godoc
// @Summary      Upload gallery image
// @Tags         gallery
// @Accept       multipart/form-data
// @Produce      json
// @Param        title     formData  string  false  "Image title"
// @Param        category  formData  string  false  "Image category"
// @Param        image     formData  file    true   "Image file"
// @Success      201  {object}  common.APIResponse{data=domain.GalleryImage}
// @Failure      400  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/gallery [post]
func (h *GalleryHandler) UploadGalleryImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		common.ErrorResponse(c, 400, "Image file is required", err)
		return
	}

	f, err := file.Open()
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid image upload", err)
		return
	}
	defer func() { _ = f.Close() }()

	data, err := h.service.Upload(
		c.Request.Context(),
		c.PostForm("title"),
		c.PostForm("category"),
		file.Filename,
		file.Size,
		f,
	)
	if err != nil {
		common.MapError(c, err)
		return
	}

	common.CreatedResponse(c, data)
}

// DeleteGalleryImage godoc
// @Summary      Delete gallery image
// @Description  Removes both the database record and the stored file.
// @Tags         gallery
// @Produce      json
// @Param        id  path  int  true  "Image ID"
// @Success      200  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/gallery/{id} [delete]
func (h *GalleryHandler) DeleteGalleryImage(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid image ID", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"status": "deleted"}, nil)
}
