package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sdsposter/internal/service"
)

// PictogramHandler manages custom pictogram artwork.
type PictogramHandler struct {
	pictogramService service.PictogramService
}

// NewPictogramHandler creates a new PictogramHandler.
func NewPictogramHandler(pictogramService service.PictogramService) *PictogramHandler {
	return &PictogramHandler{pictogramService: pictogramService}
}

// List handles GET /api/v1/pictograms
// @Summary List pictograms
// @Description The nine GHS pictograms with default, custom and effective image URLs.
// @Tags pictograms
// @Produce json
// @Success 200 {object} Response{data=[]service.PictogramView} "Pictograms"
// @Router /pictograms [get]
func (h *PictogramHandler) List(c *gin.Context) {
	views, err := h.pictogramService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, views)
}

// Upload handles PUT /api/v1/pictograms/:code
// @Summary Set a custom pictogram image
// @Description Replace the artwork for one GHS code (PNG, JPEG, WebP, SVG or GIF).
// @Tags pictograms
// @Accept multipart/form-data
// @Produce json
// @Param code path string true "Pictogram code, e.g. GHS-02"
// @Param image formData file true "Image file"
// @Success 200 {object} Response{data=service.PictogramView} "Override stored"
// @Failure 400 {object} ErrorResponseBody "Unknown code, missing image or unsupported type"
// @Failure 413 {object} ErrorResponseBody "Image too large"
// @Failure 500 {object} ErrorResponseBody "Upload failed"
// @Router /pictograms/{code} [put]
func (h *PictogramHandler) Upload(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_IMAGE", "image field is required")
		return
	}
	defer func() { _ = file.Close() }()

	view, err := h.pictogramService.SetOverride(c.Request.Context(), service.PictogramUploadInput{
		Code: c.Param("code"),
		Body: file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// Delete handles DELETE /api/v1/pictograms/:code
// @Summary Remove a custom pictogram image
// @Description Restores the default artwork for the code.
// @Tags pictograms
// @Produce json
// @Param code path string true "Pictogram code, e.g. GHS-02"
// @Success 200 {object} Response{data=MessageResponse} "Override removed"
// @Failure 400 {object} ErrorResponseBody "Unknown code"
// @Failure 404 {object} ErrorResponseBody "No override for this code"
// @Router /pictograms/{code} [delete]
func (h *PictogramHandler) Delete(c *gin.Context) {
	if err := h.pictogramService.DeleteOverride(c.Request.Context(), c.Param("code")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, MessageResponse{Message: "custom pictogram removed"})
}
