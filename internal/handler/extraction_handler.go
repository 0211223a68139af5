package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sdsposter/internal/middleware"
	"sdsposter/internal/service"
)

// ExtractionHandler handles SDS upload and the session's current record.
type ExtractionHandler struct {
	extractionService service.ExtractionService
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(extractionService service.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{extractionService: extractionService}
}

// Create handles POST /api/v1/extractions
// @Summary Extract a hazard record from an SDS
// @Description Upload an SDS (PDF or image). The document is sent to the extraction backend and the resulting trilingual hazard record becomes the session's current record.
// @Tags extractions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "SDS document (PDF, JPEG, PNG, WebP, HEIC)"
// @Param X-Session-ID header string false "Client session ID; issued if absent"
// @Param X-Extraction-Key header string false "Extraction backend API key; server default if absent"
// @Success 201 {object} Response{data=service.ExtractionResult} "Extraction succeeded"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type, or no API key"
// @Failure 409 {object} ErrorResponseBody "Superseded by a newer upload"
// @Failure 413 {object} ErrorResponseBody "File too large or too many pages"
// @Failure 429 {object} ErrorResponseBody "Rate limited"
// @Failure 502 {object} ErrorResponseBody "Extraction backend failed"
// @Router /extractions [post]
func (h *ExtractionHandler) Create(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.extractionService.Extract(c.Request.Context(), service.ExtractionInput{
		SessionID:  middleware.GetSessionID(c),
		Credential: c.GetHeader(middleware.HeaderExtractionKey),
		FileName:   header.Filename,
		Body:       file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// Current handles GET /api/v1/extractions/current
// @Summary Get the current hazard record
// @Description Returns the session's most recent successful extraction with resolved pictograms.
// @Tags extractions
// @Produce json
// @Param X-Session-ID header string true "Client session ID"
// @Success 200 {object} Response{data=service.ExtractionResult} "Current record"
// @Failure 404 {object} ErrorResponseBody "No record for this session"
// @Router /extractions/current [get]
func (h *ExtractionHandler) Current(c *gin.Context) {
	result, err := h.extractionService.Current(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Reset handles DELETE /api/v1/extractions/current
// @Summary Clear the current hazard record
// @Description Clears the session's record and discards any extraction still in flight.
// @Tags extractions
// @Produce json
// @Param X-Session-ID header string true "Client session ID"
// @Success 200 {object} Response{data=MessageResponse} "Record cleared"
// @Router /extractions/current [delete]
func (h *ExtractionHandler) Reset(c *gin.Context) {
	if err := h.extractionService.Reset(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, MessageResponse{Message: "record cleared"})
}
