package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	transcriptionapp "github.com/rahul-raghavan/pep-ops-log/internal/application/transcription"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/utils"
)

type TranscriptionHandler struct {
	transcriptionSvc *transcriptionapp.Service
	maxUploadBytes   int64
	logger           logger.Interface
}

func NewTranscriptionHandler(
	transcriptionSvc *transcriptionapp.Service,
	maxUploadMB int,
	logger logger.Interface,
) *TranscriptionHandler {
	return &TranscriptionHandler{
		transcriptionSvc: transcriptionSvc,
		maxUploadBytes:   int64(maxUploadMB) * 1024 * 1024,
		logger:           logger,
	}
}

// Transcribe godoc
// @Summary Transcribe a voice note
// @Description Converts an uploaded audio file to text and polishes the punctuation and paragraphing. The quality field says whether polishing succeeded ("polished") or the raw transcript came back ("raw").
// @Security SessionCookie
// @Tags transcriptions
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio file"
// @Success 200 {object} utils.APIResponse "Transcript"
// @Failure 400 {object} utils.APIResponse "Missing or oversized audio"
// @Failure 502 {object} utils.APIResponse "Transcription provider failed"
// @Router /transcriptions [post]
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "audio file is required")
		return
	}

	if fileHeader.Size > h.maxUploadBytes {
		utils.ErrorResponse(c, http.StatusBadRequest, "audio file exceeds the upload limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Errorw("failed to open uploaded audio", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		h.logger.Errorw("failed to read uploaded audio", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	if int64(len(audio)) > h.maxUploadBytes {
		utils.ErrorResponse(c, http.StatusBadRequest, "audio file exceeds the upload limit")
		return
	}

	result, err := h.transcriptionSvc.Transcribe(c.Request.Context(), fileHeader.Filename, audio)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}
