package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/scriptkid03/audioscript/internal/db"
	"github.com/scriptkid03/audioscript/utils"
)

const defaultHistoryLimit = 20

// ListTranscriptions returns the most recent transcriptions.
//
//	@Summary		List recent transcriptions
//	@Tags			history
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum records"	default(20)
//	@Success		200		{array}		models.TranscriptionRecord
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		503		{object}	models.ErrorResponse
//	@Router			/api/v1/transcriptions [get]
func (h *ApplicationHandler) ListTranscriptions(c *fiber.Ctx) error {
	if h.History == nil {
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "Transcription history is not enabled")
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	records, err := h.History.RecentTranscriptions(limit)
	if err != nil {
		h.Logger.Errorf("Error fetching transcription history: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not fetch transcription history")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, records)
}

// GetTranscription returns one stored transcription.
//
//	@Summary		Get a transcription
//	@Tags			history
//	@Produce		json
//	@Param			id	path		string	true	"Transcription ID"
//	@Success		200	{object}	models.TranscriptionRecord
//	@Failure		400	{object}	models.ErrorResponse
//	@Failure		404	{object}	models.ErrorResponse
//	@Failure		503	{object}	models.ErrorResponse
//	@Router			/api/v1/transcriptions/{id} [get]
func (h *ApplicationHandler) GetTranscription(c *fiber.Ctx) error {
	if h.History == nil {
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "Transcription history is not enabled")
	}

	idStr := c.Params("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid transcription ID format")
	}

	record, err := h.History.GetTranscription(id)
	if errors.Is(err, db.ErrNotFound) {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Transcription not found")
	}
	if err != nil {
		h.Logger.Errorf("Error fetching transcription %s: %v", id, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not fetch transcription")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, record)
}

// Health reports liveness and the configured provider.
//
//	@Summary	Health check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/health [get]
func (h *ApplicationHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "ok",
		"message":  "AudioScript API is healthy",
		"provider": h.Transcriber.Name(),
	})
}
