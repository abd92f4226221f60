package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scriptkid03/audioscript/internal/aiclient"
	"github.com/scriptkid03/audioscript/internal/formatter"
	"github.com/scriptkid03/audioscript/internal/jobs"
	"github.com/scriptkid03/audioscript/models"
	"github.com/scriptkid03/audioscript/utils"
)

const probeTimeout = 15 * time.Second

// emptyTranscriptDetail is shown verbatim by the frontend.
const emptyTranscriptDetail = "Transcription failed: No transcription result received"

// TranscribeFile handles an uploaded audio file.
//
//	@Summary		Transcribe an uploaded audio file
//	@Tags			transcribe
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file	true	"Audio file"
//	@Param			language	formData	string	false	"Language code"	default(en)
//	@Success		200			{object}	models.TranscribeResponse
//	@Failure		400			{object}	models.ErrorResponse
//	@Failure		500			{object}	models.ErrorResponse
//	@Failure		504			{object}	models.ErrorResponse
//	@Router			/transcribe/file [post]
func (h *ApplicationHandler) TranscribeFile(c *fiber.Ctx) error {
	// Fiber reuses request buffers; the language outlives the handler in the history job.
	language := strings.Clone(utils.SanitizeLanguage(firstNonEmpty(c.FormValue("language"), c.Query("language"))))
	if !utils.IsLanguageCode(language) {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid language code %q", language))
	}

	file, err := c.FormFile("file")
	if err != nil {
		h.Logger.Errorf("Error getting file from request: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Error getting file: %v", err))
	}

	log := h.requestLogger(c).WithFields(logrus.Fields{"filename": file.Filename, "language": language})
	log.Info("Received file")

	tempPath, mimeType, err := h.saveTempFile(file)
	if err != nil {
		log.WithError(err).Error("Error saving upload")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Error saving file: %v", err))
	}
	defer h.removeTempFile(log, tempPath)

	log = log.WithFields(logrus.Fields{"temp_file": tempPath, "mime_type": mimeType})
	log.Info("File saved successfully, starting transcription")

	durationMs := h.probeDuration(c.UserContext(), log, tempPath)

	ctx, cancel := context.WithTimeout(c.UserContext(), h.TranscribeTimeout)
	defer cancel()

	transcript, err := h.Transcriber.TranscribeFile(ctx, tempPath, language)
	return h.completeTranscription(c, log, file.Filename, language, durationMs, transcript, err)
}

// TranscribeURL handles transcription of a publicly reachable audio URL.
//
//	@Summary		Transcribe audio from a URL
//	@Tags			transcribe
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.TranscribeURLRequest	true	"Audio URL and language"
//	@Success		200		{object}	models.TranscribeResponse
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		500		{object}	models.ErrorResponse
//	@Failure		501		{object}	models.ErrorResponse
//	@Failure		504		{object}	models.ErrorResponse
//	@Router			/transcribe/url [post]
func (h *ApplicationHandler) TranscribeURL(c *fiber.Ctx) error {
	payload := new(models.TranscribeURLRequest)
	if err := c.BodyParser(payload); err != nil {
		h.Logger.Errorf("Error parsing transcribe url payload: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}

	payload.URL = strings.TrimSpace(payload.URL)
	payload.Language = utils.SanitizeLanguage(payload.Language)
	if err := utils.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			"Validation failed: "+strings.Join(utils.FormatValidationErrors(err), "; "))
	}

	log := h.requestLogger(c).WithFields(logrus.Fields{"url": payload.URL, "language": payload.Language})
	log.Info("Received URL")

	ctx, cancel := context.WithTimeout(c.UserContext(), h.TranscribeTimeout)
	defer cancel()

	transcript, err := h.Transcriber.TranscribeURL(ctx, payload.URL, payload.Language)
	return h.completeTranscription(c, log, payload.URL, payload.Language, nil, transcript, err)
}

// completeTranscription maps provider and formatting failures to responses,
// queues the history record and writes the success body.
func (h *ApplicationHandler) completeTranscription(c *fiber.Ctx, log *logrus.Entry, source, language string, durationMs *int64, transcript *models.Transcript, err error) error {
	if err != nil {
		log.WithError(err).Error("Transcription error")
		switch {
		case errors.Is(err, aiclient.ErrEmptyTranscript):
			return utils.RespondWithError(c, fiber.StatusInternalServerError, emptyTranscriptDetail)
		case errors.Is(err, aiclient.ErrUnsupported):
			return utils.RespondWithError(c, fiber.StatusNotImplemented,
				fmt.Sprintf("Provider %s does not support this operation", h.Transcriber.Name()))
		case errors.Is(err, context.DeadlineExceeded):
			return utils.RespondWithError(c, fiber.StatusGatewayTimeout, "Transcription failed: provider timed out")
		default:
			return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Transcription failed: %v", err))
		}
	}
	if transcript == nil || transcript.Text == "" {
		log.Error("Transcription returned no text")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, emptyTranscriptDetail)
	}
	log.WithField("words", len(transcript.Words)).Info("Transcription completed successfully")

	formatted, err := formatter.Format(*transcript)
	if err != nil {
		log.WithError(err).Error("Error formatting transcript")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Failed to format transcript")
	}

	h.recordTranscription(log, models.TranscriptionRecord{
		ID:              uuid.New(),
		Source:          source,
		Language:        language,
		Provider:        h.Transcriber.Name(),
		Text:            transcript.Text,
		FormattedText:   formatted,
		AudioDurationMs: durationMs,
		CreatedAt:       time.Now().UTC(),
	})

	return c.Status(fiber.StatusOK).JSON(models.TranscribeResponse{
		Text:          transcript.Text,
		FormattedText: formatted,
	})
}

// saveTempFile copies the upload to a temp file keeping the original
// extension, or the sniffed one when the filename has none.
func (h *ApplicationHandler) saveTempFile(file *multipart.FileHeader) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(filepath.Base(file.Filename))
	tmp, err := os.CreateTemp(h.TempDir, "audioscript-*"+ext)
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(path)
		return "", "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("close temp file: %w", err)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return path, "", nil
	}
	if ext == "" && mtype.Extension() != "" {
		renamed := path + mtype.Extension()
		if err := os.Rename(path, renamed); err == nil {
			path = renamed
		}
	}
	return path, mtype.String(), nil
}

// removeTempFile deletes the request's temp file. Failures are logged only.
func (h *ApplicationHandler) removeTempFile(log *logrus.Entry, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Error("Error cleaning up temp file")
		return
	}
	log.Debug("Temporary file cleaned up")
}

func (h *ApplicationHandler) probeDuration(parent context.Context, log *logrus.Entry, path string) *int64 {
	if h.Prober == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(parent, probeTimeout)
	defer cancel()

	d, err := h.Prober.Duration(ctx, path)
	if err != nil {
		log.WithError(err).Debug("Could not probe audio duration")
		return nil
	}
	ms := d.Milliseconds()
	log.WithField("duration_ms", ms).Debug("Probed audio duration")
	return &ms
}

func (h *ApplicationHandler) recordTranscription(log *logrus.Entry, record models.TranscriptionRecord) {
	if h.History == nil || h.Jobs == nil {
		return
	}
	if err := h.Jobs.SubmitJob(jobs.NewRecordTranscriptionJob(h.History, record)); err != nil {
		log.WithError(err).WithField("record_id", record.ID).Warn("Dropped transcription history record")
	}
}

func (h *ApplicationHandler) requestLogger(c *fiber.Ctx) *logrus.Entry {
	entry := logrus.NewEntry(h.Logger)
	if id, ok := c.Locals("requestid").(string); ok {
		entry = entry.WithField("request_id", id)
	}
	return entry
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
