package api

import (
	"context"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/healthinsights/health-insights-backend/dto"
	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/usecases"
)

const multipartMemory = 8 << 20

func handleChat(uc usecases.Usecases, conf Configuration) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), conf.RequestTimeout)
		defer cancel()

		input, err := readChatInput(c)
		if c.IsAborted() {
			// the request size limiter already answered 413
			return
		}
		if presentError(c, err) {
			return
		}

		usecase := uc.NewChatUsecase()
		result, err := usecase.HandleChat(ctx, input)
		if result.SessionId != "" {
			c.Header(dto.SessionIdHeader, result.SessionId)
		}
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.AdaptChatResponse(result))
	}
}

// readChatInput reads the optional "message" and "file" fields of the multipart form.
func readChatInput(c *gin.Context) (models.ChatInput, error) {
	input := models.ChatInput{SessionId: c.GetHeader(dto.SessionIdHeader)}

	err := c.Request.ParseMultipartForm(multipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return input, errors.Mark(errors.Wrap(err, "Invalid form data"), models.BadParameterError)
	}
	input.Message = c.PostForm("message")

	fileHeader, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return input, nil
	}
	if err != nil {
		return input, errors.Mark(errors.Wrap(err, "Invalid file field"), models.BadParameterError)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return input, errors.Wrap(err, "could not open uploaded file")
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		return input, errors.Wrap(err, "could not read uploaded file")
	}

	input.File = &models.UploadedFile{
		Meta: models.FileMeta{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        len(content),
		},
		Bytes: content,
	}
	return input, nil
}
