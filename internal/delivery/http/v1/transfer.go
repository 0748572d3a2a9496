package v1

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-local/internal/transfer"
)

const importFileField = "file"

func (h *handlerImpl) HandleExport(c *gin.Context) {
	format := c.DefaultQuery("format", transfer.FormatJSON)
	snapshot := h.tasks.Snapshot()

	data, err := transfer.Export(snapshot.Tasks, format)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("format", format).
			Msg("failed to export tasks")
		abort(c, newBadRequestError(err.Error()))
		return
	}

	h.logger.Info().
		Str("format", format).
		Int("count", len(snapshot.Tasks)).
		Msg("exported tasks")
	c.Header("Content-Disposition", `attachment; filename="`+transfer.FileName(format)+`"`)
	c.Data(http.StatusOK, transfer.ContentType(format), data)
}

func (h *handlerImpl) HandleImport(c *gin.Context) {
	r, closeFn, err := importReader(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to open import file")
		abort(c, newBadRequestError(errMissingImportFile.Error()))
		return
	}
	defer closeFn()

	data, err := transfer.ReadImport(r)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to read import file")
		if errors.Is(err, transfer.ErrImportTooBig) {
			abort(c, newAPIError(http.StatusRequestEntityTooLarge, err.Error()))
			return
		}
		abort(c, newBadRequestError(err.Error()))
		return
	}

	count, err := h.tasks.ImportAll(c, data)
	warning, err := persistWarning(err)
	if err != nil {
		h.handleStoreError(c, err, "failed to import tasks")
		return
	}

	c.JSON(http.StatusOK, countResponse{Count: count, Warning: warning})
}

// importReader accepts either a multipart upload or a raw JSON body.
func importReader(c *gin.Context) (io.Reader, func(), error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return c.Request.Body, func() {}, nil
	}

	header, err := c.FormFile(importFileField)
	if err != nil {
		return nil, nil, err
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return file, func() { _ = file.Close() }, nil
}
