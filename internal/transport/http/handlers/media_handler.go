package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/tiagocodinha/StagelinkApproval/internal/services/auth"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/media"
	"github.com/tiagocodinha/StagelinkApproval/internal/transport/http/dto"
)

type MediaService interface {
	Upload(ctx context.Context, actor auth.Identity, contentType string, size int64, reader io.Reader) (media.UploadResult, error)
	MaxBytes() int64
}

type MediaHandler struct {
	service MediaService
	logger  *zap.Logger
}

func NewMediaHandler(service MediaService, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{service: service, logger: logger}
}

// Upload accepts one multipart file under the "file" field. The body
// is capped slightly above the media limit so the multipart framing
// itself fits.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.service.MaxBytes()+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")

	result, err := h.service.Upload(r.Context(), identity, contentType, header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrUnsupportedMedia):
			writeBadRequest(w, "unsupported media type")
		case errors.Is(err, media.ErrMediaTooLarge):
			writeBadRequest(w, "media exceeds the upload limit")
		default:
			writeServiceError(w, h.logger, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.UploadResponse{
		URL:       result.URL,
		MediaKind: string(result.MediaKind),
	})
}
