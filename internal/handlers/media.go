package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/chrisvdg/trivia-backend/internal/blob"
)

// Maximum accepted media upload size.
const maxUploadBytes = 32 << 20

// MediaUploader defines the interface that the media store must implement.
type MediaUploader interface {
	Upload(ctx context.Context, filename string, r io.Reader, size int64) (string, error)
}

// UploadMediaResponse represents a successful media upload.
// swagger:model UploadMediaResponse
type UploadMediaResponse struct {
	// URL to attach to a question's media_url field
	MediaURL string `json:"media_url"`
}

// NewUploadMediaHandler returns an HTTP handler for media uploads. The
// file is sent as the multipart form field "file" and stored under a
// fresh unique name; the returned URL is what gets attached to a
// question.
// @Summary Upload a media file
// @Tags media
// @Accept mpfd
// @Produce json
// @Param file formData file true "Media file (jpg, jpeg, png, gif, mp4, mp3)"
// @Success 201 {object} handlers.UploadMediaResponse
// @Failure 400 {object} handlers.ErrorResponse "Missing file or unsupported type"
// @Security BearerAuth
// @Router /media [post]
func NewUploadMediaHandler(store MediaUploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()

		mediaURL, err := store.Upload(r.Context(), header.Filename, file, header.Size)
		if errors.Is(err, blob.ErrUnsupportedType) {
			writeError(w, http.StatusBadRequest, "unsupported media file type")
			return
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, UploadMediaResponse{MediaURL: mediaURL})
	}
}
