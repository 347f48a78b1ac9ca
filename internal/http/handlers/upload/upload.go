package upload

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hornhub/hornhub-service/internal/http/middleware"
	mediaService "github.com/hornhub/hornhub-service/internal/services/media"
	"github.com/hornhub/hornhub-service/internal/types"
	"github.com/hornhub/hornhub-service/internal/utils/response"
)

// Handlers serves the three upload sub-modes: video, image and
// profile picture. All three take a multipart form with a "file"
// part; the video mode additionally requires a "title" field.
type Handlers struct {
	gateway *mediaService.Gateway
}

func NewHandlers(gateway *mediaService.Gateway) *Handlers {
	return &Handlers{gateway: gateway}
}

// Video uploads a video into the feed
// @Summary Upload a video
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Video file (max 50MB)"
// @Param title formData string true "Video title"
// @Success 201 {object} types.MediaItem "Uploaded"
// @Failure 400 {object} response.Response "Validation failed"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 502 {object} response.Response "Transfer failed"
// @Security BearerAuth
// @Router /upload/video [post]
func (h *Handlers) Video() http.HandlerFunc {
	return h.mediaUpload(types.MediaTypeVideo)
}

// Image uploads an image into the gallery
// @Summary Upload an image
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file (max 10MB)"
// @Success 201 {object} types.MediaItem "Uploaded"
// @Failure 400 {object} response.Response "Validation failed"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 502 {object} response.Response "Transfer failed"
// @Security BearerAuth
// @Router /upload/image [post]
func (h *Handlers) Image() http.HandlerFunc {
	return h.mediaUpload(types.MediaTypeImage)
}

func (h *Handlers) mediaUpload(mediaType types.MediaType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("file is required")))
			return
		}
		defer file.Close()

		item, err := h.gateway.Upload(r.Context(), file, header.Size,
			header.Filename, header.Header.Get("Content-Type"),
			mediaType, r.FormValue("title"), userID)
		if err != nil {
			writeUploadError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Upload complete", item))
	}
}

// ProfilePicture replaces the current user's avatar
// @Summary Upload a profile picture
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file (max 10MB)"
// @Success 200 {object} map[string]string "New avatar URL"
// @Failure 400 {object} response.Response "Validation failed"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 502 {object} response.Response "Transfer failed"
// @Security BearerAuth
// @Router /upload/profile-picture [post]
func (h *Handlers) ProfilePicture() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("file is required")))
			return
		}
		defer file.Close()

		url, err := h.gateway.UploadProfilePicture(r.Context(), file, header.Size,
			header.Header.Get("Content-Type"), userID)
		if err != nil {
			writeUploadError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Profile picture updated", map[string]string{
			"url": url,
		}))
	}
}

// writeUploadError maps gateway errors to status codes: validation
// failures go back verbatim, transfer failures as a generic message
// the user can retry on.
func writeUploadError(w http.ResponseWriter, err error) {
	var ve *mediaService.ValidationError
	if errors.As(err, &ve) {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New(ve.Reason)))
		return
	}

	var te *mediaService.TransferError
	if errors.As(err, &te) {
		slog.Error("Upload transfer failed", slog.String("error", te.Error()))
		response.WriteJSON(w, http.StatusBadGateway, response.GeneralError(errors.New("upload failed, please try again")))
		return
	}

	slog.Error("Upload failed", slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("upload failed")))
}
