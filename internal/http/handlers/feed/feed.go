package feed

import (
	"errors"
	"net/http"
	"sort"

	"github.com/hornhub/hornhub-service/internal/catalog"
	"github.com/hornhub/hornhub-service/internal/http/middleware"
	"github.com/hornhub/hornhub-service/internal/profiles"
	"github.com/hornhub/hornhub-service/internal/types"
	"github.com/hornhub/hornhub-service/internal/utils/response"
)

// Item is a catalog record enriched with the uploader's display
// profile. Uploader is nil when the stored uploaded_by no longer
// matches a directory entry.
type Item struct {
	types.MediaItem
	Uploader *types.Profile `json:"uploader,omitempty"`
}

// Feed returns the video feed, newest first
// @Summary Get the video feed
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Item "Videos, newest first"
// @Failure 401 {object} response.Response "Unauthorized"
// @Router /feed [get]
func Feed(cat *catalog.Catalog, dir *profiles.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		items := present(cat.Videos(r.Context()), dir)
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Videos fetched successfully", items))
	}
}

// Gallery returns the image gallery, newest first
// @Summary Get the image gallery
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Item "Images, newest first"
// @Failure 401 {object} response.Response "Unauthorized"
// @Router /gallery [get]
func Gallery(cat *catalog.Catalog, dir *profiles.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		items := present(cat.Images(r.Context()), dir)
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Images fetched successfully", items))
	}
}

// present sorts newest-first and resolves uploader profiles. Ordering
// is a presentation concern; the catalog itself guarantees none.
func present(records []types.MediaItem, dir *profiles.Directory) []Item {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UploadedAt > records[j].UploadedAt
	})

	items := make([]Item, 0, len(records))
	for _, record := range records {
		item := Item{MediaItem: record}
		if profile, ok := dir.LookupByID(record.UploadedBy); ok {
			item.Uploader = &profile
		}
		items = append(items, item)
	}
	return items
}
