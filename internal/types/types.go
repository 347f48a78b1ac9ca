package types

import "fmt"

type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypeImage MediaType = "image"
)

// Profile is a user's identity record. Values handed out by the
// directory and the session store are copies, not live references.
type Profile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
}

// MediaItem is the metadata record for one uploaded video or image.
// Title is only set for videos. The catalog is append-only, so there
// is no updated or deleted state to carry.
type MediaItem struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Title      string    `json:"title,omitempty"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt int64     `json:"uploaded_at"`
	Type       MediaType `json:"type"`
}

// MediaItemID derives the catalog ID from the uploader and the upload
// timestamp (epoch milliseconds). Two uploads by the same user within
// the same millisecond collide; the catalog does not dedup.
func MediaItemID(uploadedBy string, uploadedAtMillis int64) string {
	return fmt.Sprintf("%s-%d", uploadedBy, uploadedAtMillis)
}
