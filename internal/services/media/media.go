package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hornhub/hornhub-service/internal/catalog"
	"github.com/hornhub/hornhub-service/internal/events"
	"github.com/hornhub/hornhub-service/internal/objectstore"
	"github.com/hornhub/hornhub-service/internal/session"
	"github.com/hornhub/hornhub-service/internal/types"
)

// Size ceilings are inclusive: a file of exactly the limit passes.
const (
	MaxVideoSize int64 = 50 << 20 // 50 MiB
	MaxImageSize int64 = 10 << 20 // 10 MiB
)

// Gateway moves upload bytes into the object store and records the
// matching metadata in the catalog. Validation happens before any
// transfer; a validation failure never touches the network.
type Gateway struct {
	objects  objectstore.Store
	catalog  *catalog.Catalog
	sessions *session.Store
	events   events.Publisher
	now      func() time.Time
}

func NewGateway(objects objectstore.Store, cat *catalog.Catalog, sessions *session.Store, publisher events.Publisher) *Gateway {
	return &Gateway{
		objects:  objects,
		catalog:  cat,
		sessions: sessions,
		events:   publisher,
		now:      time.Now,
	}
}

// Upload validates, transfers, catalogs and announces one media file.
// The returned item carries the public URL of the stored object.
func (g *Gateway) Upload(ctx context.Context, r io.Reader, size int64, filename, contentType string, mediaType types.MediaType, title, uploaderID string) (types.MediaItem, error) {
	if err := validateMedia(mediaType, contentType, size, title); err != nil {
		return types.MediaItem{}, err
	}

	timestamp := g.now().UnixMilli()
	objectKey := mediaObjectKey(mediaType, uploaderID, timestamp, filename)

	if err := g.objects.Put(ctx, objectKey, r, size, contentType); err != nil {
		return types.MediaItem{}, &TransferError{Op: "upload", Err: err}
	}

	item := types.MediaItem{
		ID:         types.MediaItemID(uploaderID, timestamp),
		URL:        g.objects.URL(objectKey),
		UploadedBy: uploaderID,
		UploadedAt: timestamp,
		Type:       mediaType,
	}
	if mediaType == types.MediaTypeVideo {
		item.Title = title
	}

	if err := g.catalog.Append(ctx, item); err != nil {
		// The object is already stored; without catalog metadata it is
		// unreachable, so surface the failure to the uploader.
		return types.MediaItem{}, fmt.Errorf("record upload %s: %w", item.ID, err)
	}

	uploaderName := uploaderID
	if current := g.sessions.CurrentUser(ctx); current != nil && current.ID == uploaderID {
		uploaderName = current.Name
	}
	g.events.PublishMediaUploaded(item, uploaderName)

	slog.Info("Media uploaded",
		slog.String("item_id", item.ID),
		slog.String("type", string(mediaType)),
		slog.Int64("size", size))

	return item, nil
}

// UploadProfilePicture stores the avatar under a fixed per-user key,
// overwriting any prior picture, and rewrites the active session's
// picture reference. Returns the public URL.
func (g *Gateway) UploadProfilePicture(ctx context.Context, r io.Reader, size int64, contentType, uploaderID string) (string, error) {
	if err := validateImage(contentType, size); err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("profiles/%s.jpg", uploaderID)

	if err := g.objects.Put(ctx, objectKey, r, size, contentType); err != nil {
		return "", &TransferError{Op: "profile picture upload", Err: err}
	}

	url := g.objects.URL(objectKey)
	if err := g.sessions.SetProfilePicture(ctx, url); err != nil {
		return "", fmt.Errorf("update session avatar: %w", err)
	}

	slog.Info("Profile picture updated", slog.String("user_id", uploaderID))

	return url, nil
}

// mediaObjectKey derives the remote path. The original filename goes
// in as-is; same-millisecond uploads of the same name collide.
func mediaObjectKey(mediaType types.MediaType, uploaderID string, timestamp int64, filename string) string {
	return fmt.Sprintf("%ss/%s/%d-%s", mediaType, uploaderID, timestamp, filename)
}

func validateMedia(mediaType types.MediaType, contentType string, size int64, title string) error {
	switch mediaType {
	case types.MediaTypeVideo:
		if !strings.HasPrefix(contentType, "video/") {
			return &ValidationError{Field: "file", Reason: "please select a valid video file"}
		}
		if size > MaxVideoSize {
			return &ValidationError{Field: "file", Reason: "file size must be less than 50MB"}
		}
		if strings.TrimSpace(title) == "" {
			return &ValidationError{Field: "title", Reason: "please enter a title for your video"}
		}
		return nil
	case types.MediaTypeImage:
		return validateImage(contentType, size)
	default:
		return &ValidationError{Field: "type", Reason: "unknown media type"}
	}
}

func validateImage(contentType string, size int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return &ValidationError{Field: "file", Reason: "please select a valid image file"}
	}
	if size > MaxImageSize {
		return &ValidationError{Field: "file", Reason: "file size must be less than 10MB"}
	}
	return nil
}
