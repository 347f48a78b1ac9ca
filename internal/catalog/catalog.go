package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hornhub/hornhub-service/internal/kvstore"
	"github.com/hornhub/hornhub-service/internal/types"
)

// MediaKey is the persisted key holding the full catalog as one
// serialized array of items across all users.
const MediaKey = "hornhub:media"

// Catalog is the append-only list of uploaded media metadata. It owns
// the records; the object store independently owns the bytes the URLs
// point at, so a remotely deleted object leaves a dangling reference
// here (the auditor reports those, nothing removes them).
type Catalog struct {
	kv kvstore.Store
}

func New(kv kvstore.Store) *Catalog {
	return &Catalog{kv: kv}
}

// All returns every item in the catalog. Absent or unparseable
// storage reads as an empty catalog; no order is guaranteed beyond
// append order.
func (c *Catalog) All(ctx context.Context) []types.MediaItem {
	data, err := c.kv.Get(ctx, MediaKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			slog.Debug("catalog read failed, treating as empty", slog.String("error", err.Error()))
		}
		return []types.MediaItem{}
	}

	items := decodeItems(data)
	if items == nil {
		return []types.MediaItem{}
	}
	return items
}

// Videos returns exactly the items with type video.
func (c *Catalog) Videos(ctx context.Context) []types.MediaItem {
	return c.filter(ctx, types.MediaTypeVideo)
}

// Images returns exactly the items with type image.
func (c *Catalog) Images(ctx context.Context) []types.MediaItem {
	return c.filter(ctx, types.MediaTypeImage)
}

func (c *Catalog) filter(ctx context.Context, mediaType types.MediaType) []types.MediaItem {
	filtered := []types.MediaItem{}
	for _, item := range c.All(ctx) {
		if item.Type == mediaType {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Append adds one item to the catalog. The read-modify-write cycle
// runs under the store's optimistic concurrency control, so two
// concurrent appends both land instead of one overwriting the other.
// An unparseable current value is replaced by a fresh single-item
// catalog, matching how reads treat corruption as empty.
func (c *Catalog) Append(ctx context.Context, item types.MediaItem) error {
	err := c.kv.Update(ctx, MediaKey, func(current []byte) ([]byte, error) {
		items := decodeItems(current)
		items = append(items, item)
		return json.Marshal(items)
	})
	if err != nil {
		return fmt.Errorf("catalog: append %s: %w", item.ID, err)
	}
	return nil
}

func decodeItems(data []byte) []types.MediaItem {
	if data == nil {
		return nil
	}
	var items []types.MediaItem
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Debug("catalog payload unparseable, treating as empty")
		return nil
	}
	return items
}
