package orchestrators

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"coachsite/internal/adapters/objectstore"
	"coachsite/internal/domain/media"
)

// MediaStoreForOrchestrator defines the store interface needed by media orchestrators.
type MediaStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (media.Item, error)
	Save(ctx context.Context, i media.Item) error
	Delete(ctx context.Context, id string) error
}

// MediaDeps holds dependencies for media orchestrators.
type MediaDeps struct {
	MediaStore MediaStoreForOrchestrator
	Objects    objectstore.Store
	GenerateID func() string
	Now        func() time.Time
}

// UploadMediaInput carries an uploaded file.
type UploadMediaInput struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
	Alt         string
	Usage       string
}

// ExecuteUploadMedia stores a file in the object store and records it in the library.
// PRE: Size matches Body; ContentType is an accepted image type
// POST: object stored under media/<id><ext> and item persisted; no orphan object on failure
func ExecuteUploadMedia(ctx context.Context, input UploadMediaInput, deps MediaDeps) (media.Item, error) {
	if err := media.CheckUpload(input.ContentType, input.Size); err != nil {
		return media.Item{}, invalid(err)
	}
	id := deps.GenerateID()
	key := media.ObjectKey(id, input.ContentType)
	item := media.Item{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		URL:         deps.Objects.URL(key),
		ObjectKey:   key,
		ContentType: input.ContentType,
		Size:        input.Size,
		Alt:         strings.TrimSpace(input.Alt),
		Usage:       input.Usage,
		CreatedAt:   deps.Now(),
	}
	if item.Name == "" {
		item.Name = key
	}
	if err := item.Validate(); err != nil {
		return media.Item{}, invalid(err)
	}
	if err := deps.Objects.Put(ctx, key, input.Body, input.Size, input.ContentType); err != nil {
		return media.Item{}, err
	}
	if err := deps.MediaStore.Save(ctx, item); err != nil {
		if derr := deps.Objects.Delete(context.WithoutCancel(ctx), key); derr != nil {
			slog.Error("media_orphaned", "object_key", key, "error", derr)
		}
		return media.Item{}, err
	}
	slog.Info("media_uploaded", "media_id", id, "size", input.Size)
	return item, nil
}

// UpdateMediaInput carries a partial update. Nil fields are left untouched.
type UpdateMediaInput struct {
	MediaID string
	Name    *string
	Alt     *string
	Usage   *string
}

// ExecuteUpdateMedia edits an item's name, alt text or usage tag.
// PRE: MediaID exists
// POST: changed fields persisted
func ExecuteUpdateMedia(ctx context.Context, input UpdateMediaInput, deps MediaDeps) (media.Item, error) {
	item, err := deps.MediaStore.GetByID(ctx, input.MediaID)
	if err != nil {
		return media.Item{}, err
	}
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Alt != nil {
		item.Alt = strings.TrimSpace(*input.Alt)
	}
	if input.Usage != nil {
		item.Usage = *input.Usage
	}
	if err := item.Validate(); err != nil {
		return media.Item{}, invalid(err)
	}
	if err := deps.MediaStore.Save(ctx, item); err != nil {
		return media.Item{}, err
	}
	return item, nil
}

// ExecuteDeleteMedia removes the library record, then the stored object.
// PRE: id exists
// POST: record gone; a failed object delete is logged, not returned
func ExecuteDeleteMedia(ctx context.Context, id string, deps MediaDeps) error {
	item, err := deps.MediaStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := deps.MediaStore.Delete(ctx, id); err != nil {
		return err
	}
	if err := deps.Objects.Delete(ctx, item.ObjectKey); err != nil {
		slog.Error("media_object_delete_failed", "media_id", id, "object_key", item.ObjectKey, "error", err)
	}
	return nil
}
