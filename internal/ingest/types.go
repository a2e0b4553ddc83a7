// Package ingest orchestrates the video ingestion pipeline: resolve the
// platform, fetch metadata, download the media, upload it to durable
// storage and persist the resulting record.
package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"shortbread.app/shortbread/internal/platform"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Metadata map keys persisted on a VideoRecord. StorageKeyMeta (and
// ThumbnailKeyMeta when a thumbnail was uploaded) must stay in the map
// for the whole life of a completed record: deletion resolves the
// durable objects through them.
const (
	StorageKeyMeta   = "storage_key"
	ThumbnailKeyMeta = "thumbnail_key"
	UploaderMeta     = "uploader"
	DescriptionMeta  = "description"
	ViewCountMeta    = "view_count"
	UploadDateMeta   = "upload_date"
)

// VideoInfo is the descriptive metadata the fetcher resolves for a URL
// before anything is downloaded. Carries no ownership.
type VideoInfo struct {
	Title           string
	Platform        platform.Platform
	DurationSeconds float64
	ThumbnailURL    string
	Uploader        string
	UploadDate      string
	Description     string
	ViewCount       int64
	Extension       string
}

// DownloadArtifact describes a media file downloaded to local disk. It
// is owned by the pipeline run that created it and must be removed
// exactly once before the run returns.
type DownloadArtifact struct {
	LocalPath string
	FileName  string
	ByteSize  int64
	Extension string
}

// StorageObject is the durable handle returned by the object store.
type StorageObject struct {
	PublicRef  string
	StorageKey string
	ByteSize   int64
}

// VideoRecord is the persisted result of a successful ingestion.
type VideoRecord struct {
	ID              uuid.UUID         `json:"id"`
	OwnerID         string            `json:"owner_id"`
	Title           string            `json:"title"`
	Platform        platform.Platform `json:"platform"`
	OriginalURL     string            `json:"original_url"`
	StorageURL      string            `json:"storage_url"`
	ThumbnailURL    *string           `json:"thumbnail_url,omitempty"`
	DurationSeconds *float64          `json:"duration_seconds,omitempty"`
	FileSizeBytes   *int64            `json:"file_size_bytes,omitempty"`
	Metadata        map[string]any    `json:"metadata"`
	Status          Status            `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// SaveResult is the projection returned to callers on success,
// sufficient to confirm ingestion without re-querying.
type SaveResult struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	StorageURL   string    `json:"storage_url"`
}

// ErrRecordNotFound is returned by RecordStore implementations when no
// record matches the given id.
var ErrRecordNotFound = errors.New("video record not found")

// MediaFetcher resolves metadata for and downloads remote media.
type MediaFetcher interface {
	// ResolveInfo fetches descriptive metadata without downloading media.
	ResolveInfo(ctx context.Context, url string) (*VideoInfo, error)

	// FetchMedia downloads the media to local storage under a
	// collision-free name. Implementations remove any partial file on
	// their own failure path.
	FetchMedia(ctx context.Context, url string) (*DownloadArtifact, error)

	// RemoveLocalFile deletes a downloaded artifact. Best-effort:
	// failures are logged, never returned.
	RemoveLocalFile(path string)
}

// ObjectStore uploads local files to durable storage and deletes them
// by storage key.
type ObjectStore interface {
	PutObject(ctx context.Context, localPath string, ownerID string, fileName string) (*StorageObject, error)

	// PutRemoteThumbnail fetches a remote thumbnail and uploads it.
	// Best-effort: returns nil on any failure, never an error.
	PutRemoteThumbnail(ctx context.Context, thumbnailURL string, ownerID string) *StorageObject

	// RemoveObject deletes the object identified by storageKey and
	// reports whether the deletion succeeded.
	RemoveObject(ctx context.Context, storageKey string) bool
}

// RecordStore is the durable store of video records.
type RecordStore interface {
	Create(ctx context.Context, rec *VideoRecord) (*VideoRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*VideoRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*VideoRecord, error)
	GetByOwner(ctx context.Context, ownerID string, limit int, offset int) ([]*VideoRecord, error)
	Delete(ctx context.Context, id uuid.UUID) (*VideoRecord, error)
}
