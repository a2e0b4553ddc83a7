package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"shortbread.app/shortbread/internal/platform"
	"shortbread.app/shortbread/internal/retry"
	"shortbread.app/shortbread/pkg/utils/format"
)

const maxOwnerIDLength = 255

// Service runs the ingestion pipeline. Collaborators are injected so
// tests can substitute fakes.
type Service struct {
	fetcher   MediaFetcher
	objects   ObjectStore
	records   RecordStore
	allow     map[platform.Platform]bool
	retryOpts []retry.Option
}

func NewService(fetcher MediaFetcher, objects ObjectStore, records RecordStore, allow map[platform.Platform]bool, retryOpts ...retry.Option) *Service {
	if allow == nil {
		allow = platform.DefaultAllowList()
	}
	return &Service{
		fetcher:   fetcher,
		objects:   objects,
		records:   records,
		allow:     allow,
		retryOpts: retryOpts,
	}
}

// SaveVideo ingests the media at rawURL for ownerID and returns the
// persisted record's projection. Steps run strictly in order: validate,
// resolve metadata, download (retried), upload (retried), upload
// thumbnail (best-effort), persist. The local artifact never outlives
// the call.
func (s *Service) SaveVideo(ctx context.Context, rawURL string, ownerID string) (*SaveResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	ownerID = strings.TrimSpace(ownerID)

	p, err := s.validate(rawURL, ownerID)
	if err != nil {
		return nil, err
	}

	// Canonical form is what gets stored, deduplicated and handed to the
	// downloader.
	rawURL, err = platform.NormalizeURL(rawURL)
	if err != nil {
		return nil, newError(KindInvalidInput, "url must be an absolute http(s) URL")
	}

	started := time.Now()

	info, err := s.fetcher.ResolveInfo(ctx, rawURL)
	if err != nil {
		return nil, wrapError(KindMetadataExtraction, "failed to extract video metadata", err)
	}
	if info.Platform == "" {
		info.Platform = p
	}

	artifact, err := retry.Do(ctx, "download", func() (*DownloadArtifact, error) {
		return s.fetcher.FetchMedia(ctx, rawURL)
	}, s.retryOpts...)
	if err != nil {
		return nil, wrapError(KindDownload, "failed to download video", err)
	}
	slog.Info("video downloaded", "owner_id", ownerID, "file", artifact.FileName, "size", humanize.Bytes(uint64(artifact.ByteSize)))

	object, err := retry.Do(ctx, "upload", func() (*StorageObject, error) {
		return s.objects.PutObject(ctx, artifact.LocalPath, ownerID, artifact.FileName)
	}, s.retryOpts...)
	if err != nil {
		s.fetcher.RemoveLocalFile(artifact.LocalPath)
		return nil, wrapError(KindUpload, "failed to upload video to storage", err)
	}
	slog.Info("video uploaded", "owner_id", ownerID, "storage_key", object.StorageKey, "size", humanize.Bytes(uint64(object.ByteSize)))

	// Thumbnail upload is best-effort and never retried. When it fails
	// the record keeps the source thumbnail URL instead.
	var thumbnailURL *string
	thumbnailKey := ""
	if info.ThumbnailURL != "" {
		if thumb := s.objects.PutRemoteThumbnail(ctx, info.ThumbnailURL, ownerID); thumb != nil {
			thumbnailURL = &thumb.PublicRef
			thumbnailKey = thumb.StorageKey
		} else {
			src := info.ThumbnailURL
			thumbnailURL = &src
		}
	}

	record := buildRecord(ownerID, rawURL, info, artifact, object, thumbnailURL, thumbnailKey)
	created, persistErr := s.records.Create(ctx, record)

	// The artifact is no longer needed in either outcome; remove it
	// exactly once now that the remote copy is durable.
	s.fetcher.RemoveLocalFile(artifact.LocalPath)

	if persistErr != nil {
		// The uploaded object is deliberately left in place: its key was
		// never recorded, so we log it for operators instead of deleting
		// inside an already-failing path.
		slog.Warn("video record persist failed, uploaded object is orphaned", "owner_id", ownerID, "storage_key", object.StorageKey, "error", persistErr)
		return nil, wrapError(KindPersist, "failed to save video record", persistErr)
	}

	result := &SaveResult{
		ID:         created.ID,
		Title:      created.Title,
		StorageURL: created.StorageURL,
	}
	if created.ThumbnailURL != nil {
		result.ThumbnailURL = *created.ThumbnailURL
	}
	slog.Info("video saved", "owner_id", ownerID, "video_id", created.ID, "platform", created.Platform, "took", format.JobDuration(time.Since(started)))
	return result, nil
}

func (s *Service) validate(rawURL string, ownerID string) (platform.Platform, error) {
	if rawURL == "" {
		return "", newError(KindInvalidInput, "url is required")
	}
	if ownerID == "" {
		return "", newError(KindInvalidInput, "owner id is required")
	}
	if len(ownerID) > maxOwnerIDLength {
		return "", newError(KindInvalidInput, fmt.Sprintf("owner id must be at most %d characters", maxOwnerIDLength))
	}

	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", newError(KindInvalidInput, "url must be an absolute http(s) URL")
	}

	p := platform.Resolve(rawURL)
	if !platform.Allowed(p, s.allow) {
		return "", newError(KindUnsupportedPlatform, fmt.Sprintf("platform %q is not supported", p))
	}
	return p, nil
}

func buildRecord(ownerID string, originalURL string, info *VideoInfo, artifact *DownloadArtifact, object *StorageObject, thumbnailURL *string, thumbnailKey string) *VideoRecord {
	metadata := map[string]any{
		StorageKeyMeta: object.StorageKey,
	}
	if thumbnailKey != "" {
		metadata[ThumbnailKeyMeta] = thumbnailKey
	}
	if info.Uploader != "" {
		metadata[UploaderMeta] = info.Uploader
	}
	if info.Description != "" {
		metadata[DescriptionMeta] = info.Description
	}
	if info.ViewCount > 0 {
		metadata[ViewCountMeta] = info.ViewCount
	}
	if info.UploadDate != "" {
		metadata[UploadDateMeta] = info.UploadDate
	}

	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = artifact.FileName
	}

	now := time.Now().UTC()
	record := &VideoRecord{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        title,
		Platform:     info.Platform,
		OriginalURL:  originalURL,
		StorageURL:   object.PublicRef,
		ThumbnailURL: thumbnailURL,
		Metadata:     metadata,
		Status:       StatusCompleted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if info.DurationSeconds > 0 {
		d := info.DurationSeconds
		record.DurationSeconds = &d
	}
	if object.ByteSize > 0 {
		size := object.ByteSize
		record.FileSizeBytes = &size
	}
	return record
}

// MarkFailed transitions an existing record to the failed status. Used
// when post-persist bookkeeping fails: the record is kept as evidence,
// never deleted.
func (s *Service) MarkFailed(ctx context.Context, id uuid.UUID) error {
	if _, err := s.records.UpdateStatus(ctx, id, StatusFailed); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return newError(KindNotFound, "video not found")
		}
		return wrapError(KindPersist, "failed to mark video as failed", err)
	}
	return nil
}

// GetVideo looks up a single record by id.
func (s *Service) GetVideo(ctx context.Context, id uuid.UUID) (*VideoRecord, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, newError(KindNotFound, "video not found")
		}
		return nil, wrapError(KindInternal, "failed to fetch video", err)
	}
	return rec, nil
}

// ListVideos returns ownerID's records, newest first.
func (s *Service) ListVideos(ctx context.Context, ownerID string, limit int, offset int) ([]*VideoRecord, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, newError(KindInvalidInput, "owner id is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	recs, err := s.records.GetByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, wrapError(KindInternal, "failed to list videos", err)
	}
	return recs, nil
}

// DeleteVideo removes the durable objects referenced by the record's
// metadata, then the record itself. A record whose keys no longer
// resolve in the object store is still deleted.
func (s *Service) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return newError(KindNotFound, "video not found")
		}
		return wrapError(KindInternal, "failed to fetch video", err)
	}

	for _, metaKey := range []string{StorageKeyMeta, ThumbnailKeyMeta} {
		key, ok := rec.Metadata[metaKey].(string)
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		if !s.objects.RemoveObject(ctx, key) {
			slog.Warn("failed to remove durable object for video", "video_id", id, "storage_key", key)
		}
	}

	if _, err := s.records.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return newError(KindNotFound, "video not found")
		}
		return wrapError(KindPersist, "failed to delete video record", err)
	}
	return nil
}
