package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shortbread.app/shortbread/internal/ingest"
	"shortbread.app/shortbread/internal/platform"
)

// VideoStore persists video records in the videos table. It implements
// ingest.RecordStore.
type VideoStore struct {
	pool *pgxpool.Pool
}

func NewVideoStore(pool *pgxpool.Pool) *VideoStore {
	return &VideoStore{pool: pool}
}

const videoColumns = `id, owner_id, title, platform, original_url, storage_url, thumbnail_url,
	duration_seconds, file_size_bytes, metadata, status, created_at, updated_at`

func (s *VideoStore) Create(ctx context.Context, rec *ingest.VideoRecord) (*ingest.VideoRecord, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO videos (id, owner_id, title, platform, original_url, storage_url, thumbnail_url,
			duration_seconds, file_size_bytes, metadata, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+videoColumns,
		rec.ID, rec.OwnerID, rec.Title, string(rec.Platform), rec.OriginalURL, rec.StorageURL,
		rec.ThumbnailURL, rec.DurationSeconds, rec.FileSizeBytes, MetadataMap(rec.Metadata),
		string(rec.Status), rec.CreatedAt, rec.UpdatedAt)

	created, err := scanVideo(row)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}
	return created, nil
}

func (s *VideoStore) UpdateStatus(ctx context.Context, id uuid.UUID, status ingest.Status) (*ingest.VideoRecord, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE videos SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+videoColumns,
		id, string(status))

	rec, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ingest.ErrRecordNotFound
		}
		return nil, fmt.Errorf("update video status: %w", err)
	}
	return rec, nil
}

func (s *VideoStore) GetByID(ctx context.Context, id uuid.UUID) (*ingest.VideoRecord, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)

	rec, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ingest.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get video: %w", err)
	}
	return rec, nil
}

func (s *VideoStore) GetByOwner(ctx context.Context, ownerID string, limit int, offset int) ([]*ingest.VideoRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+videoColumns+` FROM videos
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var records []*ingest.VideoRecord
	for rows.Next() {
		rec, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *VideoStore) Delete(ctx context.Context, id uuid.UUID) (*ingest.VideoRecord, error) {
	row := s.pool.QueryRow(ctx, `DELETE FROM videos WHERE id = $1 RETURNING `+videoColumns, id)

	rec, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ingest.ErrRecordNotFound
		}
		return nil, fmt.Errorf("delete video: %w", err)
	}
	return rec, nil
}

func scanVideo(row pgx.Row) (*ingest.VideoRecord, error) {
	var rec ingest.VideoRecord
	var platformName, status string
	var metadata MetadataMap

	err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Title, &platformName, &rec.OriginalURL,
		&rec.StorageURL, &rec.ThumbnailURL, &rec.DurationSeconds, &rec.FileSizeBytes,
		&metadata, &status, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rec.Platform = platform.Platform(platformName)
	rec.Status = ingest.Status(status)
	rec.Metadata = map[string]any(metadata)
	return &rec, nil
}
