// Package media adapts the yt-dlp client to the ingestion pipeline's
// fetcher contract.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"shortbread.app/shortbread/internal/ingest"
	"shortbread.app/shortbread/internal/platform"
	"shortbread.app/shortbread/pkg/utils/format"
	"shortbread.app/shortbread/pkg/ytdlp"
)

// Fetcher downloads media into spoolDir, one file per pipeline run,
// named by a fresh UUID so concurrent runs never collide on disk.
type Fetcher struct {
	client   *ytdlp.Client
	spoolDir string
}

func NewFetcher(client *ytdlp.Client, spoolDir string) *Fetcher {
	return &Fetcher{client: client, spoolDir: spoolDir}
}

// ResolveInfo fetches descriptive metadata for url without downloading.
func (f *Fetcher) ResolveInfo(ctx context.Context, url string) (*ingest.VideoInfo, error) {
	info, err := f.client.GetInfo(ctx, url)
	if err != nil {
		return nil, err
	}

	ext := strings.TrimSpace(info.Ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	slog.Debug("resolved video metadata", "title", info.Title, "duration", format.Duration(int(info.Duration)))

	return &ingest.VideoInfo{
		Title:           info.Title,
		Platform:        platform.Resolve(url),
		DurationSeconds: info.Duration,
		ThumbnailURL:    info.Thumbnail,
		Uploader:        info.Uploader,
		UploadDate:      info.UploadDate,
		Description:     info.Description,
		ViewCount:       info.ViewCount,
		Extension:       ext,
	}, nil
}

// FetchMedia downloads the media for url into the spool directory and
// reports the produced file. The yt-dlp client removes partial output
// on its own failure path, so a failed fetch leaves nothing behind.
func (f *Fetcher) FetchMedia(ctx context.Context, url string) (*ingest.DownloadArtifact, error) {
	if err := os.MkdirAll(f.spoolDir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}

	baseName := uuid.New().String()
	path, err := f.client.Download(ctx, url, f.spoolDir, baseName)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat downloaded file: %w", err)
	}

	return &ingest.DownloadArtifact{
		LocalPath: path,
		FileName:  filepath.Base(path),
		ByteSize:  stat.Size(),
		Extension: filepath.Ext(path),
	}, nil
}

// RemoveLocalFile deletes a downloaded artifact. Failures are logged
// and swallowed: cleanup must never mask the pipeline's own error.
func (f *Fetcher) RemoveLocalFile(path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove local media file", "path", path, "error", err)
	}
}
