// Package storage uploads ingested media to S3-compatible object
// storage (AWS S3 or Cloudflare R2) and deletes it by key.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"shortbread.app/shortbread/internal/ingest"
)

const thumbnailFetchTimeout = 10 * time.Second

type Config struct {
	Bucket        string
	Region        string
	Endpoint      string // non-empty for R2 / other S3-compatible stores
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // base for public object URLs; falls back to virtual-hosted S3 URLs
}

type Client struct {
	s3            *s3.Client
	bucket        string
	region        string
	publicBaseURL string
	httpClient    *http.Client
}

func NewClient(ctx context.Context, conf Config) (*Client, error) {
	if strings.TrimSpace(conf.Bucket) == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if conf.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(conf.Region))
	}
	if conf.AccessKey != "" && conf.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, "")))
	}

	awsConf, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConf, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			// R2 and most S3-compatible stores want path-style addressing.
			o.UsePathStyle = true
		}
	})

	return &Client{
		s3:            client,
		bucket:        conf.Bucket,
		region:        conf.Region,
		publicBaseURL: strings.TrimRight(conf.PublicBaseURL, "/"),
		httpClient:    &http.Client{Timeout: thumbnailFetchTimeout},
	}, nil
}

// MediaKey builds the durable key for an owner's media file.
func MediaKey(ownerID string, fileName string) string {
	return path.Join("videos", ownerID, fileName)
}

// ThumbnailKey builds the durable key for an owner's thumbnail.
func ThumbnailKey(ownerID string, fileName string) string {
	return path.Join("thumbnails", ownerID, fileName)
}

// PublicURL resolves the public reference for a storage key.
func (c *Client) PublicURL(key string) string {
	if c.publicBaseURL != "" {
		return c.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}

// PutObject uploads the file at localPath under the media key scheme
// and returns the durable object handle.
func (c *Client) PutObject(ctx context.Context, localPath string, ownerID string, fileName string) (*ingest.StorageObject, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", localPath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("storage: stat %s: %w", localPath, err)
	}

	key := MediaKey(ownerID, fileName)
	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(stat.Size()),
		ContentType:   aws.String(contentTypeForFile(fileName)),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: put %s: %w", key, err)
	}

	return &ingest.StorageObject{
		PublicRef:  c.PublicURL(key),
		StorageKey: key,
		ByteSize:   stat.Size(),
	}, nil
}

// PutRemoteThumbnail fetches thumbnailURL and uploads it under the
// thumbnail key scheme. Best-effort: any failure is logged and reported
// as nil so the pipeline can fall back to the source reference.
func (c *Client) PutRemoteThumbnail(ctx context.Context, thumbnailURL string, ownerID string) *ingest.StorageObject {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, thumbnailURL, nil)
	if err != nil {
		slog.Warn("thumbnail fetch request failed", "url", thumbnailURL, "error", err)
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("thumbnail fetch failed", "url", thumbnailURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("thumbnail fetch returned non-200", "url", thumbnailURL, "status", resp.StatusCode)
		return nil
	}

	ext := thumbnailExtension(thumbnailURL, resp.Header.Get("Content-Type"))
	key := ThumbnailKey(ownerID, uuid.New().String()+ext)

	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        resp.Body,
		ContentType: aws.String(contentTypeForFile(key)),
	})
	if err != nil {
		slog.Warn("thumbnail upload failed", "key", key, "error", err)
		return nil
	}

	return &ingest.StorageObject{
		PublicRef:  c.PublicURL(key),
		StorageKey: key,
	}
}

// RemoveObject deletes the object identified by storageKey. Returns
// false (and logs) on failure; callers decide whether that is fatal.
func (c *Client) RemoveObject(ctx context.Context, storageKey string) bool {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(storageKey),
	})
	if err != nil {
		slog.Warn("failed to delete object", "key", storageKey, "error", err)
		return false
	}
	return true
}

func contentTypeForFile(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4", ".m4v":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// thumbnailExtension picks a file extension for a fetched thumbnail,
// preferring the URL path, then the response content type.
func thumbnailExtension(rawURL string, contentType string) string {
	if ext := strings.ToLower(path.Ext(strings.SplitN(rawURL, "?", 2)[0])); ext != "" && len(ext) <= 5 {
		return ext
	}
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}
