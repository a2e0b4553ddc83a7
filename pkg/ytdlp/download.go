package ytdlp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Download fetches the media for url into destDir as a single file named
// <baseName>.<ext>, remuxed to mp4 where possible, and returns the path
// of the produced file. Any partial output (including .part files) is
// removed before an error is returned, so a failed download never
// leaves stray files behind.
func (c *Client) Download(ctx context.Context, url string, destDir string, baseName string, extraArgs ...string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("ytdlp: url is required")
	}
	if strings.TrimSpace(destDir) == "" {
		return "", fmt.Errorf("ytdlp: destDir is required")
	}
	if strings.TrimSpace(baseName) == "" {
		return "", fmt.Errorf("ytdlp: baseName is required")
	}

	tmpl := filepath.Join(destDir, baseName+".%(ext)s")

	args := []string{
		"-o", tmpl,
		"--no-playlist",
		"--remux-video", "mp4",
		"--no-colors",
		"--newline",
		"--format", "bestvideo*+bestaudio/best",
	}
	args = append(args, extraArgs...)
	args = append(args, url)

	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		c.removePartialFiles(destDir, baseName)
		return "", wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}

	produced, err := findProducedFile(destDir, baseName)
	if err != nil {
		c.removePartialFiles(destDir, baseName)
		return "", err
	}
	return produced, nil
}

// findProducedFile locates the media file yt-dlp wrote for baseName.
// Intermediate .part/.ytdl files are skipped.
func findProducedFile(destDir string, baseName string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(destDir, baseName+".*"))
	if err != nil {
		return "", err
	}
	for _, m := range matches {
		switch filepath.Ext(m) {
		case ".part", ".ytdl", ".temp":
			continue
		}
		return m, nil
	}
	return "", fmt.Errorf("ytdlp: no output file produced for %s", baseName)
}

func (c *Client) removePartialFiles(destDir string, baseName string) {
	matches, err := filepath.Glob(filepath.Join(destDir, baseName+".*"))
	if err != nil {
		return
	}
	for _, m := range matches {
		_ = os.Remove(m)
	}
}
