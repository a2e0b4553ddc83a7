package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestGetInfo_ParsesJSON(t *testing.T) {
	c := New()
	c.ExecFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return []byte(`{"id":"abc","title":"hello","uploader":"someone","duration":12.5,"view_count":100,"thumbnail":"https://example.com/t.jpg","ext":"mp4"}`), nil, nil
	}

	info, err := c.GetInfo(context.Background(), "https://example.com/watch?v=abc")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if info.ID != "abc" {
		t.Fatalf("expected id=abc, got %q", info.ID)
	}
	if info.Title != "hello" {
		t.Fatalf("expected title=hello, got %q", info.Title)
	}
	if info.Duration != 12.5 {
		t.Fatalf("expected duration=12.5, got %v", info.Duration)
	}
	if info.ViewCount != 100 {
		t.Fatalf("expected view_count=100, got %d", info.ViewCount)
	}
	if len(info.Raw) == 0 {
		t.Fatalf("expected Raw to be set")
	}
}

func TestGetInfo_WrapsExecError(t *testing.T) {
	c := New()
	c.ExecFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return []byte("out"), []byte("err"), errors.New("boom")
	}

	_, err := c.GetInfo(context.Background(), "https://example.com")
	if err == nil {
		t.Fatalf("expected error")
	}
	var ee *ExecError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExecError, got %T", err)
	}
	if ee.Stderr != "err" {
		t.Fatalf("expected stderr=err, got %q", ee.Stderr)
	}
}

func TestVersion_TrimsOutput(t *testing.T) {
	c := New()
	c.ExecFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return []byte("2025.01.01\n"), nil, nil
	}

	v, err := c.Version(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if v != "2025.01.01" {
		t.Fatalf("expected version to be trimmed, got %q", v)
	}
}

func TestDownload_ReturnsProducedFile(t *testing.T) {
	dir := t.TempDir()

	c := New()
	c.ExecFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		// Simulate yt-dlp writing the output file.
		if err := os.WriteFile(filepath.Join(dir, "job1.mp4"), []byte("media"), 0o644); err != nil {
			t.Fatal(err)
		}
		return nil, nil, nil
	}

	path, err := c.Download(context.Background(), "https://example.com/v/1", dir, "job1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if path != filepath.Join(dir, "job1.mp4") {
		t.Fatalf("unexpected produced path %q", path)
	}
}

func TestDownload_RemovesPartialsOnFailure(t *testing.T) {
	dir := t.TempDir()

	c := New()
	c.ExecFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		if err := os.WriteFile(filepath.Join(dir, "job2.mp4.part"), []byte("partial"), 0o644); err != nil {
			t.Fatal(err)
		}
		return nil, []byte("network error"), errors.New("exit status 1")
	}

	_, err := c.Download(context.Background(), "https://example.com/v/2", dir, "job2")
	if err == nil {
		t.Fatalf("expected error")
	}

	matches, globErr := filepath.Glob(filepath.Join(dir, "job2.*"))
	if globErr != nil {
		t.Fatal(globErr)
	}
	if len(matches) != 0 {
		t.Fatalf("expected partial files to be removed, found %v", matches)
	}
}

func TestDownload_ErrorWhenNoOutput(t *testing.T) {
	dir := t.TempDir()

	c := New()
	c.ExecFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return nil, nil, nil
	}

	_, err := c.Download(context.Background(), "https://example.com/v/3", dir, "job3")
	if err == nil {
		t.Fatalf("expected error when yt-dlp produced no file")
	}
}
