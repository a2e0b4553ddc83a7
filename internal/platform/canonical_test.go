package platform

import "testing"

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"canonical youtube untouched", "https://youtube.com/watch?v=dQw4w9WgXcQ", "https://youtube.com/watch?v=dQw4w9WgXcQ"},
		{"youtu.be shortlink", "https://youtu.be/dQw4w9WgXcQ?t=42", "https://youtube.com/watch?v=dQw4w9WgXcQ"},
		{"youtube shorts", "https://www.youtube.com/shorts/abc123def45", "https://youtube.com/watch?v=abc123def45"},
		{"youtube embed", "https://www.youtube.com/embed/abc123def45", "https://youtube.com/watch?v=abc123def45"},
		{"www stripped", "https://www.instagram.com/reel/xyz/", "https://instagram.com/reel/xyz"},
		{"x.com to twitter", "https://x.com/user/status/123?s=20", "https://twitter.com/user/status/123?s=20"},
		{"fb alias", "http://fb.com/watch/?v=99", "https://facebook.com/watch?v=99"},
		{"http upgraded", "http://tiktok.com/@user/video/1", "https://tiktok.com/@user/video/1"},
		{"fragment stripped", "https://vimeo.com/12345#t=30s", "https://vimeo.com/12345"},
		{"unknown host query kept", "https://example.com/v?id=1&x=2", "https://example.com/v?id=1&x=2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeURL(tc.in)
			if err != nil {
				t.Fatalf("NormalizeURL(%q) returned error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("NormalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeURLEmpty(t *testing.T) {
	if _, err := NormalizeURL("   "); err == nil {
		t.Fatal("expected error for blank url")
	}
}
