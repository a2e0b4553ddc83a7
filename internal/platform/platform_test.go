package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve_KnownHosts(t *testing.T) {
	require.Equal(t, YouTube, Resolve("https://www.youtube.com/watch?v=abc"))
	require.Equal(t, YouTube, Resolve("https://youtu.be/abc"))
	require.Equal(t, Instagram, Resolve("https://www.instagram.com/reel/xyz/"))
	require.Equal(t, Twitter, Resolve("https://twitter.com/user/status/123"))
	require.Equal(t, Twitter, Resolve("https://x.com/user/status/123"))
	require.Equal(t, Facebook, Resolve("https://www.facebook.com/watch/?v=123"))
	require.Equal(t, Facebook, Resolve("https://fb.com/video/123"))
	require.Equal(t, TikTok, Resolve("https://www.tiktok.com/@user/video/123"))
}

func TestResolve_Subdomains(t *testing.T) {
	require.Equal(t, YouTube, Resolve("https://m.youtube.com/watch?v=abc"))
	require.Equal(t, Twitter, Resolve("https://mobile.twitter.com/user/status/123"))
}

func TestResolve_UnknownHost(t *testing.T) {
	require.Equal(t, Unknown, Resolve("https://unknown-platform.example/v/1"))
	require.Equal(t, Unknown, Resolve(""))
	require.Equal(t, Unknown, Resolve("not a url"))
}

func TestParseAllowList_Default(t *testing.T) {
	allow := ParseAllowList("")
	require.Equal(t, DefaultAllowList(), allow)
	require.True(t, Allowed(YouTube, allow))
	require.False(t, Allowed(Unknown, allow))
}

func TestParseAllowList_Custom(t *testing.T) {
	allow := ParseAllowList("youtube, TikTok ,")
	require.True(t, Allowed(YouTube, allow))
	require.True(t, Allowed(TikTok, allow))
	require.False(t, Allowed(Instagram, allow))
}
