package format

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{-5, "0:00"},
		{0, "0:00"},
		{9, "0:09"},
		{75, "1:15"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}
	for _, tc := range cases {
		if got := Duration(tc.seconds); got != tc.want {
			t.Errorf("Duration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestJobDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{3200 * time.Millisecond, "3.2 seconds"},
		{90 * time.Second, "1.5 minutes"},
		{2 * time.Hour, "2.0 hours"},
	}
	for _, tc := range cases {
		if got := JobDuration(tc.d); got != tc.want {
			t.Errorf("JobDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
