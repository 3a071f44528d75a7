package srt

import (
	"testing"

	"livecaption/api-gateway/models"
)

func TestTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.25, "00:01:01,250"},
		{3661.001, "01:01:01,001"},
	}
	for _, tc := range cases {
		if got := Timestamp(tc.seconds); got != tc.want {
			t.Errorf("Timestamp(%v): got %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestRender(t *testing.T) {
	segments := []models.Segment{
		{Start: 0, End: 2, Text: "Hello there"},
		{Start: 2, End: 4.5, Text: "Welcome back"},
	}
	want := "1\n00:00:00,000 --> 00:00:02,000\nHello there\n\n" +
		"2\n00:00:02,000 --> 00:00:04,500\nWelcome back\n\n"
	if got := Render(segments); got != want {
		t.Errorf("Render:\ngot  %q\nwant %q", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Errorf("Render(nil): got %q, want empty", got)
	}
}
