// Package srt renders caption segments as SubRip subtitle text.
package srt

import (
	"fmt"
	"math"
	"strings"

	"livecaption/api-gateway/models"
)

// Render formats segments as an SRT document, numbered from 1 in sequence
// order.
func Render(segments []models.Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", Timestamp(seg.Start), Timestamp(seg.End))
		fmt.Fprintf(&b, "%s\n\n", seg.Text)
	}
	return b.String()
}

// Timestamp formats seconds as an SRT timestamp (HH:MM:SS,mmm).
func Timestamp(seconds float64) string {
	total := int(math.Round(seconds * 1000))
	hours := total / 3600000
	minutes := (total % 3600000) / 60000
	secs := (total % 60000) / 1000
	millis := total % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
