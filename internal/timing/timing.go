// Package timing estimates caption time windows from text length. The
// numbers are a heuristic, not audio alignment: an assumed speaking rate of
// 2.5 words per second with a 1.5s minimum dwell time so short captions stay
// readable.
package timing

import "strings"

const (
	wordsPerSecond = 2.5
	minDuration    = 1.5
)

// Duration returns the estimated display duration in seconds for text.
// Words are counted by splitting on whitespace runs; empty text gets the
// 1.5s floor.
func Duration(text string) float64 {
	duration := float64(len(strings.Fields(text))) / wordsPerSecond
	if duration < minDuration {
		duration = minDuration
	}
	return duration
}

// Estimate derives a window ending at the reference clock position: end is
// the reference, start is the reference minus the estimated duration,
// clamped at zero.
func Estimate(text string, reference float64) (start, end float64) {
	start = reference - Duration(text)
	if start < 0 {
		start = 0
	}
	return start, reference
}
