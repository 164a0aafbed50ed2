// Package units provides the length and time conversions used when turning
// editor-facing parameters (millimetres, frames) into sampler units
// (metres, seconds, normalized clip time).
package units

import "math"

// MillimetersToMeters converts an editor threshold to sampler units.
func MillimetersToMeters(mm float64) float64 {
	return mm / 1000.0
}

// FramesToSeconds converts a frame count at the given rate to seconds.
// A non-positive rate yields zero.
func FramesToSeconds(frames int, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return float64(frames) / rate
}

// SecondsToNormalized converts a duration to a fraction of the clip length.
// Zero-length clips normalize everything to zero.
func SecondsToNormalized(seconds, lengthSeconds float64) float64 {
	if lengthSeconds <= 0 {
		return 0
	}
	return seconds / lengthSeconds
}

// Clamp01 limits v to the normalized clip range [0, 1].
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
