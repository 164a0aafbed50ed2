// Package monitoring holds the diagnostic logger shared by the generator,
// sampler and storage packages.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Warnf logs a non-fatal condition that changed what a run produced, such as
// a foot joint that could not be resolved on the skeleton.
func Warnf(format string, v ...interface{}) {
	Logf("[warn] "+format, v...)
}
