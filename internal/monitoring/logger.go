// Package monitoring holds the progress logger used by long-running
// benchmark passes.
package monitoring

import "log"

// Logf reports benchmark progress. It defaults to log.Printf; the
// quiet mode of the CLIs mutes it through SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the progress logger. Passing nil installs a
// no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
