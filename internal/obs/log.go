// Package obs holds the package-level logger every httpcodec component
// writes through, mirroring packetd's logger package: a swappable
// singleton so the library stays silent by default but can be wired into
// a host application's own zap pipeline.
package obs

import "go.uber.org/zap"

var std = zap.NewNop().Sugar()

// L returns the current package-level logger.
func L() *zap.SugaredLogger { return std }

// SetLogger replaces the package-level logger; pass nil to restore the
// no-op default. Call it once during process startup — it is not
// goroutine-safe against concurrent L() calls, the same contract the
// teacher's logger.SetOptions carries.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		std = zap.NewNop().Sugar()
		return
	}
	std = l
}

// Field-key constants used across the codec's debug/warn log lines, kept
// here so call sites can't drift on spelling.
const (
	FieldContentLength    = "content-length"
	FieldTransferEncoding = "transfer-encoding"
	FieldTraceID          = "trace-id"
	FieldBytes            = "bytes"
)
