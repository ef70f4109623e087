package httpcodec

import (
	"go.uber.org/zap"

	"github.com/andycostintoma/httpcodec/internal/obs"
)

// defaultMaxBytes is the per-region size cap applied when a caller doesn't
// override it, ported from original_source/src/options.rs's
// DecodeOptions default of 0xFFFF.
const defaultMaxBytes = 0xFFFF

// Options configures a RequestDecoder/ResponseDecoder or their encoder
// counterparts.
type Options struct {
	MaxStartLineSize uint64
	MaxHeaderSize    uint64
	Logger           *zap.SugaredLogger
	TraceIDs         bool
	ChunkedBody      bool
}

// Option mutates an Options value being built by NewOptions.
type Option func(*Options)

// WithMaxStartLineSize overrides the start-line byte cap.
func WithMaxStartLineSize(n uint64) Option {
	return func(o *Options) { o.MaxStartLineSize = n }
}

// WithMaxHeaderSize overrides the header-block byte cap.
func WithMaxHeaderSize(n uint64) Option {
	return func(o *Options) { o.MaxHeaderSize = n }
}

// WithLogger routes this codec's dispatcher-ambiguity and decoded-message
// trace-ID debug lines through l instead of the package-level default. The
// size-limit overflow and chunk-extension lines always go through the
// package-level logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithTraceIDs stamps every decoded message with a fresh correlation ID
// (see Request.TraceID/Response.TraceID); encoders do not use it.
func WithTraceIDs(enabled bool) Option {
	return func(o *Options) { o.TraceIDs = enabled }
}

// WithChunkedBody selects chunked transfer-coding for outbound message
// bodies instead of a known-length Content-Length write. A body encoded by
// this package is always a fully materialized []byte, so its length is
// always known up front; this option is the explicit opt-in that stands in
// for the case original_source's encoder reaches by noticing its inner
// encoder reports an unknown length (see BodyEncoder.StartEncoding).
func WithChunkedBody(enabled bool) Option {
	return func(o *Options) { o.ChunkedBody = enabled }
}

// NewOptions builds Options from defaults plus overrides.
func NewOptions(opts ...Option) Options {
	o := Options{
		MaxStartLineSize: defaultMaxBytes,
		MaxHeaderSize:    defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o Options) logger() *zap.SugaredLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return obs.L()
}
