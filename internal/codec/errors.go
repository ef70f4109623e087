package codec

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind is the closed taxonomy of failures the codec can report. Callers
// switch on Kind, not on error strings.
type Kind int

const (
	// KindInvalidInput marks a syntactic violation of the wire format.
	KindInvalidInput Kind = iota
	// KindUnexpectedEos marks eos reached before the current element completed.
	KindUnexpectedEos
	// KindIncompleteDecoding marks FinishDecoding called before the decoder was idle.
	KindIncompleteDecoding
	// KindDecoderTerminated marks a decoder driven past its terminal state.
	KindDecoderTerminated
	// KindEncoderFull marks StartEncoding called on a non-idle encoder.
	KindEncoderFull
	// KindOther marks a programming-invariant failure that isn't a wire-format error.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindUnexpectedEos:
		return "UnexpectedEos"
	case KindIncompleteDecoding:
		return "IncompleteDecoding"
	case KindDecoderTerminated:
		return "DecoderTerminated"
	case KindEncoderFull:
		return "EncoderFull"
	default:
		return "Other"
	}
}

// Error is the codec's error type. It carries a Kind so callers can branch
// on failure category, a human-readable Msg, and an optional Cause forming
// a diagnostic chain; Wrap/Unwrap integrate with the standard errors
// package, and construction always attaches a stack trace via pkg/errors so
// the chain locates the failing component (spec §7's "diagnostic chain
// sufficient to identify the failing component").
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes Cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// New builds a new Error of the given kind, stamped with a stack trace.
func New(kind Kind, msg string) error {
	return pkgerrors.WithStack(&Error{Kind: kind, Msg: msg})
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, format string, args ...any) error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap builds a new Error of the given kind around an existing cause,
// stamped with a stack trace at the wrap site.
func Wrap(kind Kind, msg string, cause error) error {
	if cause == nil {
		return New(kind, msg)
	}
	return pkgerrors.WithStack(&Error{Kind: kind, Msg: msg, Cause: cause})
}

// KindOf extracts the Kind from err, defaulting to KindOther if err was not
// produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// Is reports whether err (or any error in its chain) has the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Sentinel errors for callers that only need identity checks rather than
// building a new Error; each still carries its Kind, so KindOf and Is work
// on them too (mirrors the small set of well-known failures the teacher
// exposes as package-level vars).
var (
	ErrEncoderFull        = New(KindEncoderFull, "encoder is not idle")
	ErrIncompleteDecoding = New(KindIncompleteDecoding, "decoder is not idle")
	ErrDecoderTerminated  = New(KindDecoderTerminated, "decoder driven past its terminal state")
)
