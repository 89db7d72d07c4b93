package errors

import (
	"unicode/utf8"

	ircore "github.com/wippyai/ir-core"
)

// DecodeFallback is the sentinel message reported when accumulated
// diagnostic bytes do not form valid UTF-8.
const DecodeFallback = "failed to decode diagnostic message as UTF-8"

// Diagnostic assembles one logical diagnostic message from streamed chunks.
//
// External parsers report failures through a callback invoked zero or more
// times per message. The first chunk initializes the accumulator, later
// chunks append. A Diagnostic belongs to a single parse call and must not
// be shared across calls or goroutines.
type Diagnostic struct {
	buf     []byte
	touched bool
}

// Callback returns the chunk receiver feeding this accumulator.
func (d *Diagnostic) Callback() ircore.DiagnosticCallback {
	return func(chunk []byte) {
		d.touched = true
		d.buf = append(d.buf, chunk...)
	}
}

// Present reports whether any chunk arrived. An untouched accumulator means
// the producer had nothing to say; the message stays absent rather than
// becoming the empty string by accident.
func (d *Diagnostic) Present() bool {
	return d.touched
}

// Message returns the assembled text. Invalid UTF-8 anywhere in the
// accumulated bytes yields DecodeFallback instead of propagating garbage.
// An absent message returns "".
func (d *Diagnostic) Message() string {
	if !d.touched {
		return ""
	}
	if !utf8.Valid(d.buf) {
		return DecodeFallback
	}
	return string(d.buf)
}

// MessageOr returns the assembled text, or fallback when no chunk arrived.
func (d *Diagnostic) MessageOr(fallback string) string {
	if !d.touched {
		return fallback
	}
	return d.Message()
}

// Reset clears the accumulator for reuse.
func (d *Diagnostic) Reset() {
	d.buf = d.buf[:0]
	d.touched = false
}
