package ircore

// DiagnosticCallback receives fragments of streamed diagnostic text.
//
// A producer may invoke the callback any number of times while assembling
// one logical message, including zero times when nothing went wrong. Chunks
// are raw bytes: a single chunk is not guaranteed to be a complete message
// or even valid UTF-8 on its own, so consumers append chunks in arrival
// order and decode only the final assembled text.
type DiagnosticCallback func(chunk []byte)
