package ir

import "strconv"

// Location is an interned handle to a source location. Every operation
// carries one; UnknownLocation stands in when no better information
// exists. The zero Location is invalid.
type Location struct {
	ctx *Context
	id  locID
}

// UnknownLocation returns the location meaning "no source information".
func UnknownLocation(ctx *Context) Location {
	d := locData{unknown: true}
	return Location{ctx: ctx, id: ctx.interner.internLoc(locKey(d), d)}
}

// FileLineColLocation returns a location pointing at file:line:col.
func FileLineColLocation(ctx *Context, file string, line, col uint) Location {
	d := locData{file: file, line: uint32(line), col: uint32(col)}
	return Location{ctx: ctx, id: ctx.interner.internLoc(locKey(d), d)}
}

// Valid reports whether the handle refers to a location.
func (l Location) Valid() bool {
	return l.ctx != nil && l.id != 0
}

// Context returns the owning context.
func (l Location) Context() *Context {
	return l.ctx
}

// IsUnknown reports whether the location carries no source information.
func (l Location) IsUnknown() bool {
	return l.data().unknown
}

// Position returns the file, line and column of a file location.
func (l Location) Position() (file string, line, col uint, ok bool) {
	d := l.data()
	if d.unknown {
		return "", 0, 0, false
	}
	return d.file, uint(d.line), uint(d.col), true
}

// String renders the location as "file:line:col" or "loc(unknown)".
func (l Location) String() string {
	if !l.Valid() {
		return "<<invalid location>>"
	}
	d := l.data()
	if d.unknown {
		return "loc(unknown)"
	}
	return d.file + ":" + strconv.FormatUint(uint64(d.line), 10) + ":" + strconv.FormatUint(uint64(d.col), 10)
}

func (l Location) data() *locData {
	if l.ctx == nil || l.id == 0 {
		panic("ir: use of zero Location")
	}
	return l.ctx.interner.locData(l.id)
}
