package engine

// Options configures transform application. An Options value is a
// scoped resource: create it, adjust the toggles, hand it to
// ApplyNamedSequence, and release it with Close when the scope ends,
// typically with defer. Using a released Options panics, so a stale
// reference cannot silently steer a later transform.
type Options struct {
	expensiveChecks       bool
	enforceSingleTopLevel bool
	released              bool
}

// NewOptions creates transform options with the default toggles.
func NewOptions() *Options {
	return &Options{
		expensiveChecks:       false,
		enforceSingleTopLevel: true,
	}
}

// EnableExpensiveChecks toggles payload consistency checking before and
// after every transform step.
func (o *Options) EnableExpensiveChecks(enabled bool) *Options {
	o.mustLive()
	o.expensiveChecks = enabled
	return o
}

// ExpensiveChecksEnabled reports whether payload checking is on.
func (o *Options) ExpensiveChecksEnabled() bool {
	o.mustLive()
	return o.expensiveChecks
}

// EnforceSingleTopLevelTransformOp toggles the requirement that the
// transform module contains exactly one top-level transform operation.
func (o *Options) EnforceSingleTopLevelTransformOp(enforce bool) *Options {
	o.mustLive()
	o.enforceSingleTopLevel = enforce
	return o
}

// SingleTopLevelTransformOpEnforced reports whether the single
// top-level transform operation requirement is on.
func (o *Options) SingleTopLevelTransformOpEnforced() bool {
	o.mustLive()
	return o.enforceSingleTopLevel
}

// Close releases the options. Closing twice is harmless; any other use
// after Close panics.
func (o *Options) Close() {
	o.released = true
}

func (o *Options) mustLive() {
	if o.released {
		panic("engine: transform options used after Close")
	}
}
