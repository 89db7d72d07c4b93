package pass

import (
	"strconv"

	ircore "github.com/wippyai/ir-core"
	"github.com/wippyai/ir-core/errors"
)

// ParsePipeline parses a textual pipeline description and appends the
// result to the manager. The grammar follows the conventional nested
// form:
//
//	pipeline := entry (',' entry)*
//	entry    := name '(' pipeline ')'    nested anchor
//	          | name '{' options '}'     pass with options
//	          | name                     pass
//
// Every pass name must be registered. Errors are reported through the
// diagnostic channel in chunks and returned as a single pipeline parse
// error carrying the accumulated text; the manager is only modified when
// the whole description parses.
func ParsePipeline(m *Manager, source string) error {
	var diag errors.Diagnostic
	p := &pipelineParser{src: source, emit: diag.Callback()}

	entries, ok := p.parsePipeline()
	if ok && p.pos < len(p.src) {
		p.fail("unexpected '" + string(p.src[p.pos]) + "'")
		ok = false
	}
	if !ok {
		return errors.PipelineParse(diag.MessageOr("malformed pass pipeline"))
	}
	commit(m, entries)
	return nil
}

// parsedEntry is one parsed pipeline element, held back until the whole
// description is known to be valid.
type parsedEntry struct {
	anchor string
	nested []parsedEntry
	pass   Pass
}

type pipelineParser struct {
	src  string
	pos  int
	emit ircore.DiagnosticCallback
}

// fail reports a parse failure through the diagnostic callback. The
// message arrives in three chunks so the receiving side exercises its
// accumulation path the same way a streaming emitter would.
func (p *pipelineParser) fail(what string) {
	p.emit([]byte(what))
	p.emit([]byte(" at position " + strconv.Itoa(p.pos)))
	p.emit([]byte(" in '" + p.src + "'"))
}

func (p *pipelineParser) skipSpaces() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *pipelineParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// parseName reads a pass or anchor name: letters, digits, '.', '_', '-'.
func (p *pipelineParser) parseName() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '.' || c == '_' || c == '-' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

// parsePipeline parses a comma-separated entry list.
func (p *pipelineParser) parsePipeline() ([]parsedEntry, bool) {
	var entries []parsedEntry
	for {
		entry, ok := p.parseEntry()
		if !ok {
			return nil, false
		}
		entries = append(entries, entry)

		p.skipSpaces()
		if p.peek() != ',' {
			return entries, true
		}
		p.pos++
	}
}

func (p *pipelineParser) parseEntry() (parsedEntry, bool) {
	p.skipSpaces()
	name := p.parseName()
	if name == "" {
		p.fail("expected pass name")
		return parsedEntry{}, false
	}
	p.skipSpaces()

	switch p.peek() {
	case '(':
		p.pos++
		nested, ok := p.parsePipeline()
		if !ok {
			return parsedEntry{}, false
		}
		p.skipSpaces()
		if p.peek() != ')' {
			p.fail("missing ')'")
			return parsedEntry{}, false
		}
		p.pos++
		return parsedEntry{anchor: name, nested: nested}, true

	case '{':
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != '}' {
			p.pos++
		}
		if p.pos >= len(p.src) {
			p.fail("missing '}'")
			return parsedEntry{}, false
		}
		options := p.src[start:p.pos]
		p.pos++
		return p.resolvePass(name, options, true)

	default:
		return p.resolvePass(name, "", false)
	}
}

// resolvePass instantiates a registered pass and applies its options.
func (p *pipelineParser) resolvePass(name, options string, hasOptions bool) (parsedEntry, bool) {
	pass, ok := Lookup(name)
	if !ok {
		p.fail("'" + name + "' does not refer to a registered pass")
		return parsedEntry{}, false
	}
	if hasOptions {
		setter, ok := pass.(OptionsSetter)
		if !ok {
			p.fail("pass '" + name + "' does not take options")
			return parsedEntry{}, false
		}
		if err := setter.SetOptions(options); err != nil {
			p.fail("invalid options for pass '" + name + "': " + err.Error())
			return parsedEntry{}, false
		}
	}
	return parsedEntry{pass: pass}, true
}

// commit appends the parsed entries to the manager tree.
func commit(m *Manager, entries []parsedEntry) {
	for _, e := range entries {
		if e.pass != nil {
			m.AddPass(e.pass)
			continue
		}
		commit(m.Nest(e.anchor), e.nested)
	}
}
