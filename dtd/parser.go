package dtd

import (
	"fmt"
	"io"

	"aqwari.net/dtd/charstream"
	"aqwari.net/dtd/qname"
)

// A Parser holds all per-parse state: the character source stack, the
// DTD model being built, the active Config, and the current
// entityState. Parser is not safe for concurrent use and is never
// reused across parses; ParseXMLDocument and ParseExternalSubset each
// construct one and discard it on return.
type Parser struct {
	stack *charstream.Stack
	cfg   *Config
	dtd   *DTD
	state entityState

	// standalone records the XML declaration's standalone value, when
	// present ("yes" or "no"); it is not currently used to change
	// parsing behavior, but is recorded for completeness.
	standalone string
}

func newParser(src Source, cfg *Config) *Parser {
	p := &Parser{
		cfg:   cfg,
		dtd:   newDTD(),
		state: outsideDTD,
	}
	p.stack = charstream.NewStack(src.Reader, src.SystemID, src.PublicID)
	installPredefinedEntities(p.dtd)
	return p
}

// ParseXMLDocument parses src as a complete XML document, extracting
// only its DOCTYPE declaration (the optional internal subset, and the
// external subset it references, if any) into a DTD. It does not
// parse or validate the document's element content; once the DOCTYPE
// declaration (or the document's root element start-tag, if there is
// no DOCTYPE) has been found, parsing stops.
func ParseXMLDocument(src Source, opts ...Option) (*DTD, error) {
	p := newParser(src, newConfig(opts))
	if err := p.run(func() error {
		p.parsePrologAndDoctype()
		return nil
	}); err != nil {
		return nil, err
	}
	if err := p.run(func() error {
		p.postProcess()
		return nil
	}); err != nil {
		return nil, err
	}
	return p.dtd, nil
}

// ParseExternalSubset parses src directly as a standalone external
// DTD subset: a sequence of markup declarations and parameter-entity
// references, with no enclosing DOCTYPE or "[...]" brackets.
func ParseExternalSubset(src Source, opts ...Option) (*DTD, error) {
	p := newParser(src, newConfig(opts))
	p.state = inDTD
	if err := p.run(func() error {
		p.parseMarkupDeclarations()
		return nil
	}); err != nil {
		return nil, err
	}
	if err := p.run(func() error {
		p.postProcess()
		return nil
	}); err != nil {
		return nil, err
	}
	return p.dtd, nil
}

// failPost raises a SemanticError with no position, for conditions
// only detectable after the character stream has been fully
// consumed (post-processing).
func (p *Parser) failPost(format string, args ...interface{}) {
	stop(&SemanticError{Message: fmt.Sprintf(format, args...)})
}

// resolveExternal fetches the resource named by an ExternalID through
// the configured Resolver. It does not look at the resource's text
// declaration; openExternalResource applies any encoding declared
// there.
func (p *Parser) resolveExternal(publicID, systemID string) (io.ReadCloser, error) {
	rc, err := p.cfg.resolver.Resolve(publicID, systemID)
	if err != nil {
		return nil, err
	}
	return rc, nil
}

// tryLiteral attempts to consume exactly s from the input. On a full
// match it returns true, with s consumed. On a mismatch, every rune
// read while attempting the match (including the mismatching one) is
// pushed back as a single frame, and it returns false with the input
// unconsumed. It is used both for keyword dispatch (markup
// declaration kinds, attribute types, content-spec keywords) and for
// detecting terminators (comment and marked-section close sequences).
// Runes are read through nextRune, so references are expanded while
// matching; the pushed-back frame has both flags cleared.
func (p *Parser) tryLiteral(s string) bool {
	var read []rune
	for _, want := range s {
		r, err := p.nextRune()
		if err != nil {
			if len(read) > 0 {
				p.stack.UnreadString(string(read))
			}
			return false
		}
		read = append(read, r)
		if r != want {
			p.stack.UnreadString(string(read))
			return false
		}
	}
	return true
}

// elementTypeRef looks up or creates the ElementType named by name,
// logging at LogOutput's verbosity when the lookup auto-creates a
// placeholder for an element type referenced (as a content-particle
// or ATTLIST target) before its own <!ELEMENT ...> declaration has
// been seen.
func (p *Parser) elementTypeRef(name qname.Name) *ElementType {
	if et, ok := p.dtd.ElementTypes[name.Key]; ok {
		return et
	}
	p.cfg.logf("auto-creating forward-referenced element type %q", name.Local())
	return p.dtd.elementType(name)
}

// resolveDeclName turns a raw declaration name into a qname.Name.
// It does not consult the Config: during the main parse pass, names
// are always constructed namespace-unaware (xmlns
// resolution happens only once the whole DTD has been scanned and
// the prefix map is known); see postProcess and rekeyElementType.
func (p *Parser) resolveDeclName(raw string) qname.Name {
	return qname.NewUnaware(raw)
}
