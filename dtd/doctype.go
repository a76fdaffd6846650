package dtd

import (
	"bufio"
	"io"
	"strings"
)

// parsePrologAndDoctype scans an XML document's prolog: an optional
// XML declaration, then Misc (whitespace, comments, processing
// instructions) up to either a DOCTYPE declaration or the root
// element's start-tag. Only a DOCTYPE declaration is parsed; the
// remainder of the document, if any, is never read.
func (p *Parser) parsePrologAndDoctype() {
	p.parseOptionalXMLDecl()
	for {
		p.skipWhitespace()
		if _, err := p.peek(); err != nil {
			return
		}
		switch {
		case p.tryLiteral("<!--"):
			p.skipComment()
		case p.tryLiteral("<!DOCTYPE"):
			p.parseDoctypeDecl()
			return
		case p.tryLiteral("<?"):
			p.skipPI()
		default:
			return
		}
	}
}

func (p *Parser) parseOptionalXMLDecl() {
	if !p.tryLiteral("<?xml") {
		return
	}
	if r, err := p.peek(); err != nil || !isXMLWhitespace(r) {
		p.stack.UnreadString("<?xml")
		return
	}
	p.requireWhitespace()
	p.requireLiteral("version")
	p.skipEq()
	p.scanQuoted(outsideDTD)
	p.skipWhitespace()
	if p.tryLiteral("encoding") {
		p.skipEq()
		p.scanQuoted(outsideDTD)
		p.skipWhitespace()
	}
	if p.tryLiteral("standalone") {
		p.skipEq()
		p.standalone = p.scanQuoted(outsideDTD)
		p.skipWhitespace()
	}
	p.requireLiteral("?>")
}

// skipEq consumes an Eq production: optional whitespace, '=',
// optional whitespace.
func (p *Parser) skipEq() {
	p.skipWhitespace()
	p.requireRune('=')
	p.skipWhitespace()
}

func (p *Parser) skipComment() {
	prevState := p.state
	p.state = inComment
	defer func() { p.state = prevState }()
	for {
		if p.tryLiteral("-->") {
			return
		}
		if _, err := p.nextRune(); err != nil {
			p.fail("unterminated comment")
		}
	}
}

func (p *Parser) skipPI() {
	p.scanName() // PITarget, discarded
	p.skipWhitespace()
	for {
		if p.tryLiteral("?>") {
			return
		}
		if _, err := p.nextRune(); err != nil {
			p.fail("unterminated processing instruction")
		}
	}
}

// parseDoctypeDecl parses a doctypedecl, "<!DOCTYPE" already consumed:
// the document element name, an optional ExternalID, and an optional
// internal subset "[ ... ]", then the external subset it references,
// if any.
func (p *Parser) parseDoctypeDecl() {
	p.requireWhitespace()
	p.scanName() // document element name; not otherwise used
	p.skipWhitespace()

	publicID, systemID, hasExternalID := p.tryParseExternalID()
	if hasExternalID {
		p.skipWhitespace()
	}

	if p.tryLiteral("[") {
		p.parseInternalSubset()
		p.skipWhitespace()
	}
	p.requireRune('>')

	if hasExternalID {
		p.parseExternalSubsetFrom(publicID, systemID)
	}
}

// tryParseExternalID attempts to parse an ExternalID (SYSTEM "..." or
// PUBLIC "..." "...") at the current position. If neither keyword
// matches, it leaves the input unconsumed and returns ok=false.
func (p *Parser) tryParseExternalID() (publicID, systemID string, ok bool) {
	switch {
	case p.tryLiteral("SYSTEM"):
		p.requireWhitespace()
		systemID = p.scanQuoted(outsideDTD)
		return "", systemID, true
	case p.tryLiteral("PUBLIC"):
		p.requireWhitespace()
		publicID = p.scanQuoted(outsideDTD)
		p.requireWhitespace()
		systemID = p.scanQuoted(outsideDTD)
		return publicID, systemID, true
	default:
		return "", "", false
	}
}

// parseInternalSubset parses the internal DTD subset, "[" already
// consumed, up to and including the matching "]".
func (p *Parser) parseInternalSubset() {
	prevState := p.state
	p.state = inDTD
	defer func() { p.state = prevState }()
	for {
		p.skipWhitespace()
		r, err := p.peek()
		if err != nil {
			p.fail("unterminated internal subset")
		}
		if r == ']' {
			p.nextRune()
			return
		}
		p.parseOneMarkupDeclaration()
	}
}

// parseExternalSubsetFrom resolves and parses the external subset
// named by an ExternalID found in a DOCTYPE declaration. Parsing ends
// when the external resource is exhausted; the document text after
// the DOCTYPE declaration is not read as declarations.
func (p *Parser) parseExternalSubsetFrom(publicID, systemID string) {
	rc, err := p.resolveExternal(publicID, systemID)
	if err != nil {
		stop(&IOError{Op: "resolving external subset", Err: err})
	}
	r := p.openExternalResource(rc)
	depth := p.stack.Depth()
	p.stack.PushReader(struct {
		io.Reader
		io.Closer
	}{r, rc}, systemID, publicID)
	prevState := p.state
	p.state = inDTD
	for {
		p.skipWhitespace()
		if p.stack.Depth() <= depth {
			break // the external subset's frame has been popped
		}
		if _, err := p.peek(); err != nil {
			break
		}
		p.parseOneMarkupDeclaration()
	}
	p.state = prevState
}

// parseMarkupDeclarations parses markup declarations until the
// character stream (across every pushed frame) is exhausted.
func (p *Parser) parseMarkupDeclarations() {
	for {
		p.skipWhitespace()
		if _, err := p.peek(); err != nil {
			return
		}
		p.parseOneMarkupDeclaration()
	}
}

// parseOneMarkupDeclaration dispatches a single markupdecl,
// conditional section, comment, PI, or parameter-entity reference
// found directly in a DTD subset.
func (p *Parser) parseOneMarkupDeclaration() {
	switch {
	case p.tryLiteral("<!--"):
		p.skipComment()
	case p.tryLiteral("<?"):
		p.skipPI()
	case p.tryLiteral("<!ELEMENT"):
		p.parseElementDecl()
	case p.tryLiteral("<!ATTLIST"):
		p.parseAttlistDecl()
	case p.tryLiteral("<!ENTITY"):
		p.parseEntityDecl()
	case p.tryLiteral("<!NOTATION"):
		p.parseNotationDecl()
	case p.tryLiteral("<!["):
		p.parseConditionalSection()
	default:
		p.fail("expected a markup declaration")
	}
}

// openExternalResource inspects rc for a leading text declaration
// (<?xml ... encoding="..." ?>, without "standalone"), and re-wraps
// the remainder of the stream to yield UTF-8 if a non-UTF-8 encoding
// was declared. The declaration itself, if found, is consumed and not
// re-emitted.
func (p *Parser) openExternalResource(rc io.ReadCloser) io.Reader {
	br := bufio.NewReader(rc)
	peeked, _ := br.Peek(5)
	if string(peeked) != "<?xml" {
		r, err := decodeWithEncoding(br, "")
		if err != nil {
			stop(&IOError{Op: "decoding external resource", Err: err})
		}
		return r
	}
	br.Discard(5)
	var raw []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			stop(&IOError{Op: "reading text declaration", Err: err})
		}
		raw = append(raw, b)
		if len(raw) >= 2 && raw[len(raw)-2] == '?' && raw[len(raw)-1] == '>' {
			break
		}
	}
	decl := string(raw)
	encodingName := extractPseudoAttr(decl, "encoding")
	r, err := decodeWithEncoding(br, encodingName)
	if err != nil {
		stop(&IOError{Op: "decoding external resource", Err: err})
	}
	return r
}

// extractPseudoAttr extracts name="value" or name='value' from a
// TextDecl/XMLDecl body using a minimal scan; it is not a general
// attribute-value parser and assumes well-formed ASCII pseudo
// -attribute syntax, which the XML and text declaration grammar
// guarantees.
func extractPseudoAttr(decl, name string) string {
	idx := strings.Index(decl, name)
	if idx < 0 {
		return ""
	}
	rest := decl[idx+len(name):]
	eq := strings.IndexByte(rest, '=')
	if eq < 0 {
		return ""
	}
	rest = strings.TrimLeft(rest[eq+1:], " \t\r\n")
	if len(rest) == 0 {
		return ""
	}
	quote := rest[0]
	if quote != '\'' && quote != '"' {
		return ""
	}
	end := strings.IndexByte(rest[1:], quote)
	if end < 0 {
		return ""
	}
	return rest[1 : 1+end]
}
