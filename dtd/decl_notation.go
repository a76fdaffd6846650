package dtd

// parseNotationDecl parses a NotationDecl, "<!NOTATION" already
// consumed.
func (p *Parser) parseNotationDecl() {
	p.requireWhitespace()
	name := p.scanName()
	p.requireWhitespace()

	not := &Notation{Name: name}
	switch {
	case p.tryLiteral("SYSTEM"):
		p.requireWhitespace()
		not.SystemID = p.scanQuoted(outsideDTD)
	case p.tryLiteral("PUBLIC"):
		p.requireWhitespace()
		not.PublicID = p.scanQuoted(outsideDTD)
		p.skipWhitespace()
		if r, err := p.peek(); err == nil && (r == '\'' || r == '"') {
			not.SystemID = p.scanQuoted(outsideDTD)
		}
	default:
		p.fail("expected SYSTEM or PUBLIC in notation declaration")
	}
	p.skipWhitespace()
	p.requireRune('>')

	if _, exists := p.dtd.Notations[name]; exists {
		p.failSemantic("notation %q declared more than once", name)
	}
	p.dtd.Notations[name] = not
}
