package dtd

// parseElementDecl parses an elementdecl, "<!ELEMENT" already
// consumed.
func (p *Parser) parseElementDecl() {
	p.requireWhitespace()
	name := p.scanName()
	p.requireWhitespace()

	et := p.dtd.elementType(p.resolveDeclName(name))
	if et.declared {
		p.failSemantic("element type %q declared more than once", name)
	}
	et.declared = true

	p.parseContentSpec(et)
	p.skipWhitespace()
	p.requireRune('>')
}
