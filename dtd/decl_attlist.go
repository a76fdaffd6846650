package dtd

// parseAttlistDecl parses an AttlistDecl, "<!ATTLIST" already
// consumed: an element name followed by zero or more attribute
// definitions.
func (p *Parser) parseAttlistDecl() {
	p.requireWhitespace()
	name := p.scanName()
	et := p.elementTypeRef(p.resolveDeclName(name))
	for {
		p.skipWhitespace()
		r, err := p.peek()
		if err != nil {
			p.fail("unterminated attribute-list declaration")
		}
		if r == '>' {
			p.nextRune()
			return
		}
		p.parseAttDef(et)
	}
}

// parseAttDef parses one AttDef and installs it on et, unless an
// attribute of the same name was already declared for et (the first
// <!ATTLIST> declaration for a given element/attribute pair wins).
func (p *Parser) parseAttDef(et *ElementType) {
	name := p.scanName()
	p.requireWhitespace()
	attr := &Attribute{Name: p.resolveDeclName(name)}
	p.parseAttType(attr)
	p.requireWhitespace()
	p.parseDefaultDecl(attr)

	if _, exists := et.Attributes[attr.Name.Key]; !exists {
		et.Attributes[attr.Name.Key] = attr
	}
}

func (p *Parser) parseAttType(attr *Attribute) {
	switch {
	case p.tryLiteral("CDATA"):
		attr.Type = CDATA
	case p.tryLiteral("IDREFS"):
		attr.Type = IDREFS
	case p.tryLiteral("IDREF"):
		attr.Type = IDREF
	case p.tryLiteral("ID"):
		attr.Type = ID
	case p.tryLiteral("ENTITIES"):
		attr.Type = AttrEntities
	case p.tryLiteral("ENTITY"):
		attr.Type = AttrEntity
	case p.tryLiteral("NMTOKENS"):
		attr.Type = NMTOKENS
	case p.tryLiteral("NMTOKEN"):
		attr.Type = NMTOKEN
	case p.tryLiteral("NOTATION"):
		attr.Type = AttrNotation
		p.requireWhitespace()
		attr.Enum = p.parseNameEnumeration()
	default:
		if r, err := p.peek(); err == nil && r == '(' {
			attr.Type = ENUMERATED
			attr.Enum = p.parseNmtokenEnumeration()
			return
		}
		p.fail("expected an attribute type")
	}
}

func (p *Parser) parseDefaultDecl(attr *Attribute) {
	switch {
	case p.tryLiteral("#REQUIRED"):
		attr.Presence = Required
	case p.tryLiteral("#IMPLIED"):
		attr.Presence = Optional
	case p.tryLiteral("#FIXED"):
		p.requireWhitespace()
		attr.Presence = Fixed
		attr.DefaultValue = p.scanQuoted(inAttValue)
	default:
		attr.Presence = Default
		attr.DefaultValue = p.scanQuoted(inAttValue)
	}
}

func (p *Parser) parseNameEnumeration() []string {
	p.requireRune('(')
	var out []string
	seen := make(map[string]bool)
	for {
		p.skipWhitespace()
		tok := p.scanName()
		if seen[tok] {
			p.failSemantic("duplicate enumeration value %q", tok)
		}
		seen[tok] = true
		out = append(out, tok)
		p.skipWhitespace()
		r, err := p.nextRune()
		if err != nil {
			p.fail("unterminated NOTATION enumeration")
		}
		if r == ')' {
			return out
		}
		if r != '|' {
			p.fail("expected '|' or ')' in NOTATION enumeration")
		}
	}
}

func (p *Parser) parseNmtokenEnumeration() []string {
	p.requireRune('(')
	var out []string
	seen := make(map[string]bool)
	for {
		p.skipWhitespace()
		tok := p.scanNmtoken()
		if seen[tok] {
			p.failSemantic("duplicate enumeration value %q", tok)
		}
		seen[tok] = true
		out = append(out, tok)
		p.skipWhitespace()
		r, err := p.nextRune()
		if err != nil {
			p.fail("unterminated enumeration")
		}
		if r == ')' {
			return out
		}
		if r != '|' {
			p.fail("expected '|' or ')' in enumeration")
		}
	}
}
