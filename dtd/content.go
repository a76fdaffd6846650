package dtd

// parseContentSpec parses a contentspec production and fills in et's
// ContentType and, for MIXED and ELEMENT models, its Content particle
// tree. Every element type named by a Reference in the resulting
// tree is related to et as a child (and et as its parent).
func (p *Parser) parseContentSpec(et *ElementType) {
	switch {
	case p.tryLiteral("EMPTY"):
		et.ContentType = EMPTY
	case p.tryLiteral("ANY"):
		et.ContentType = ANY
	default:
		p.requireRune('(')
		p.skipWhitespace()
		if p.tryLiteral("#PCDATA") {
			et.ContentType = p.parseMixedRest(et)
			return
		}
		g := p.parseGroupFromOpenParen()
		g.freq = p.parseFreqModifier()
		et.ContentType = ELEMENT
		et.Content = g
		for _, ref := range g.References() {
			et.addChild(ref.Elem)
		}
	}
}

// parseMixedRest parses the remainder of a Mixed content model,
// "(#PCDATA" already consumed: either ")" or ")*" with no element
// names (content type PCDATA), or a repeated choice of element names,
// "|a|b)*" (content type MIXED).
func (p *Parser) parseMixedRest(et *ElementType) ContentType {
	var names []string
	for {
		p.skipWhitespace()
		r, err := p.peek()
		if err != nil {
			p.fail("unterminated mixed content model")
		}
		if r == ')' {
			p.nextRune()
			break
		}
		p.requireRune('|')
		p.skipWhitespace()
		names = append(names, p.scanName())
	}
	if len(names) == 0 {
		if r, err := p.peek(); err == nil && r == '*' {
			p.nextRune()
		}
		return PCDATA
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			p.failSemantic("duplicate element type %q in mixed content model", n)
		}
		seen[n] = true
	}
	p.requireRune('*')
	group := &Group{
		freq: freq{required: false, repeatable: true},
		Kind: Choice,
	}
	for _, n := range names {
		child := p.elementTypeRef(p.resolveDeclName(n))
		group.Members = append(group.Members, &Reference{
			freq: freq{required: true, repeatable: false},
			Elem: child,
		})
		et.addChild(child)
	}
	et.Content = group
	return MIXED
}

// parseGroupFromOpenParen parses a children group's members and
// closing ')', with the opening '(' already consumed. Every member
// must be separated by the same separator, ',' (Sequence) or '|'
// (Choice); mixing the two within one group is a syntax error. A
// single-member group is canonicalized to Sequence.
func (p *Parser) parseGroupFromOpenParen() *Group {
	g := &Group{}
	p.skipWhitespace()
	g.Members = append(g.Members, p.parseCP())

	kind := Sequence
	sawSeparator := false
	for {
		p.skipWhitespace()
		r, err := p.peek()
		if err != nil {
			p.fail("unterminated content model group")
		}
		if r == ')' {
			p.nextRune()
			break
		}
		var this GroupKind
		switch r {
		case '|':
			this = Choice
		case ',':
			this = Sequence
		default:
			p.fail("expected ',', '|', or ')' in content model")
		}
		p.nextRune()
		if sawSeparator && this != kind {
			p.fail("cannot mix ',' and '|' separators within one content-model group")
		}
		kind = this
		sawSeparator = true
		p.skipWhitespace()
		g.Members = append(g.Members, p.parseCP())
	}
	g.Kind = kind
	return g
}

// parseCP parses one content particle: a Name, or a nested group,
// optionally followed by a frequency modifier.
func (p *Parser) parseCP() Particle {
	r, err := p.peek()
	if err != nil {
		p.fail("expected a content particle")
	}
	var particle Particle
	if r == '(' {
		p.nextRune()
		particle = p.parseGroupFromOpenParen()
	} else {
		name := p.scanName()
		particle = &Reference{Elem: p.elementTypeRef(p.resolveDeclName(name))}
	}
	f := p.parseFreqModifier()
	switch v := particle.(type) {
	case *Reference:
		v.freq = f
	case *Group:
		v.freq = f
	}
	return particle
}

// parseFreqModifier parses an optional '?', '+', or '*' frequency
// modifier, defaulting to "required, not repeatable" if none is
// present.
func (p *Parser) parseFreqModifier() freq {
	r, err := p.peek()
	if err != nil {
		return freqFromModifier(0)
	}
	switch r {
	case '?', '+', '*':
		p.nextRune()
		return freqFromModifier(r)
	default:
		return freqFromModifier(0)
	}
}
