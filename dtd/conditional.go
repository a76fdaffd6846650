package dtd

// parseConditionalSection parses a conditionalSect, "<![" already
// consumed: either an INCLUDE section, whose markup declarations are
// parsed normally, or an IGNORE section, whose content (including any
// nested conditional sections) is skipped as raw text.
func (p *Parser) parseConditionalSection() {
	p.skipWhitespace()
	switch {
	case p.tryLiteral("INCLUDE"):
		p.skipWhitespace()
		p.requireRune('[')
		p.parseMarkupDeclarationsUntilSectionClose()
	case p.tryLiteral("IGNORE"):
		p.skipWhitespace()
		p.requireRune('[')
		p.skipIgnoreSectionBody()
	default:
		p.fail("expected INCLUDE or IGNORE in conditional section")
	}
}

func (p *Parser) parseMarkupDeclarationsUntilSectionClose() {
	for {
		p.skipWhitespace()
		if p.tryLiteral("]]>") {
			return
		}
		if _, err := p.peek(); err != nil {
			p.fail("unterminated INCLUDE section")
		}
		p.parseOneMarkupDeclaration()
	}
}

// skipIgnoreSectionBody discards everything up to the matching "]]>",
// tracking nested "<![" markers so that a marked section nested
// inside an IGNORE section does not end it early.
func (p *Parser) skipIgnoreSectionBody() {
	prevState := p.state
	p.state = inIgnore
	defer func() { p.state = prevState }()

	depth := 1
	for {
		switch {
		case p.tryLiteral("<!["):
			depth++
		case p.tryLiteral("]]>"):
			depth--
			if depth == 0 {
				return
			}
		default:
			if _, err := p.nextRune(); err != nil {
				p.fail("unterminated IGNORE section")
			}
		}
	}
}
