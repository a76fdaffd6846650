package dtd

// parseEntityDecl parses an EntityDecl, "<!ENTITY" already consumed:
// either a GEDecl (general entity) or a PEDecl (parameter entity, the
// form with a '%' before the name).
func (p *Parser) parseEntityDecl() {
	p.requireWhitespace()
	isParam := p.tryLiteral("%")
	if isParam {
		p.requireWhitespace()
	}
	name := p.scanName()
	p.requireWhitespace()

	if isParam {
		p.parsePEDef(name)
		return
	}
	p.parseGEDef(name)
}

func (p *Parser) parsePEDef(name string) {
	pe := &ParameterEntity{Entity: Entity{Name: name}}
	if r, err := p.peek(); err == nil && (r == '\'' || r == '"') {
		pe.Value = p.scanQuoted(inEntityValue)
	} else {
		publicID, systemID, ok := p.tryParseExternalID()
		if !ok {
			p.fail("expected an entity value or an external identifier")
		}
		pe.External = true
		pe.PublicID, pe.SystemID = publicID, systemID
	}
	p.skipWhitespace()
	p.requireRune('>')
	if _, exists := p.dtd.ParameterEntities[name]; !exists {
		p.dtd.ParameterEntities[name] = pe
	}
}

func (p *Parser) parseGEDef(name string) {
	if r, err := p.peek(); err == nil && (r == '\'' || r == '"') {
		ge := &ParsedGeneralEntity{
			Entity: Entity{Name: name},
			Value:  p.scanQuoted(inEntityValue),
		}
		p.skipWhitespace()
		p.requireRune('>')
		p.installGeneralEntity(name, ge)
		return
	}

	publicID, systemID, ok := p.tryParseExternalID()
	if !ok {
		p.fail("expected an entity value or an external identifier")
	}
	p.skipWhitespace()
	if p.tryLiteral("NDATA") {
		p.requireWhitespace()
		notation := p.scanName()
		p.skipWhitespace()
		p.requireRune('>')
		p.installUnparsedEntity(name, &UnparsedEntity{
			Entity: Entity{
				Name: name, SystemID: systemID, PublicID: publicID, External: true,
			},
			Notation: notation,
		})
		return
	}
	p.skipWhitespace()
	p.requireRune('>')
	p.installGeneralEntity(name, &ParsedGeneralEntity{
		Entity: Entity{Name: name, SystemID: systemID, PublicID: publicID, External: true},
	})
}

// installGeneralEntity and installUnparsedEntity enforce first
// -declaration-wins and the shared namespace between parsed general
// and unparsed entities: a name claimed by either kind precludes the
// other.
func (p *Parser) installGeneralEntity(name string, ge *ParsedGeneralEntity) {
	if _, exists := p.dtd.ParsedGeneralEntities[name]; exists {
		return
	}
	if _, exists := p.dtd.UnparsedEntities[name]; exists {
		return
	}
	p.dtd.ParsedGeneralEntities[name] = ge
}

func (p *Parser) installUnparsedEntity(name string, ue *UnparsedEntity) {
	if _, exists := p.dtd.UnparsedEntities[name]; exists {
		return
	}
	if _, exists := p.dtd.ParsedGeneralEntities[name]; exists {
		return
	}
	p.dtd.UnparsedEntities[name] = ue
}
