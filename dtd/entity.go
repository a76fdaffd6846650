package dtd

import (
	"io"
	"strconv"

	"aqwari.net/dtd/internal/charclass"
)

// entityState scopes how '&' and '%' are interpreted at the current
// point in the character stream, following the "Reference in ..."
// dispatch table of XML §4.4 (spec.md §4.2).
type entityState int

const (
	outsideDTD entityState = iota
	inDTD
	inAttValue
	inEntityValue
	inComment
	inIgnore
)

// installPredefinedEntities enters the five predefined parsed general
// entities into d's entity table, using their literal internal values
// exactly as the XML recommendation declares them (the character
// reference in each value is what ultimately resolves to the
// entity's actual replacement text, via the ordinary character
// -reference expansion path - see expandAmp).
func installPredefinedEntities(d *DTD) {
	predefined := []struct{ name, value string }{
		{"lt", "&#60;"},
		{"gt", "&#62;"},
		{"amp", "&#38;"},
		{"apos", "&#39;"},
		{"quot", "&#34;"},
	}
	for _, e := range predefined {
		d.ParsedGeneralEntities[e.name] = &ParsedGeneralEntity{
			Entity: Entity{Name: e.name},
			Value:  e.value,
		}
	}
}

// nextRune is the parser's single "get next character" primitive.
// Every lexical routine reads through this method (directly or via
// helpers in lex.go) rather than calling p.stack.NextRune directly, so
// that entity and parameter-entity references are transparently
// expanded wherever they are legal in the current entityState.
//
// A rune read from a frame with IgnoreMarkup set is returned exactly
// as read, with no further interpretation: only expandCharRef pushes
// such a frame, holding the single character a character reference
// resolved to, and re-running markup dispatch over it would both
// misinterpret a resolved '&' or '%' as a fresh reference sigil and
// defeat the ignoreMarkup check below. Frames pushed by expandAmpIn
// and expandPercentIn have IgnoreMarkup cleared, so references in an
// entity's replacement text are expanded in turn.
func (p *Parser) nextRune() (rune, error) {
	r, err := p.stack.NextRune()
	if err != nil {
		return 0, err
	}
	if p.stack.IgnoreMarkup() {
		return r, nil
	}
	switch r {
	case '&':
		return p.expandAmp()
	case '%':
		return p.expandPercent()
	case '<':
		if p.state == inAttValue || p.state == inEntityValue {
			p.failSemantic("literal '<' is not allowed directly in %s; use a character reference", literalStateName(p.state))
		}
	}
	return r, nil
}

func literalStateName(state entityState) string {
	if state == inEntityValue {
		return "an entity value"
	}
	return "an attribute value"
}

func (p *Parser) expandAmp() (rune, error) {
	switch p.state {
	case inDTD:
		p.fail("general entity and character references are not allowed directly in the DTD")
		panic("unreachable")
	case inAttValue:
		return p.expandAmpIn(true)
	case inEntityValue:
		return p.expandAmpIn(false)
	default: // outsideDTD, inComment, inIgnore
		return '&', nil
	}
}

// expandAmpIn handles '&' already consumed from the stream, within an
// attribute value (isAttValue) or entity value (!isAttValue).
func (p *Parser) expandAmpIn(isAttValue bool) (rune, error) {
	c, err := p.stack.NextRune()
	if err != nil {
		p.fail("unexpected end of input after '&'")
	}
	if c == '#' {
		return p.expandCharRef()
	}
	if err := p.stack.UnreadRune(); err != nil {
		p.stack.UnreadString(string(c))
	}
	if !isAttValue {
		// ENTITYVALUE: general references are bypassed, not
		// expanded; the '&' (and the reference text after it) are
		// returned as literal characters.
		return '&', nil
	}
	name := p.scanRawName()
	p.requireRawChar(';', "expected ';' to terminate entity reference")
	ent, ok := p.dtd.ParsedGeneralEntities[name]
	if !ok {
		p.failSemantic("reference to undeclared general entity %q", name)
	}
	if ent.Value == "" && ent.External {
		p.fail("external entity %q cannot be referenced in an attribute value", name)
	}
	p.stack.PushString(ent.Value)
	p.stack.SetIgnoreQuote(true)
	p.stack.SetIgnoreMarkup(false)
	return p.nextRune()
}

func (p *Parser) expandCharRef() (rune, error) {
	c, err := p.stack.NextRune()
	if err != nil {
		p.fail("unexpected end of input in character reference")
	}
	hex := false
	if c == 'x' || c == 'X' {
		hex = true
		c, err = p.stack.NextRune()
		if err != nil {
			p.fail("unexpected end of input in character reference")
		}
	}
	var digits []rune
	for isRefDigit(c, hex) {
		digits = append(digits, c)
		c, err = p.stack.NextRune()
		if err != nil {
			p.fail("unexpected end of input in character reference")
		}
	}
	if len(digits) == 0 {
		p.fail("malformed character reference: no digits")
	}
	if c != ';' {
		p.fail("malformed character reference: expected ';'")
	}
	base := 10
	if hex {
		base = 16
	}
	val, err := strconv.ParseUint(string(digits), base, 32)
	if err != nil {
		p.fail("malformed character reference: %v", err)
	}
	if val > 0xFFFF {
		p.failSemantic("character reference &#%s; out of range", string(digits))
	}
	p.stack.PushString(string(rune(val)))
	p.stack.SetIgnoreQuote(true)
	p.stack.SetIgnoreMarkup(true)
	return p.nextRune()
}

func isRefDigit(c rune, hex bool) bool {
	if !hex {
		return c >= '0' && c <= '9'
	}
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (p *Parser) expandPercent() (rune, error) {
	switch p.state {
	case inDTD:
		return p.expandPercentIn(true)
	case inEntityValue:
		return p.expandPercentIn(false)
	default: // outsideDTD, inAttValue, inComment, inIgnore
		return '%', nil
	}
}

// expandPercentIn handles '%' already consumed from the stream,
// either directly in the DTD (withSpacing, "Included as PE") or
// inside an entity value (!withSpacing, "Included as Literal").
func (p *Parser) expandPercentIn(withSpacing bool) (rune, error) {
	c, err := p.stack.NextRune()
	if err != nil {
		p.fail("unexpected end of input after '%%'")
	}
	if withSpacing && isXMLWhitespace(c) {
		// Not a reference: this is the '%' of a parameter-entity
		// declaration, "<!ENTITY % name ...>".
		if uerr := p.stack.UnreadRune(); uerr != nil {
			p.stack.UnreadString(string(c))
		}
		return '%', nil
	}
	if err := p.stack.UnreadRune(); err != nil {
		p.stack.UnreadString(string(c))
	}
	name := p.scanRawName()
	p.requireRawChar(';', "expected ';' to terminate parameter-entity reference")
	pe, ok := p.dtd.ParameterEntities[name]
	if !ok {
		p.failSemantic("reference to undeclared parameter entity %q", name)
	}
	if pe.Value != "" || !pe.External {
		p.pushPE(withSpacing, func() { p.stack.PushString(pe.Value) })
	} else {
		rc, err := p.resolveExternal(pe.PublicID, pe.SystemID)
		if err != nil {
			stop(&IOError{Op: "resolving parameter entity " + pe.Name, Err: err})
		}
		r := p.openExternalResource(rc)
		p.pushPE(withSpacing, func() {
			p.stack.PushReader(struct {
				io.Reader
				io.Closer
			}{r, rc}, pe.SystemID, pe.PublicID)
		})
	}
	return p.nextRune()
}

// pushPE pushes push()'s frame (the entity's replacement text),
// surrounded by single-space frames when withSpacing is set (PE
// Included as PE, spec.md §4.2), and sets every pushed frame's flags
// to ignoreQuote=false, ignoreMarkup=false.
func (p *Parser) pushPE(withSpacing bool, push func()) {
	if withSpacing {
		p.stack.PushString(" ")
		p.stack.SetIgnoreQuote(false)
		p.stack.SetIgnoreMarkup(false)
	}
	push()
	p.stack.SetIgnoreQuote(false)
	p.stack.SetIgnoreMarkup(false)
	if withSpacing {
		p.stack.PushString(" ")
		p.stack.SetIgnoreQuote(false)
		p.stack.SetIgnoreMarkup(false)
	}
}

// scanRawName scans a Name directly from the character stack,
// bypassing entity expansion - used only for the entity/parameter
// -entity name that immediately follows a '&' or '%' sigil, which is
// never itself subject to further expansion.
func (p *Parser) scanRawName() string {
	var buf []rune
	c, err := p.stack.NextRune()
	if err != nil || !charclass.IsNameStartChar(c) {
		p.fail("expected name after entity reference sigil")
	}
	buf = append(buf, c)
	for {
		c, err = p.stack.NextRune()
		if err != nil {
			p.fail("unexpected end of input scanning entity name")
		}
		if !charclass.IsNameChar(c) {
			if uerr := p.stack.UnreadRune(); uerr != nil {
				p.stack.UnreadString(string(c))
			}
			break
		}
		buf = append(buf, c)
	}
	return string(buf)
}

func (p *Parser) requireRawChar(want rune, msg string) {
	c, err := p.stack.NextRune()
	if err != nil || c != want {
		p.fail("%s", msg)
	}
}
