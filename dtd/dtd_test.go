package dtd

import (
	"io"
	"strings"
	"testing"
)

func mustParseExternal(t *testing.T, src string, opts ...Option) *DTD {
	t.Helper()
	d, err := ParseExternalSubset(Source{Reader: strings.NewReader(src)}, opts...)
	if err != nil {
		t.Fatalf("ParseExternalSubset(%q): %v", src, err)
	}
	return d
}

func elementType(t *testing.T, d *DTD, name string) *ElementType {
	t.Helper()
	for _, et := range d.ElementTypes {
		if et.Name.Local() == name {
			return et
		}
	}
	t.Fatalf("no element type named %q", name)
	return nil
}

func TestMinimalElementTypes(t *testing.T) {
	d := mustParseExternal(t, `
		<!ELEMENT a (b,c)>
		<!ELEMENT b EMPTY>
		<!ELEMENT c EMPTY>
	`)
	a := elementType(t, d, "a")
	if a.ContentType != ELEMENT {
		t.Fatalf("a.ContentType = %v, want ELEMENT", a.ContentType)
	}
	if a.Content.Kind != Sequence {
		t.Fatalf("a.Content.Kind = %v, want Sequence", a.Content.Kind)
	}
	refs := a.Content.References()
	if len(refs) != 2 || refs[0].Elem.Name.Local() != "b" || refs[1].Elem.Name.Local() != "c" {
		t.Fatalf("unexpected references: %+v", refs)
	}
	if _, ok := a.Children[refs[0].Elem.Name.Key]; !ok {
		t.Fatalf("a.Children missing b")
	}
	if _, ok := refs[0].Elem.Parents[a.Name.Key]; !ok {
		t.Fatalf("b.Parents missing a")
	}
}

func TestParameterEntityWithSpacing(t *testing.T) {
	d := mustParseExternal(t, `
		<!ENTITY % contents "b,c">
		<!ELEMENT a (%contents;)>
		<!ELEMENT b EMPTY>
		<!ELEMENT c EMPTY>
	`)
	a := elementType(t, d, "a")
	refs := a.Content.References()
	if len(refs) != 2 {
		t.Fatalf("got %d references, want 2", len(refs))
	}
	if refs[0].Elem.Name.Local() != "b" || refs[1].Elem.Name.Local() != "c" {
		t.Fatalf("unexpected reference order: %+v", refs)
	}
}

func TestConditionalInclude(t *testing.T) {
	d := mustParseExternal(t, `
		<![INCLUDE[
		<!ELEMENT a EMPTY>
		]]>
	`)
	elementType(t, d, "a")
}

func TestConditionalIgnore(t *testing.T) {
	d := mustParseExternal(t, `
		<![IGNORE[
		<!ELEMENT x EMPTY>
		]]>
		<!ELEMENT a EMPTY>
	`)
	elementType(t, d, "a")
	for _, et := range d.ElementTypes {
		if et.Name.Local() == "x" {
			t.Fatalf("element type x should not have been declared inside an IGNORE section")
		}
	}
}

func TestNestedConditionalIgnore(t *testing.T) {
	d := mustParseExternal(t, `
		<![IGNORE[
		<![INCLUDE[
		<!ELEMENT x EMPTY>
		]]>
		]]>
		<!ELEMENT a EMPTY>
	`)
	elementType(t, d, "a")
	for _, et := range d.ElementTypes {
		if et.Name.Local() == "x" {
			t.Fatalf("nested section inside an outer IGNORE must not be processed")
		}
	}
}

func TestDuplicateElementDeclarationIsFatal(t *testing.T) {
	_, err := ParseExternalSubset(Source{Reader: strings.NewReader(`
		<!ELEMENT a EMPTY>
		<!ELEMENT a EMPTY>
	`)})
	if err == nil {
		t.Fatal("expected an error for a duplicate element declaration")
	}
	if _, ok := err.(*SemanticError); !ok {
		t.Fatalf("got %T, want *SemanticError", err)
	}
}

func TestMixingSeparatorsIsFatal(t *testing.T) {
	_, err := ParseExternalSubset(Source{Reader: strings.NewReader(`
		<!ELEMENT a (b|c,d)>
		<!ELEMENT b EMPTY>
		<!ELEMENT c EMPTY>
		<!ELEMENT d EMPTY>
	`)})
	if err == nil {
		t.Fatal("expected a syntax error for mixed ',' and '|' separators")
	}
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("got %T, want *SyntaxError", err)
	}
}

func TestReferenceClosureFailsOnUndeclaredElement(t *testing.T) {
	_, err := ParseExternalSubset(Source{Reader: strings.NewReader(`
		<!ELEMENT a (b)>
	`)})
	if err == nil {
		t.Fatal("expected a semantic error for a never-declared element type")
	}
}

func TestMixedContentModel(t *testing.T) {
	d := mustParseExternal(t, `
		<!ELEMENT a (#PCDATA|b|c)*>
		<!ELEMENT b EMPTY>
		<!ELEMENT c EMPTY>
	`)
	a := elementType(t, d, "a")
	if a.ContentType != MIXED {
		t.Fatalf("a.ContentType = %v, want MIXED", a.ContentType)
	}
	if !a.Content.Repeatable() {
		t.Fatalf("mixed content group must be repeatable")
	}
}

func TestPCDATAOnlyContentModel(t *testing.T) {
	d := mustParseExternal(t, `<!ELEMENT a (#PCDATA)>`)
	a := elementType(t, d, "a")
	if a.ContentType != PCDATA {
		t.Fatalf("a.ContentType = %v, want PCDATA", a.ContentType)
	}
}

func TestAnyContentRelatesToEveryOtherType(t *testing.T) {
	d := mustParseExternal(t, `
		<!ELEMENT a ANY>
		<!ELEMENT b EMPTY>
		<!ELEMENT c (b)>
	`)
	a := elementType(t, d, "a")
	b := elementType(t, d, "b")
	c := elementType(t, d, "c")
	if _, ok := a.Children[b.Name.Key]; !ok {
		t.Fatal("ANY element must have every other type as a child")
	}
	if _, ok := a.Children[c.Name.Key]; !ok {
		t.Fatal("ANY element must have every other type as a child")
	}
	if _, ok := a.Parents[b.Name.Key]; !ok {
		t.Fatal("ANY element must have every other type as a parent")
	}
	if _, ok := b.Children[a.Name.Key]; !ok {
		t.Fatal("other types must have the ANY type as a child too")
	}
}

func TestAttlistFirstDeclarationWins(t *testing.T) {
	d := mustParseExternal(t, `
		<!ELEMENT a EMPTY>
		<!ATTLIST a x CDATA "first">
		<!ATTLIST a x CDATA "second">
	`)
	a := elementType(t, d, "a")
	attr := attrNamed(t, a, "x")
	if attr.DefaultValue != "first" {
		t.Fatalf("attr.DefaultValue = %q, want %q", attr.DefaultValue, "first")
	}
}

func TestEnumeratedAndNotationAttributes(t *testing.T) {
	d := mustParseExternal(t, `
		<!NOTATION jpeg SYSTEM "jpeg-viewer">
		<!ELEMENT a EMPTY>
		<!ATTLIST a kind (x|y|z) "x">
		<!ATTLIST a format NOTATION (jpeg) #REQUIRED>
	`)
	a := elementType(t, d, "a")
	kind := attrNamed(t, a, "kind")
	if kind.Type != ENUMERATED || len(kind.Enum) != 3 {
		t.Fatalf("kind = %+v", kind)
	}
	format := attrNamed(t, a, "format")
	if format.Type != AttrNotation || format.Presence != Required {
		t.Fatalf("format = %+v", format)
	}
}

func TestNotationReferenceClosure(t *testing.T) {
	_, err := ParseExternalSubset(Source{Reader: strings.NewReader(`
		<!ELEMENT a EMPTY>
		<!ATTLIST a format NOTATION (missing) #REQUIRED>
	`)})
	if err == nil {
		t.Fatal("expected a semantic error for an undeclared notation reference")
	}
}

func TestUnparsedEntityAndNotation(t *testing.T) {
	d := mustParseExternal(t, `
		<!NOTATION gif SYSTEM "gif-viewer">
		<!ENTITY logo SYSTEM "logo.gif" NDATA gif>
	`)
	ue, ok := d.UnparsedEntities["logo"]
	if !ok {
		t.Fatal("expected an unparsed entity named logo")
	}
	if ue.Notation != "gif" {
		t.Fatalf("ue.Notation = %q, want gif", ue.Notation)
	}
}

func TestPredefinedEntityInAttributeDefault(t *testing.T) {
	d := mustParseExternal(t, `
		<!ELEMENT a EMPTY>
		<!ATTLIST a x CDATA "1 &lt; 2">
	`)
	a := elementType(t, d, "a")
	attr := attrNamed(t, a, "x")
	if attr.DefaultValue != "1 < 2" {
		t.Fatalf("attr.DefaultValue = %q, want %q", attr.DefaultValue, "1 < 2")
	}
}

func TestCharacterReferenceInAttributeDefault(t *testing.T) {
	d := mustParseExternal(t, `
		<!ELEMENT a EMPTY>
		<!ATTLIST a x CDATA "&#65;&#x42;">
	`)
	a := elementType(t, d, "a")
	attr := attrNamed(t, a, "x")
	if attr.DefaultValue != "AB" {
		t.Fatalf("attr.DefaultValue = %q, want %q", attr.DefaultValue, "AB")
	}
}

func TestGeneralEntityDeclaredWithInternalValue(t *testing.T) {
	d := mustParseExternal(t, `
		<!ENTITY copyright "2026 Example Corp">
		<!ELEMENT a EMPTY>
		<!ATTLIST a rights CDATA "&copyright;">
	`)
	a := elementType(t, d, "a")
	attr := attrNamed(t, a, "rights")
	if attr.DefaultValue != "2026 Example Corp" {
		t.Fatalf("attr.DefaultValue = %q", attr.DefaultValue)
	}
}

func TestNamespaceDerivationFromXmlns(t *testing.T) {
	d := mustParseExternal(t, `
		<!ELEMENT a (b)>
		<!ELEMENT b EMPTY>
		<!ATTLIST a xmlns CDATA #FIXED "urn:example">
	`)
	a := elementType(t, d, "a")
	if uri, ok := a.Name.URI(); !ok || uri != "urn:example" {
		t.Fatalf("a.Name.URI() = %q, %v, want urn:example, true", uri, ok)
	}
	xmlnsAttr := attrNamed(t, a, "xmlns")
	if !xmlnsAttr.IsNamespaceDeclaration {
		t.Fatal("xmlns attribute must be flagged as a namespace declaration")
	}
}

func TestNamespacesDisabled(t *testing.T) {
	d := mustParseExternal(t, `
		<!ELEMENT a:b EMPTY>
	`, Namespaces(false))
	a := elementType(t, d, "a:b")
	if _, ok := a.Name.URI(); ok {
		t.Fatal("namespace resolution must be skipped when Namespaces(false) is set")
	}
}

func TestExplicitPrefixMap(t *testing.T) {
	d := mustParseExternal(t, `<!ELEMENT p:a EMPTY>`, PrefixMap(map[string]string{"p": "urn:p"}))
	a := elementType(t, d, "a")
	if uri, ok := a.Name.URI(); !ok || uri != "urn:p" {
		t.Fatalf("a.Name.URI() = %q, %v", uri, ok)
	}
	if prefix, _ := a.Name.Prefix(); prefix != "p" {
		t.Fatalf("a.Name.Prefix() = %q, want p", prefix)
	}
}

func TestUndeclaredPrefixIsFatal(t *testing.T) {
	_, err := ParseExternalSubset(Source{Reader: strings.NewReader(`<!ELEMENT p:a EMPTY>`)})
	if err == nil {
		t.Fatal("expected an error for an unresolvable namespace prefix")
	}
}

type stringResolver map[string]string

func (r stringResolver) Resolve(publicID, systemID string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(r[systemID])), nil
}

func TestExternalParameterEntity(t *testing.T) {
	resolver := stringResolver{"shared.dtd": `<!ELEMENT b EMPTY>`}
	d := mustParseExternal(t, `
		<!ENTITY % shared SYSTEM "shared.dtd">
		%shared;
		<!ELEMENT a (b)>
	`, EntityResolver(resolver))
	elementType(t, d, "b")
	elementType(t, d, "a")
}

func TestParseXMLDocumentWithInternalSubset(t *testing.T) {
	d, err := ParseXMLDocument(Source{Reader: strings.NewReader(`<?xml version="1.0"?>
<!DOCTYPE root [
<!ELEMENT root (child)>
<!ELEMENT child EMPTY>
]>
<root><child/></root>
`)})
	if err != nil {
		t.Fatal(err)
	}
	elementType(t, d, "root")
	elementType(t, d, "child")
}

func TestParseXMLDocumentWithNoDoctype(t *testing.T) {
	d, err := ParseXMLDocument(Source{Reader: strings.NewReader(`<?xml version="1.0"?><root/>`)})
	if err != nil {
		t.Fatal(err)
	}
	if len(d.ElementTypes) != 0 {
		t.Fatalf("expected no element types, got %d", len(d.ElementTypes))
	}
}

func TestDuplicateEnumerationValueIsFatal(t *testing.T) {
	_, err := ParseExternalSubset(Source{Reader: strings.NewReader(`
		<!ELEMENT a EMPTY>
		<!ATTLIST a k (x|x) "x">
	`)})
	if err == nil {
		t.Fatal("expected an error for a duplicate enumeration value")
	}
	if _, ok := err.(*SemanticError); !ok {
		t.Fatalf("got %T, want *SemanticError", err)
	}
}

func TestDuplicateNotationEnumerationValueIsFatal(t *testing.T) {
	_, err := ParseExternalSubset(Source{Reader: strings.NewReader(`
		<!NOTATION gif SYSTEM "gif">
		<!ELEMENT a EMPTY>
		<!ATTLIST a k NOTATION (gif|gif) "gif">
	`)})
	if err == nil {
		t.Fatal("expected an error for a duplicate NOTATION enumeration value")
	}
}

func TestDuplicateMixedContentReferenceIsFatal(t *testing.T) {
	_, err := ParseExternalSubset(Source{Reader: strings.NewReader(`
		<!ELEMENT a (#PCDATA|b|b)*>
		<!ELEMENT b EMPTY>
	`)})
	if err == nil {
		t.Fatal("expected an error for a duplicate element type in a mixed content model")
	}
	if _, ok := err.(*SemanticError); !ok {
		t.Fatalf("got %T, want *SemanticError", err)
	}
}

func TestDuplicateNotationDeclarationIsFatal(t *testing.T) {
	_, err := ParseExternalSubset(Source{Reader: strings.NewReader(`
		<!NOTATION gif SYSTEM "gif.exe">
		<!NOTATION gif SYSTEM "gif2.exe">
	`)})
	if err == nil {
		t.Fatal("expected an error for a duplicate notation declaration")
	}
	if _, ok := err.(*SemanticError); !ok {
		t.Fatalf("got %T, want *SemanticError", err)
	}
}

func TestNamespacePrefixConflictingURIsIsFatal(t *testing.T) {
	_, err := ParseExternalSubset(Source{Reader: strings.NewReader(`
		<!ELEMENT a EMPTY>
		<!ATTLIST a xmlns:p CDATA #FIXED "urn:one">
		<!ELEMENT b EMPTY>
		<!ATTLIST b xmlns:p CDATA #FIXED "urn:two">
	`)})
	if err == nil {
		t.Fatal("expected an error when one prefix is bound to two different URIs")
	}
}

func TestNamespaceURIConflictingPrefixesIsFatal(t *testing.T) {
	_, err := ParseExternalSubset(Source{Reader: strings.NewReader(`
		<!ELEMENT a EMPTY>
		<!ATTLIST a xmlns:p CDATA #FIXED "urn:shared">
		<!ELEMENT b EMPTY>
		<!ATTLIST b xmlns:q CDATA #FIXED "urn:shared">
	`)})
	if err == nil {
		t.Fatal("expected an error when one URI is bound to two different prefixes")
	}
}

func TestNamespaceEmptyURIIsFatal(t *testing.T) {
	_, err := ParseExternalSubset(Source{Reader: strings.NewReader(`
		<!ELEMENT a EMPTY>
		<!ATTLIST a xmlns CDATA #FIXED "">
	`)})
	if err == nil {
		t.Fatal("expected an error for an empty namespace URI")
	}
}

func TestLiteralLessThanInAttributeValueIsFatal(t *testing.T) {
	src := "<!ELEMENT a EMPTY>\n<!ATTLIST a x CDATA \"1 " + "<" + " 2\">"
	_, err := ParseExternalSubset(Source{Reader: strings.NewReader(src)})
	if err == nil {
		t.Fatal("expected an error for a literal '<' in an attribute default value")
	}
}

func attrNamed(t *testing.T, et *ElementType, name string) *Attribute {
	t.Helper()
	for _, attr := range et.Attributes {
		if attr.Name.Local() == name {
			return attr
		}
	}
	t.Fatalf("no attribute named %q on %q", name, et.Name.Local())
	return nil
}
