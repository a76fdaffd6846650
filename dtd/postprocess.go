package dtd

import (
	"strings"

	"aqwari.net/dtd/internal/ordered"
	"aqwari.net/dtd/qname"
)

// postProcess runs once the character stream has been fully consumed:
// relating ANY-typed element types to every other type, checking
// reference closure, checking notation references, resolving
// namespace-qualified names, and flagging namespace-declaration
// attributes.
func (p *Parser) postProcess() {
	p.relateAnyContentTypes()
	p.checkReferenceClosure()
	p.checkNotationReferences()
	if p.cfg.namespaces {
		p.resolveNamespaces()
	}
	p.flagNamespaceDeclarations()
}

// relateAnyContentTypes relates every ANY-typed element type to every
// other element type in the DTD, in both directions: an ANY element
// type may contain, and be contained by, anything.
func (p *Parser) relateAnyContentTypes() {
	var anyTypes []*ElementType
	for _, key := range ordered.Keys(p.dtd.ElementTypes) {
		et := p.dtd.ElementTypes[key]
		if et.ContentType == ANY {
			anyTypes = append(anyTypes, et)
		}
	}
	for _, et := range anyTypes {
		for _, key := range ordered.Keys(p.dtd.ElementTypes) {
			other := p.dtd.ElementTypes[key]
			if other == et {
				continue
			}
			et.addChild(other)
			other.addChild(et)
		}
	}
}

// checkReferenceClosure fails if any element type was referenced, as
// a content-particle or an ATTLIST target, but never declared with
// its own <!ELEMENT ...>.
func (p *Parser) checkReferenceClosure() {
	for _, key := range ordered.Keys(p.dtd.ElementTypes) {
		et := p.dtd.ElementTypes[key]
		if !et.declared {
			p.failPost("element type %q referenced but never declared", et.Name.Qualified())
		}
	}
}

// checkNotationReferences fails if a NOTATION attribute's enumerated
// values, or an unparsed entity's NDATA notation, name a notation
// that was never declared.
func (p *Parser) checkNotationReferences() {
	for _, key := range ordered.Keys(p.dtd.ElementTypes) {
		et := p.dtd.ElementTypes[key]
		for _, akey := range ordered.Keys(et.Attributes) {
			attr := et.Attributes[akey]
			if attr.Type != AttrNotation {
				continue
			}
			for _, name := range attr.Enum {
				if _, ok := p.dtd.Notations[name]; !ok {
					p.failPost("attribute %q of element type %q names undeclared notation %q",
						attr.Name.Qualified(), et.Name.Qualified(), name)
				}
			}
		}
	}
	ordered.RangeStrings(p.dtd.UnparsedEntities, func(name string, ue *UnparsedEntity) {
		if _, ok := p.dtd.Notations[ue.Notation]; !ok {
			p.failPost("unparsed entity %q names undeclared notation %q", name, ue.Notation)
		}
	})
}

// derivePrefixMap builds a prefix-to-URI table by scanning every
// ElementType's attribute defaults for xmlns and xmlns:prefix
// declarations, when the caller did not supply one with PrefixMap.
// An empty declared URI, a prefix bound to two different URIs, or a
// single URI bound to two different prefixes is a semantic error:
// the resulting map always satisfies "no two prefixes share a URI"
// and "no prefix has two URIs".
func (p *Parser) derivePrefixMap() map[string]string {
	if p.cfg.prefixMap != nil {
		return p.cfg.prefixMap
	}
	out := make(map[string]string)
	boundBy := make(map[string]string) // uri -> prefix that first claimed it
	derived := false
	for _, key := range ordered.Keys(p.dtd.ElementTypes) {
		et := p.dtd.ElementTypes[key]
		for _, akey := range ordered.Keys(et.Attributes) {
			attr := et.Attributes[akey]
			if attr.Presence != Fixed && attr.Presence != Default {
				continue
			}
			raw := attr.Name.Local()
			prefix, local, hasPrefix := splitQualified(raw)
			var bound string
			switch {
			case raw == "xmlns":
				bound = ""
			case hasPrefix && prefix == "xmlns":
				bound = local
			default:
				continue
			}
			uri := attr.DefaultValue
			if uri == "" {
				p.failPost("namespace declaration %q has an empty URI", raw)
			}
			if existing, ok := out[bound]; ok && existing != uri {
				p.failPost("namespace prefix %q is bound to two different URIs: %q and %q",
					prefixLabel(bound), existing, uri)
			}
			if other, ok := boundBy[uri]; ok && other != bound {
				p.failPost("namespace URI %q is bound to two different prefixes: %q and %q",
					uri, prefixLabel(other), prefixLabel(bound))
			}
			out[bound] = uri
			boundBy[uri] = bound
			derived = true
		}
	}
	if derived {
		p.cfg.logf("derived namespace prefix map from xmlns attribute defaults (%d binding(s))", len(out))
	}
	return out
}

func prefixLabel(prefix string) string {
	if prefix == "" {
		return "(default)"
	}
	return prefix
}

// resolveNamespaces rewrites every ElementType's and Attribute's Name
// from namespace-unaware to namespace-aware, using the derived or
// caller-supplied prefix map. An element or attribute name with a
// prefix that maps to no known URI is a semantic error.
func (p *Parser) resolveNamespaces() {
	prefixes := p.derivePrefixMap()

	for _, key := range ordered.Keys(p.dtd.ElementTypes) {
		et := p.dtd.ElementTypes[key]
		resolved, err := p.resolveOneName(et.Name.Local(), prefixes)
		if err != nil {
			p.failPost("element type %q: %v", et.Name.Local(), err)
		}
		oldKey := et.Name.Key
		et.Name = resolved
		if resolved.Key != oldKey {
			p.dtd.rekeyElementType(oldKey, et)
		}

		resolvedAttrs := make(map[qname.Key]*Attribute, len(et.Attributes))
		for _, akey := range ordered.Keys(et.Attributes) {
			attr := et.Attributes[akey]
			raw := attr.Name.Local()
			if raw == "xmlns" || strings.HasPrefix(raw, "xmlns:") {
				// Namespace-declaration attributes are never
				// themselves namespace-qualified.
				resolvedAttrs[attr.Name.Key] = attr
				continue
			}
			aresolved, err := p.resolveOneName(raw, prefixes)
			if err != nil {
				p.failPost("attribute %q of element type %q: %v", raw, et.Name.Qualified(), err)
			}
			attr.Name = aresolved
			resolvedAttrs[aresolved.Key] = attr
		}
		et.Attributes = resolvedAttrs
	}

	// Children and Parents were keyed by the unresolved names.
	for _, et := range p.dtd.ElementTypes {
		for _, rel := range []*map[qname.Key]*ElementType{&et.Children, &et.Parents} {
			rekeyed := make(map[qname.Key]*ElementType, len(*rel))
			for _, other := range *rel {
				rekeyed[other.Name.Key] = other
			}
			*rel = rekeyed
		}
	}
}

// resolveOneName splits raw on ':' and looks up the prefix (or the
// default "" prefix, for an unprefixed name) in prefixes. An
// unprefixed name with no default namespace binding resolves to a
// name in no namespace; a prefixed name whose prefix (other than
// "xml") has no binding is an error.
func (p *Parser) resolveOneName(raw string, prefixes map[string]string) (qname.Name, error) {
	prefix, local, hasPrefix := splitQualified(raw)
	if !hasPrefix {
		if uri, ok := prefixes[""]; ok && uri != "" {
			return qname.NewPrefixed(uri, "", raw)
		}
		return qname.NewPrefixed("", "", raw)
	}
	if prefix == "xml" {
		return qname.NewPrefixed("http://www.w3.org/XML/1998/namespace", "xml", local)
	}
	uri, ok := prefixes[prefix]
	if !ok {
		return qname.Name{}, errUndeclaredPrefix(prefix)
	}
	return qname.NewPrefixed(uri, prefix, local)
}

// flagNamespaceDeclarations marks every xmlns / xmlns:* attribute so
// that callers can recognize and skip namespace machinery when
// enumerating an element type's ordinary attributes.
func (p *Parser) flagNamespaceDeclarations() {
	for _, key := range ordered.Keys(p.dtd.ElementTypes) {
		et := p.dtd.ElementTypes[key]
		for _, akey := range ordered.Keys(et.Attributes) {
			attr := et.Attributes[akey]
			raw := attr.Name.Local()
			if raw == "xmlns" || strings.HasPrefix(raw, "xmlns:") {
				attr.IsNamespaceDeclaration = true
			}
		}
	}
}

func splitQualified(raw string) (prefix, local string, hasPrefix bool) {
	i := strings.IndexByte(raw, ':')
	if i < 0 {
		return "", raw, false
	}
	return raw[:i], raw[i+1:], true
}

type errUndeclaredPrefix string

func (e errUndeclaredPrefix) Error() string {
	return "namespace prefix " + string(e) + " has no known URI binding"
}
