// Package dtd parses a standalone external DTD subset, or the DOCTYPE
// declaration embedded at the start of an XML document, into a
// read-only in-memory model: element types with their attributes,
// content models, notations, and entity tables.
//
// The parser is a hand-rolled, character-level scanner (see
// charstream.Stack and the Parser type) rather than a
// layer on top of encoding/xml, because a DTD's entity and
// parameter-entity syntax is not well-formed XML and cannot be
// tokenized by a generic XML decoder.
//
// dtd does not validate XML instance documents against the parsed
// DTD, does not serialize a DTD back to text, and does not normalize
// attribute values per XML §3.3.3; see SPEC_FULL.md for the complete
// list of non-goals.
package dtd

import "aqwari.net/dtd/qname"

// A DTD is the root container for a parsed DTD. All of its fields are
// populated during parsing and are not modified after
// ParseXMLDocument or ParseExternalSubset returns.
type DTD struct {
	// ElementTypes maps every declared (or referenced) element
	// type's name to its ElementType.
	ElementTypes map[qname.Key]*ElementType
	// Notations maps notation name to Notation. Notation names are
	// flat strings; they do not participate in namespaces.
	Notations map[string]*Notation
	// ParameterEntities maps parameter entity name to
	// ParameterEntity. Parameter entities have their own namespace,
	// disjoint from general and unparsed entities.
	ParameterEntities map[string]*ParameterEntity
	// ParsedGeneralEntities maps parsed general entity name to
	// ParsedGeneralEntity.
	ParsedGeneralEntities map[string]*ParsedGeneralEntity
	// UnparsedEntities maps unparsed entity name to UnparsedEntity.
	// A name declared as either a parsed general or an unparsed
	// entity precludes the other (they share one namespace).
	UnparsedEntities map[string]*UnparsedEntity
}

func newDTD() *DTD {
	return &DTD{
		ElementTypes:          make(map[qname.Key]*ElementType),
		Notations:             make(map[string]*Notation),
		ParameterEntities:     make(map[string]*ParameterEntity),
		ParsedGeneralEntities: make(map[string]*ParsedGeneralEntity),
		UnparsedEntities:      make(map[string]*UnparsedEntity),
	}
}

// elementType looks up or creates a placeholder ElementType for name.
// Placeholders are created when an element type is referenced (as a
// content-model particle, or as an ATTLIST target) before its own
// <!ELEMENT ...> declaration is seen; reference closure is checked in
// post-processing.
func (d *DTD) elementType(name qname.Name) *ElementType {
	if et, ok := d.ElementTypes[name.Key]; ok {
		return et
	}
	et := &ElementType{
		Name:       name,
		Attributes: make(map[qname.Key]*Attribute),
		Children:   make(map[qname.Key]*ElementType),
		Parents:    make(map[qname.Key]*ElementType),
	}
	d.ElementTypes[name.Key] = et
	return et
}

// rekeyElementType moves et from its current map entry to a new Name's Key, used
// by post-processing when a namespace-unaware name is resolved to its
// namespace-aware form.
func (d *DTD) rekeyElementType(oldKey qname.Key, et *ElementType) {
	delete(d.ElementTypes, oldKey)
	d.ElementTypes[et.Name.Key] = et
}

// ContentType classifies an ElementType's content model.
type ContentType int

const (
	// EMPTY elements contain nothing.
	EMPTY ContentType = iota
	// ANY elements may contain any declared element type or text,
	// in any order.
	ANY
	// PCDATA elements contain only character data:
	// <!ELEMENT x (#PCDATA)>.
	PCDATA
	// MIXED elements contain character data interspersed with a
	// fixed set of element types: <!ELEMENT x (#PCDATA|a|b)*>.
	MIXED
	// ELEMENT content models contain only child elements, no
	// character data, per an explicit content-particle group.
	ELEMENT
)

func (c ContentType) String() string {
	switch c {
	case EMPTY:
		return "EMPTY"
	case ANY:
		return "ANY"
	case PCDATA:
		return "PCDATA"
	case MIXED:
		return "MIXED"
	case ELEMENT:
		return "ELEMENT"
	default:
		return "ContentType(?)"
	}
}

// An ElementType is the declaration of one element name: its content
// model, its attributes, and its relationship to every other element
// type that may appear as a direct child or parent.
type ElementType struct {
	Name        qname.Name
	ContentType ContentType
	// Content is the root particle group for MIXED and ELEMENT
	// content types. It is nil for EMPTY, ANY, and PCDATA.
	Content *Group
	// Attributes maps attribute name to Attribute, for every
	// <!ATTLIST> declaration naming this element type.
	Attributes map[qname.Key]*Attribute
	// Children maps the name of every element type that may appear
	// as a direct child of this one, to that ElementType. An
	// ANY-typed ElementType is related to every other ElementType
	// in the DTD, in both directions.
	Children map[qname.Key]*ElementType
	// Parents maps the name of every element type that may contain
	// this one as a direct child, to that ElementType. It is the
	// reverse index of Children.
	Parents map[qname.Key]*ElementType

	// declared is true once this ElementType's own <!ELEMENT ...>
	// declaration has been processed. An ElementType that is
	// referenced but never declared fails reference-closure
	// checking in post-processing.
	declared bool
}

func (et *ElementType) addChild(child *ElementType) {
	et.Children[child.Name.Key] = child
	child.Parents[et.Name.Key] = et
}

// AttributeType classifies the value space of an Attribute.
type AttributeType int

const (
	CDATA AttributeType = iota
	ID
	IDREF
	IDREFS
	AttrEntity
	AttrEntities
	NMTOKEN
	NMTOKENS
	ENUMERATED
	AttrNotation
)

func (t AttributeType) String() string {
	switch t {
	case CDATA:
		return "CDATA"
	case ID:
		return "ID"
	case IDREF:
		return "IDREF"
	case IDREFS:
		return "IDREFS"
	case AttrEntity:
		return "ENTITY"
	case AttrEntities:
		return "ENTITIES"
	case NMTOKEN:
		return "NMTOKEN"
	case NMTOKENS:
		return "NMTOKENS"
	case ENUMERATED:
		return "ENUMERATED"
	case AttrNotation:
		return "NOTATION"
	default:
		return "AttributeType(?)"
	}
}

// Presence classifies an Attribute's default-value declaration.
type Presence int

const (
	// Required means the attribute must be specified: #REQUIRED.
	Required Presence = iota
	// Optional means the attribute may be omitted, with no default
	// value: #IMPLIED.
	Optional
	// Fixed means the attribute has a mandatory default value that
	// an instance document may not override: #FIXED "value".
	Fixed
	// Default means the attribute has an ordinary default value:
	// a bare "value".
	Default
)

func (p Presence) String() string {
	switch p {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Fixed:
		return "FIXED"
	case Default:
		return "DEFAULT"
	default:
		return "Presence(?)"
	}
}

// An Attribute is one <!ATTLIST> attribute definition.
type Attribute struct {
	Name     qname.Name
	Type     AttributeType
	Presence Presence
	// DefaultValue holds the literal default text when Presence is
	// Fixed or Default. It is not normalized per XML §3.3.3.
	DefaultValue string
	// Enum holds the ordered, duplicate-free set of enumerated
	// tokens for ENUMERATED and NOTATION attributes.
	Enum []string
	// IsNamespaceDeclaration is set during post-processing for
	// attributes whose qualified name is "xmlns" or has the prefix
	// "xmlns".
	IsNamespaceDeclaration bool
}

// GroupKind distinguishes a choice group from a sequence group.
type GroupKind int

const (
	Sequence GroupKind = iota
	Choice
)

func (k GroupKind) String() string {
	if k == Choice {
		return "Choice"
	}
	return "Sequence"
}

// A Particle is one member of a content-model group: either a
// Reference to an element type, or a nested Group.
type Particle interface {
	// Required reports whether the particle must appear at least
	// once (no modifier, or '+').
	Required() bool
	// Repeatable reports whether the particle may appear more than
	// once ('+' or '*').
	Repeatable() bool
	particle()
}

type freq struct {
	required   bool
	repeatable bool
}

func (f freq) Required() bool   { return f.required }
func (f freq) Repeatable() bool { return f.repeatable }
func (freq) particle()          {}

// freqFromModifier translates a frequency modifier rune (0 for none)
// into the (required, repeatable) pair from spec.md §3.
func freqFromModifier(mod rune) freq {
	switch mod {
	case '?':
		return freq{required: false, repeatable: false}
	case '+':
		return freq{required: true, repeatable: true}
	case '*':
		return freq{required: false, repeatable: true}
	default:
		return freq{required: true, repeatable: false}
	}
}

// A Reference is a content-particle naming a single element type.
type Reference struct {
	freq
	Elem *ElementType
}

// A Group is a parenthesized content-particle list, combined with a
// single separator (Choice or Sequence). In element content, a Group
// with exactly one member is canonicalized to Sequence; the group of
// a MIXED content model is always Choice, whatever its member count.
type Group struct {
	freq
	Kind    GroupKind
	Members []Particle
}

// References returns every Reference reachable in the group's
// particle tree, in source order, flattening nested groups. This is
// the traversal spec.md §8 calls the particle tree's "round trip".
func (g *Group) References() []*Reference {
	var out []*Reference
	for _, m := range g.Members {
		switch p := m.(type) {
		case *Reference:
			out = append(out, p)
		case *Group:
			out = append(out, p.References()...)
		}
	}
	return out
}

// An Entity is the shared base data of parameter, parsed-general and
// unparsed entities: a name and an optional external identifier.
type Entity struct {
	Name     string
	SystemID string
	PublicID string
	External bool
}

// A ParameterEntity is declared with <!ENTITY % name ...>. Its Value
// is set only when it was declared with an internal (quoted) value;
// otherwise it is External and SystemID/PublicID are set.
type ParameterEntity struct {
	Entity
	Value string
}

// A ParsedGeneralEntity is declared with <!ENTITY name ...>, without
// NDATA. Its Value is set only when it was declared with an internal
// (quoted) value.
type ParsedGeneralEntity struct {
	Entity
	Value string
}

// An UnparsedEntity is declared with <!ENTITY name ExternalID NDATA
// notation>. It always has an external identifier.
type UnparsedEntity struct {
	Entity
	Notation string
}

// A Notation is declared with <!NOTATION name ...>.
type Notation struct {
	Name     string
	SystemID string
	PublicID string
}
