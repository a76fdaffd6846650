// Command dtddump parses a DTD, either a standalone external subset
// or the DOCTYPE declaration of an XML document, and prints its
// element types, attributes, entities, and notations.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"aqwari.net/dtd/dtd"
	"aqwari.net/dtd/internal/commandline"
	"aqwari.net/dtd/internal/dependency"
	"aqwari.net/dtd/internal/ordered"
	"aqwari.net/dtd/qname"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("dtddump: ")

	var (
		external   = flag.Bool("external", false, "parse the input as a standalone external subset, not a full XML document")
		namespaces = flag.Bool("namespaces", true, "resolve element and attribute names against xmlns declarations")
		order      = flag.String("order", "name", "element type print order: name or deps")
		verbosity  = flag.Int("v", 0, "diagnostic log verbosity")
		prefixes   commandline.PrefixFlag
	)
	flag.Var(&prefixes, "prefix", "namespace prefix binding name=uri (may be repeated)")
	flag.Parse()

	opts := []dtd.Option{
		dtd.Namespaces(*namespaces),
		dtd.LogOutput(log.New(os.Stderr, "", 0)),
		dtd.LogLevel(*verbosity),
	}
	if len(prefixes) > 0 {
		opts = append(opts, dtd.PrefixMap(prefixes))
	}

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, name := range args {
		if err := dump(name, *external, *order, opts); err != nil {
			log.Fatal(err)
		}
	}
}

func dump(name string, external bool, order string, opts []dtd.Option) error {
	f := os.Stdin
	systemID := ""
	if name != "-" {
		var err error
		f, err = os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		systemID = name
	}

	src := dtd.Source{Reader: f, SystemID: systemID}
	var (
		d   *dtd.DTD
		err error
	)
	if external {
		d, err = dtd.ParseExternalSubset(src, opts...)
	} else {
		d, err = dtd.ParseXMLDocument(src, opts...)
	}
	if err != nil {
		return err
	}
	printDTD(d, order)
	return nil
}

func printDTD(d *dtd.DTD, order string) {
	switch order {
	case "deps":
		printElementTypesByDeps(d)
	default:
		printElementTypesByName(d)
	}

	ordered.RangeStrings(d.ParameterEntities, func(name string, pe *dtd.ParameterEntity) {
		fmt.Printf("<!ENTITY %% %s %s>\n", name, entitySource(pe.Value, pe.External, pe.SystemID, pe.PublicID))
	})
	ordered.RangeStrings(d.ParsedGeneralEntities, func(name string, ge *dtd.ParsedGeneralEntity) {
		fmt.Printf("<!ENTITY %s %s>\n", name, entitySource(ge.Value, ge.External, ge.SystemID, ge.PublicID))
	})
	ordered.RangeStrings(d.UnparsedEntities, func(name string, ue *dtd.UnparsedEntity) {
		fmt.Printf("<!ENTITY %s %s NDATA %s>\n", name, entitySource("", true, ue.SystemID, ue.PublicID), ue.Notation)
	})
	ordered.RangeStrings(d.Notations, func(name string, n *dtd.Notation) {
		fmt.Printf("<!NOTATION %s %s>\n", name, entitySource("", true, n.SystemID, n.PublicID))
	})
}

func entitySource(value string, external bool, systemID, publicID string) string {
	if !external {
		return fmt.Sprintf("%q", value)
	}
	if publicID != "" {
		return fmt.Sprintf("PUBLIC %q %q", publicID, systemID)
	}
	return fmt.Sprintf("SYSTEM %q", systemID)
}

func printElementTypesByName(d *dtd.DTD) {
	for _, key := range ordered.Keys(d.ElementTypes) {
		printElementType(d.ElementTypes[key])
	}
}

func printElementTypesByDeps(d *dtd.DTD) {
	var g dependency.Graph[qname.Key]
	for _, key := range ordered.Keys(d.ElementTypes) {
		et := d.ElementTypes[key]
		if et.Content == nil {
			g.Add(key, key)
			continue
		}
		for _, ref := range et.Content.References() {
			g.Add(key, ref.Elem.Name.Key)
		}
	}
	g.Flatten(func(key qname.Key) {
		printElementType(d.ElementTypes[key])
	})
}

func printElementType(et *dtd.ElementType) {
	fmt.Printf("<!ELEMENT %s %s>\n", et.Name.Qualified(), contentSpecString(et))
	for _, akey := range ordered.Keys(et.Attributes) {
		attr := et.Attributes[akey]
		fmt.Printf("<!ATTLIST %s %s %s %s>\n", et.Name.Qualified(), attr.Name.Qualified(),
			attrTypeString(attr), presenceString(attr))
	}
}

func contentSpecString(et *dtd.ElementType) string {
	switch et.ContentType {
	case dtd.EMPTY, dtd.ANY:
		return et.ContentType.String()
	case dtd.PCDATA:
		return "(#PCDATA)"
	case dtd.MIXED:
		return "(#PCDATA|" + strings.Join(referenceNames(et.Content), "|") + ")*"
	default:
		return groupString(et.Content)
	}
}

func referenceNames(g *dtd.Group) []string {
	var out []string
	for _, ref := range g.References() {
		out = append(out, ref.Elem.Name.Qualified())
	}
	return out
}

func groupString(g *dtd.Group) string {
	sep := ","
	if g.Kind == dtd.Choice {
		sep = "|"
	}
	var parts []string
	for _, m := range g.Members {
		switch v := m.(type) {
		case *dtd.Reference:
			parts = append(parts, v.Elem.Name.Qualified()+freqSuffix(v))
		case *dtd.Group:
			parts = append(parts, groupString(v)+freqSuffix(v))
		}
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func freqSuffix(p dtd.Particle) string {
	switch {
	case p.Required() && p.Repeatable():
		return "+"
	case !p.Required() && p.Repeatable():
		return "*"
	case !p.Required() && !p.Repeatable():
		return "?"
	default:
		return ""
	}
}

func attrTypeString(attr *dtd.Attribute) string {
	switch attr.Type {
	case dtd.ENUMERATED:
		return "(" + strings.Join(attr.Enum, "|") + ")"
	case dtd.AttrNotation:
		return "NOTATION (" + strings.Join(attr.Enum, "|") + ")"
	default:
		return attr.Type.String()
	}
}

func presenceString(attr *dtd.Attribute) string {
	switch attr.Presence {
	case dtd.Required:
		return "#REQUIRED"
	case dtd.Optional:
		return "#IMPLIED"
	case dtd.Fixed:
		return fmt.Sprintf("#FIXED %q", attr.DefaultValue)
	default:
		return fmt.Sprintf("%q", attr.DefaultValue)
	}
}
