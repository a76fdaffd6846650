// Package qname implements canonicalized XML names: a local name paired
// with an optional namespace URI and an optional prefix, along with the
// qualified (prefix:local) and universal (uri^local) string forms used
// to print and hash them.
//
// A Name may be constructed in namespace-aware or namespace-unaware
// mode. Namespace-unaware names are produced by a scanner that has not
// yet resolved prefixes against a namespace declaration; their Local
// field may itself contain ':' or '^' verbatim, copied from the source
// text. Namespace-aware names never do.
package qname

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// A Key is the identity of a Name: two Names are equal, and hash
// the same, iff their Keys are equal. Key deliberately excludes the
// prefix, so that a name can be looked up or compared regardless of
// which prefix (if any) was used to write it.
type Key struct {
	URI   string
	Local string
}

// A Name is a canonicalized XML name, as described in package qname's
// doc comment.
type Name struct {
	Key
	prefix  string
	nsAware bool
}

// New returns a namespace-aware Name with no prefix. uri may be empty,
// meaning the name is not in any namespace.
func New(uri, local string) Name {
	return Name{Key: Key{URI: uri, Local: local}, nsAware: true}
}

// NewPrefixed returns a namespace-aware Name with the given prefix.
// It is an error for local to contain ':' or '^', per the
// namespace-aware invariant.
func NewPrefixed(uri, prefix, local string) (Name, error) {
	if strings.ContainsAny(local, ":^") {
		return Name{}, fmt.Errorf("qname: invalid local name %q in namespace-aware mode", local)
	}
	return Name{Key: Key{URI: uri, Local: local}, prefix: prefix, nsAware: true}, nil
}

// NewUnaware returns a namespace-unaware Name. local is stored as-is,
// with no namespace URI and no prefix; it may contain ':' or '^',
// as scanned directly from DTD markup before any namespace
// resolution has taken place.
func NewUnaware(local string) Name {
	return Name{Key: Key{Local: local}}
}

// Local returns the local part of the name.
func (n Name) Local() string { return n.Key.Local }

// URI returns the namespace URI of the name, and whether one is set.
func (n Name) URI() (string, bool) { return n.Key.URI, n.Key.URI != "" }

// Prefix returns the prefix of the name, and whether one is set.
func (n Name) Prefix() (string, bool) { return n.prefix, n.prefix != "" }

// NamespaceAware reports whether the Name was constructed in
// namespace-aware mode.
func (n Name) NamespaceAware() bool { return n.nsAware }

// Qualified returns the "prefix:local" form of the name, or just
// "local" if no prefix is set.
func (n Name) Qualified() string {
	if n.prefix == "" {
		return n.Key.Local
	}
	return n.prefix + ":" + n.Key.Local
}

// Universal returns the "uri^local" form of the name, or just "local"
// if no URI is set. Universal is the basis for Name's Hash, and for
// equality between two Names that were given different prefixes.
func (n Name) Universal() string {
	if n.Key.URI == "" {
		return n.Key.Local
	}
	return n.Key.URI + "^" + n.Key.Local
}

// Equal reports whether n and other name the same (URI, Local) pair,
// regardless of prefix.
func (n Name) Equal(other Name) bool {
	return n.Key == other.Key
}

// Hash returns a hash of n's Universal form. Two Names with equal
// (URI, Local) pairs, and thus equal Universal forms, always hash to
// the same value, regardless of prefix.
func (n Name) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(n.Universal()))
	return h.Sum64()
}

// String returns the qualified form of the name, for use in
// diagnostics.
func (n Name) String() string {
	return n.Qualified()
}
