package dtd

import "io"

// A Source identifies the character stream to be parsed, along with
// the identifiers used to resolve any relative system identifiers it
// contains.
type Source struct {
	// Reader supplies the raw bytes of the document or external
	// subset. It is read as UTF-8; an encoding named in its own XML
	// or text declaration is not applied (declared encodings are
	// applied only to external resources fetched through a Resolver).
	Reader io.Reader
	// SystemID is the system identifier of Reader's content. It is
	// recorded on the character stack's bottom frame; SYSTEM
	// identifiers found while parsing are passed to the Resolver
	// unchanged, not resolved against it, and error messages do not
	// include it.
	SystemID string
	// PublicID is the public identifier of Reader's content, if any.
	PublicID string
}
