package dtd

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// A Resolver maps a (publicID, systemID) pair, as found in an
// ExternalID, to a readable stream. It is the sole mechanism by which
// external subsets and external entities are fetched; the parser
// never opens a file or URL directly except through a Resolver.
//
// Resolve should return an error, not a nil ReadCloser, when neither
// identifier can be resolved to a stream.
type Resolver interface {
	Resolve(publicID, systemID string) (io.ReadCloser, error)
}

// DefaultResolver resolves a systemID that is a file path by opening
// it, or an http(s) URL by fetching it. Responses fetched over HTTP
// are transcoded to UTF-8 according to the response's Content-Type
// charset parameter, using golang.org/x/net/html/charset; files opened
// from disk are returned as raw bytes, since no transport-level
// charset hint is available for them (the XML or text declaration at
// the start of the resource, if present, is applied separately - see
// decodeWithEncoding).
type DefaultResolver struct {
	// Client is used for http(s) systemIDs. If nil, http.DefaultClient
	// is used.
	Client *http.Client
}

func (d DefaultResolver) Resolve(publicID, systemID string) (io.ReadCloser, error) {
	if systemID == "" {
		return nil, fmt.Errorf("dtd: cannot resolve entity with no system identifier (public id %q)", publicID)
	}
	if u, err := url.Parse(systemID); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return d.resolveHTTP(u.String())
	}
	f, err := os.Open(systemID)
	if err != nil {
		return nil, fmt.Errorf("dtd: opening %q: %w", systemID, err)
	}
	return f, nil
}

func (d DefaultResolver) resolveHTTP(url string) (io.ReadCloser, error) {
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("dtd: fetching %q: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("dtd: fetching %q: HTTP status %s", url, resp.Status)
	}
	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("dtd: decoding %q: %w", url, err)
	}
	if r == resp.Body {
		return resp.Body, nil
	}
	return struct {
		io.Reader
		io.Closer
	}{r, resp.Body}, nil
}

// decodeWithEncoding re-wraps r so that it yields UTF-8, given the
// encoding name declared in an XML or text declaration
// (<?xml ... encoding="..."?>). An empty or "UTF-8"/"utf-8" name is a
// no-op, since the character stream already expects UTF-8.
func decodeWithEncoding(r io.Reader, encodingName string) (io.Reader, error) {
	switch encodingName {
	case "", "UTF-8", "utf-8", "Utf-8":
		return r, nil
	}
	enc, _, ok := charset.Lookup(encodingName)
	if !ok || enc == nil {
		return nil, fmt.Errorf("dtd: unknown encoding %q", encodingName)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
