package dtd

import (
	"io"
	"testing"

	"aqwari.net/dtd/internal/testutil"
)

func TestDefaultResolverFetchesHTTP(t *testing.T) {
	const url = "http://dtd.example.com/shared.dtd"
	client := testutil.FakeClient(url, []byte("<!ELEMENT b EMPTY>"))
	resolver := DefaultResolver{Client: &client}

	rc, err := resolver.Resolve("", url)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "<!ELEMENT b EMPTY>" {
		t.Fatalf("Resolve content = %q", got)
	}
}

func TestDefaultResolverHTTPNotFound(t *testing.T) {
	client := testutil.FakeClient("http://dtd.example.com/shared.dtd", nil)
	resolver := DefaultResolver{Client: &client}

	if _, err := resolver.Resolve("", "http://dtd.example.com/missing.dtd"); err == nil {
		t.Fatal("expected an error for a 404 response")
	}
}

func TestDefaultResolverRequiresSystemID(t *testing.T) {
	resolver := DefaultResolver{}
	if _, err := resolver.Resolve("-//Example//DTD//EN", ""); err == nil {
		t.Fatal("expected an error when no system identifier is given")
	}
}
