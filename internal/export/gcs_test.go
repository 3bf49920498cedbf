package export

import (
	"context"
	"testing"
)

func TestFetchStatement_InvalidURI(t *testing.T) {
	// All of these fail the URI checks before any client is created.
	uris := []string{
		"",
		"http://bucket/statements/jan.csv",
		"bucket/statements/jan.csv",
		"gs://bucket-without-object",
	}
	for _, uri := range uris {
		if _, err := FetchStatement(context.Background(), uri); err == nil {
			t.Errorf("FetchStatement(%q): expected error", uri)
		}
	}
}
