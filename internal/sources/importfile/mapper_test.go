package importfile

import (
	"testing"

	"github.com/nsommier/hoard/internal/domain"
)

func TestMap(t *testing.T) {
	f := &File{Bookmarks: []Entry{
		{URL: "https://example.com/a", Title: "A", Tags: []string{"go"}, User: "alice"},
		{Title: "no url, skipped"},
		{URL: "https://example.com/b"},
	}}

	opts := NewMapper().Map(f, true)
	if len(opts) != 2 {
		t.Fatalf("len = %d, want 2 (url-less entry skipped)", len(opts))
	}

	first := opts[0]
	if first.URL != "https://example.com/a" || first.UserID != "alice" {
		t.Errorf("mapped = %+v", first)
	}
	if first.Source != domain.SourceImport {
		t.Errorf("Source = %q, want import", first.Source)
	}
	if !first.AutoEnrich {
		t.Errorf("AutoEnrich not propagated")
	}
	if opts[1].AutoEnrich != true {
		t.Errorf("AutoEnrich not propagated to all entries")
	}
}

func TestMapWithoutEnrichment(t *testing.T) {
	f := &File{Bookmarks: []Entry{{URL: "https://example.com/a"}}}
	opts := NewMapper().Map(f, false)
	if opts[0].AutoEnrich {
		t.Errorf("AutoEnrich must be off")
	}
}
