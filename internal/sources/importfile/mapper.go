package importfile

import (
	"github.com/nsommier/hoard/internal/bookmarks"
	"github.com/nsommier/hoard/internal/domain"
)

// Mapper converts import entries to acquisition requests.
type Mapper struct{}

// NewMapper creates a new mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map converts the file's entries, skipping ones without a URL.
func (m *Mapper) Map(f *File, autoEnrich bool) []bookmarks.AcquireOptions {
	out := make([]bookmarks.AcquireOptions, 0, len(f.Bookmarks))

	for _, e := range f.Bookmarks {
		if e.URL == "" {
			continue
		}
		out = append(out, bookmarks.AcquireOptions{
			URL:         e.URL,
			UserID:      e.User,
			Title:       e.Title,
			Description: e.Description,
			Tags:        e.Tags,
			Source:      domain.SourceImport,
			AutoEnrich:  autoEnrich,
		})
	}
	return out
}
