package bookmarks

import (
	"context"
	"errors"
	"fmt"

	"github.com/nsommier/hoard/internal/catalog"
	"github.com/nsommier/hoard/internal/domain"
)

// Resolution is the outcome of duplicate detection for a URL.
type Resolution struct {
	// NormalizedURL is the canonical form used for all comparisons.
	NormalizedURL string

	// ExistingID is the id of a bookmark already saved under this URL,
	// empty when none exists.
	ExistingID string

	// ExistingBelongsToCaller is true when the match is owned by the caller.
	// A cross-user match is informational only and never merged.
	ExistingBelongsToCaller bool
}

// Resolve normalizes the URL and checks the catalog for an equivalent
// bookmark, preferring one owned by userID.
func (s *Service) Resolve(ctx context.Context, rawURL, userID string) (*Resolution, error) {
	res := &Resolution{
		NormalizedURL: domain.NormalizeURL(rawURL, s.normOpts),
	}

	owned, err := s.store.FindBookmarkByURL(ctx, userID, res.NormalizedURL)
	switch {
	case err == nil:
		res.ExistingID = owned.ID
		res.ExistingBelongsToCaller = true
		return res, nil
	case !errors.Is(err, catalog.ErrNotFound):
		return nil, fmt.Errorf("duplicate lookup failed: %w", err)
	}

	other, err := s.store.FindAnyBookmarkByURL(ctx, res.NormalizedURL, userID)
	switch {
	case err == nil:
		res.ExistingID = other.ID
	case !errors.Is(err, catalog.ErrNotFound):
		return nil, fmt.Errorf("cross-user lookup failed: %w", err)
	}
	return res, nil
}
