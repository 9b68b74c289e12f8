package memory

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/nsommier/hoard/internal/catalog"
	"github.com/nsommier/hoard/internal/domain"
)

func TestBookmarkRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	b := &domain.Bookmark{ID: "b1", URL: "https://example.com/a", UserID: "u1", Title: "A"}
	if err := s.SaveBookmark(ctx, b); err != nil {
		t.Fatalf("SaveBookmark: %v", err)
	}

	got, err := s.GetBookmark(ctx, "b1")
	if err != nil {
		t.Fatalf("GetBookmark: %v", err)
	}
	if got.Title != "A" {
		t.Errorf("Title = %q, want %q", got.Title, "A")
	}

	// mutating the returned copy must not leak into the store
	got.Title = "mutated"
	again, _ := s.GetBookmark(ctx, "b1")
	if again.Title != "A" {
		t.Errorf("store leaked a mutable reference")
	}

	if _, err := s.GetBookmark(ctx, "nope"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetBookmark(missing) = %v, want ErrNotFound", err)
	}
}

func TestURLIndexPerUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i, user := range []string{"u1", "u2", ""} {
		b := &domain.Bookmark{ID: fmt.Sprintf("b%d", i), URL: "https://example.com/shared", UserID: user}
		if err := s.SaveBookmark(ctx, b); err != nil {
			t.Fatalf("SaveBookmark: %v", err)
		}
	}

	got, err := s.FindBookmarkByURL(ctx, "u1", "https://example.com/shared")
	if err != nil {
		t.Fatalf("FindBookmarkByURL: %v", err)
	}
	if got.ID != "b0" {
		t.Errorf("FindBookmarkByURL = %s, want b0", got.ID)
	}

	other, err := s.FindAnyBookmarkByURL(ctx, "https://example.com/shared", "u1")
	if err != nil {
		t.Fatalf("FindAnyBookmarkByURL: %v", err)
	}
	if other.ID == "b0" {
		t.Errorf("FindAnyBookmarkByURL must exclude the caller's bookmark")
	}

	if _, err := s.FindBookmarkByURL(ctx, "u3", "https://example.com/shared"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("unknown user lookup = %v, want ErrNotFound", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	s := New()
	ctx := context.Background()

	b := &domain.Bookmark{ID: "b1", URL: "https://example.com/a", UserID: "u1"}
	if err := s.SaveBookmark(ctx, b); err != nil {
		t.Fatalf("SaveBookmark: %v", err)
	}
	if err := s.SaveNote(ctx, &domain.Note{ID: "n1", BookmarkID: "b1", Body: "note"}); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}
	if err := s.UpsertInsight(ctx, &domain.Insight{BookmarkID: "b1", Summary: "s"}); err != nil {
		t.Fatalf("UpsertInsight: %v", err)
	}

	if err := s.DeleteBookmark(ctx, "b1"); err != nil {
		t.Fatalf("DeleteBookmark: %v", err)
	}
	if _, err := s.GetInsight(ctx, "b1"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("insight survived delete")
	}
	if _, err := s.FindBookmarkByURL(ctx, "u1", "https://example.com/a"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("url index entry survived delete")
	}
	if err := s.DeleteBookmark(ctx, "b1"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestGetOrCreateTagIsCaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.GetOrCreateTag(ctx, "Go", domain.TagUser)
	if err != nil {
		t.Fatalf("GetOrCreateTag: %v", err)
	}
	b, err := s.GetOrCreateTag(ctx, "  go ", domain.TagSystem)
	if err != nil {
		t.Fatalf("GetOrCreateTag: %v", err)
	}
	if a.ID != b.ID {
		t.Errorf("same tag name created two rows: %s vs %s", a.ID, b.ID)
	}
	if b.Type != domain.TagUser {
		t.Errorf("existing tag type changed on re-get")
	}
}

// The tag count must always equal the number of live bookmark associations,
// under any interleaving of attaches, repeats and detaches.
func TestTagCountMatchesAssociations(t *testing.T) {
	s := New()
	ctx := context.Background()

	tag, err := s.GetOrCreateTag(ctx, "invariant", domain.TagUser)
	if err != nil {
		t.Fatalf("GetOrCreateTag: %v", err)
	}

	const bookmarkCount = 20
	bookmarkIDs := make([]string, bookmarkCount)
	for i := range bookmarkIDs {
		bookmarkIDs[i] = fmt.Sprintf("b%d", i)
	}

	rng := rand.New(rand.NewSource(42))
	linked := make(map[string]bool)

	for step := 0; step < 500; step++ {
		id := bookmarkIDs[rng.Intn(bookmarkCount)]

		if rng.Intn(2) == 0 {
			changed, err := s.AttachTag(ctx, id, tag.ID)
			if err != nil {
				t.Fatalf("AttachTag: %v", err)
			}
			if changed == linked[id] {
				t.Fatalf("attach changed=%v but linked=%v for %s", changed, linked[id], id)
			}
			linked[id] = true
		} else {
			changed, err := s.DetachTag(ctx, id, tag.ID)
			if err != nil {
				t.Fatalf("DetachTag: %v", err)
			}
			if changed != linked[id] {
				t.Fatalf("detach changed=%v but linked=%v for %s", changed, linked[id], id)
			}
			linked[id] = false
		}

		want := int64(0)
		for _, l := range linked {
			if l {
				want++
			}
		}
		got, err := s.GetTag(ctx, tag.ID)
		if err != nil {
			t.Fatalf("GetTag: %v", err)
		}
		if got.Count != want {
			t.Fatalf("step %d: count = %d, want %d", step, got.Count, want)
		}
	}
}

func TestDetachNeverGoesNegative(t *testing.T) {
	s := New()
	ctx := context.Background()

	tag, _ := s.GetOrCreateTag(ctx, "floor", domain.TagUser)

	for i := 0; i < 3; i++ {
		if changed, err := s.DetachTag(ctx, "b1", tag.ID); err != nil || changed {
			t.Fatalf("detach of unlinked pair: changed=%v err=%v", changed, err)
		}
	}

	got, _ := s.GetTag(ctx, tag.ID)
	if got.Count != 0 {
		t.Errorf("count = %d, want 0", got.Count)
	}
}

func TestActivitiesNewestFirstWithLimit(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		a := &domain.Activity{
			ID:      fmt.Sprintf("a%d", i),
			UserID:  "u1",
			Type:    domain.ActivityBookmarkAdded,
			Content: fmt.Sprintf("save %d", i),
		}
		if err := s.AppendActivity(ctx, a); err != nil {
			t.Fatalf("AppendActivity: %v", err)
		}
	}

	got, err := s.ListActivities(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("ListActivities: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != "a4" || got[2].ID != "a2" {
		t.Errorf("activities not newest-first: %s..%s", got[0].ID, got[2].ID)
	}

	all, err := s.ListActivities(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListActivities(global): %v", err)
	}
	if len(all) != 5 {
		t.Errorf("global len = %d, want 5", len(all))
	}
}
