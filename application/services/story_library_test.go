package services

import (
	"context"
	"errors"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/inbound"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"strings"
	"testing"
	"time"
)

func newTestLibrary(repo *memoryStoryRepository, now time.Time) *storyLibrary {
	library := NewStoryLibrary(newTestLogger(), repo, "https://books.example.com/").(*storyLibrary)
	library.now = func() time.Time { return now }
	return library
}

func sampleStory() domain.GeneratedStory {
	return NewFallbackSynthesizer().Synthesize(sampleRequest(), domain.ResolveLengthProfile(domain.ShortStory), "")
}

func TestStoryLibrary_SaveComputesTotals(t *testing.T) {
	repo := newMemoryStoryRepository()
	library := newTestLibrary(repo, time.Now())
	story := domain.GeneratedStory{
		Pages: []domain.StoryPage{{Content: "one two three"}, {Content: "four  five"}},
	}

	record, err := library.Save(context.Background(), "user-1", sampleRequest(), story)
	if err != nil {
		t.Fatal("Failed to save story:", err)
	}

	if record.Title != "Mia's friendship Adventure" {
		t.Errorf("unexpected title %q", record.Title)
	}
	if record.TotalWords != 5 || record.PageCount != 2 || record.WordsPerPage != 50 {
		t.Errorf("unexpected totals %+v", record)
	}
	if _, ok := repo.stories[record.ID]; !ok {
		t.Error("record not persisted")
	}
}

func TestStoryLibrary_Ownership(t *testing.T) {
	library := newTestLibrary(newMemoryStoryRepository(), time.Now())
	ctx := context.Background()
	record, err := library.Save(ctx, "owner", sampleRequest(), sampleStory())
	if err != nil {
		t.Fatal("Failed to save story:", err)
	}

	if _, err := library.Get(ctx, "intruder", record.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
	if _, err := library.ToggleFavorite(ctx, "intruder", record.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
	if err := library.Delete(ctx, "intruder", record.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
	if _, err := library.Get(ctx, "owner", "missing"); !errors.Is(err, domain.ErrStoryNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestStoryLibrary_ToggleAndList(t *testing.T) {
	repo := newMemoryStoryRepository()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		library := newTestLibrary(repo, base.Add(time.Duration(i)*time.Hour))
		record, err := library.Save(ctx, "user-1", sampleRequest(), sampleStory())
		if err != nil {
			t.Fatal("Failed to save story:", err)
		}
		ids = append(ids, record.ID)
	}
	library := newTestLibrary(repo, base.Add(5*time.Hour))

	toggled, err := library.ToggleFavorite(ctx, "user-1", ids[0])
	if err != nil || !toggled.IsFavorite {
		t.Fatalf("expected favorite, got %+v, %v", toggled, err)
	}
	if _, err := library.TogglePublic(ctx, "user-1", ids[1]); err != nil {
		t.Fatal("Failed to toggle public:", err)
	}

	all, err := library.List(ctx, "user-1", inbound.ListStoriesFilter{})
	if err != nil {
		t.Fatal("Failed to list stories:", err)
	}
	if len(all) != 3 || all[0].ID != ids[2] {
		t.Errorf("expected newest first, got %d records", len(all))
	}

	yes := true
	favorites, _ := library.List(ctx, "user-1", inbound.ListStoriesFilter{Favorite: &yes})
	if len(favorites) != 1 || favorites[0].ID != ids[0] {
		t.Errorf("unexpected favorites %+v", favorites)
	}
	public, _ := library.List(ctx, "user-1", inbound.ListStoriesFilter{Public: &yes})
	if len(public) != 1 || public[0].ID != ids[1] {
		t.Errorf("unexpected public stories %+v", public)
	}
	limited, _ := library.List(ctx, "user-1", inbound.ListStoriesFilter{Limit: 2})
	if len(limited) != 2 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}

	if err := library.Delete(ctx, "user-1", ids[2]); err != nil {
		t.Fatal("Failed to delete story:", err)
	}
	if _, err := library.Get(ctx, "user-1", ids[2]); !errors.Is(err, domain.ErrStoryNotFound) {
		t.Errorf("expected deleted story to be gone, got %v", err)
	}
}

func TestStoryLibrary_ToggleKeepsConcurrentWrites(t *testing.T) {
	repo := newMemoryStoryRepository()
	ctx := context.Background()
	library := newTestLibrary(repo, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	record, err := library.Save(ctx, "user-1", sampleRequest(), sampleStory())
	if err != nil {
		t.Fatal("Failed to save story:", err)
	}

	// Another request favorites and renames the story between our read and write.
	interleaved := 0
	repo.beforeSetFlag = func(stored *domain.StoryRecord) {
		if interleaved == 0 {
			stored.IsFavorite = true
			stored.Title = "Renamed elsewhere"
		}
		interleaved++
	}

	toggled, err := library.ToggleFavorite(ctx, "user-1", record.ID)
	if err != nil {
		t.Fatal("Failed to toggle favorite:", err)
	}
	if toggled.IsFavorite {
		t.Error("toggle should apply on top of the concurrent favorite")
	}
	if interleaved != 2 {
		t.Errorf("expected one retry, got %d writes", interleaved)
	}

	stored := repo.stories[record.ID]
	if stored.IsFavorite || stored.Title != "Renamed elsewhere" {
		t.Errorf("concurrent write lost: %+v", stored)
	}
}

func TestStoryLibrary_ToggleGivesUpOnContention(t *testing.T) {
	repo := newMemoryStoryRepository()
	ctx := context.Background()
	library := newTestLibrary(repo, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	record, err := library.Save(ctx, "user-1", sampleRequest(), sampleStory())
	if err != nil {
		t.Fatal("Failed to save story:", err)
	}
	repo.beforeSetFlag = func(stored *domain.StoryRecord) {
		stored.IsPublic = !stored.IsPublic
	}

	if _, err := library.TogglePublic(ctx, "user-1", record.ID); !errors.Is(err, domain.ErrStoryConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestStoryLibrary_ShareLifecycle(t *testing.T) {
	repo := newMemoryStoryRepository()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	library := newTestLibrary(repo, now)
	ctx := context.Background()

	record, err := library.Save(ctx, "user-1", sampleRequest(), sampleStory())
	if err != nil {
		t.Fatal("Failed to save story:", err)
	}

	share, err := library.Share(ctx, "user-1", record.ID, 7)
	if err != nil {
		t.Fatal("Failed to share story:", err)
	}
	if len(share.Token) != 32 {
		t.Errorf("unexpected token %q", share.Token)
	}
	if share.ShareURL != "https://books.example.com/shared/"+share.Token {
		t.Errorf("unexpected share url %q", share.ShareURL)
	}
	if !strings.HasPrefix(share.Description, "Check out this children's story: ") {
		t.Errorf("unexpected description %q", share.Description)
	}

	shared, err := library.GetShared(ctx, share.Token)
	if err != nil || shared.ID != record.ID {
		t.Fatalf("expected shared story, got %+v, %v", shared, err)
	}
	if repo.shares[share.Token].ViewCount != 1 {
		t.Errorf("expected one view, got %d", repo.shares[share.Token].ViewCount)
	}

	if _, err := library.Share(ctx, "intruder", record.ID, 0); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}

	later := newTestLibrary(repo, now.Add(8*24*time.Hour))
	if _, err := later.GetShared(ctx, share.Token); !errors.Is(err, domain.ErrStoryNotFound) {
		t.Errorf("expected expired share to be not found, got %v", err)
	}
	if _, err := library.GetShared(ctx, "unknown"); !errors.Is(err, domain.ErrStoryNotFound) {
		t.Errorf("expected unknown token to be not found, got %v", err)
	}
}

func TestStoryLibrary_SaveErrorPropagates(t *testing.T) {
	repo := newMemoryStoryRepository()
	repo.saveErr = errors.New("throughput exceeded")

	if _, err := newTestLibrary(repo, time.Now()).Save(context.Background(), "user-1", sampleRequest(), sampleStory()); err == nil {
		t.Error("expected repository error")
	}
}
