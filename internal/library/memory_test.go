package library

import (
	"context"
	"testing"
	"time"

	"github.com/hammamikhairi/kitchentape/internal/domain"
	"github.com/hammamikhairi/kitchentape/internal/logger"
)

func newStore(t *testing.T) (*MemoryStore, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	return NewMemoryStore(log), context.Background()
}

func TestMemoryStoreRecipeCRUD(t *testing.T) {
	store, ctx := newStore(t)

	recipe := &domain.Recipe{
		ID:        "r1",
		Name:      "Test Stew",
		Author:    "me",
		CreatedAt: time.Now(),
	}

	if err := store.SaveRecipe(ctx, recipe); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.GetRecipe(ctx, "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Name != "Test Stew" {
		t.Fatalf("expected name %q, got %q", "Test Stew", loaded.Name)
	}

	if _, err := store.GetRecipe(ctx, "nope"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Seeded recipes plus ours.
	list, err := store.ListRecipes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 recipes, got %d", len(list))
	}

	if err := store.DeleteRecipe(ctx, "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetRecipe(ctx, "r1"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteRecipe(ctx, "r1"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreSearch(t *testing.T) {
	store, ctx := newStore(t)

	tests := []struct {
		query string
		want  int
	}{
		{"pancake", 1},
		{"sauce", 1},
		{"SLOW-COOK", 1}, // tag match, case-insensitive
		{"grandma", 1},   // description match
		{"sushi", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := store.SearchRecipes(ctx, tt.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("query %q: expected %d results, got %d", tt.query, tt.want, len(got))
			}
		})
	}
}

func TestMemoryStoreLikes(t *testing.T) {
	store, ctx := newStore(t)

	if err := store.Like(ctx, "dad-pancakes", "ana"); err != nil {
		t.Fatalf("like: %v", err)
	}
	// Same user twice counts once.
	if err := store.Like(ctx, "dad-pancakes", "ana"); err != nil {
		t.Fatalf("like again: %v", err)
	}
	if err := store.Like(ctx, "dad-pancakes", "ben"); err != nil {
		t.Fatalf("like: %v", err)
	}

	n, err := store.Likes(ctx, "dad-pancakes")
	if err != nil {
		t.Fatalf("likes: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 likes, got %d", n)
	}

	if err := store.Unlike(ctx, "dad-pancakes", "ana"); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if n, _ := store.Likes(ctx, "dad-pancakes"); n != 1 {
		t.Fatalf("expected 1 like after unlike, got %d", n)
	}

	if err := store.Like(ctx, "ghost", "ana"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown recipe, got %v", err)
	}

	// Like counts surface in listings.
	list, _ := store.ListRecipes(ctx)
	for _, sum := range list {
		if sum.ID == "dad-pancakes" && sum.Likes != 1 {
			t.Fatalf("expected summary like count 1, got %d", sum.Likes)
		}
	}
}

func TestMemoryStoreShelf(t *testing.T) {
	store, ctx := newStore(t)

	if err := store.SaveToShelf(ctx, "nonna-red-sauce", "me"); err != nil {
		t.Fatalf("save to shelf: %v", err)
	}
	if err := store.SaveToShelf(ctx, "dad-pancakes", "me"); err != nil {
		t.Fatalf("save to shelf: %v", err)
	}

	shelf, err := store.Shelf(ctx, "me")
	if err != nil {
		t.Fatalf("shelf: %v", err)
	}
	if len(shelf) != 2 {
		t.Fatalf("expected 2 shelved recipes, got %d", len(shelf))
	}

	if err := store.RemoveFromShelf(ctx, "dad-pancakes", "me"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	shelf, _ = store.Shelf(ctx, "me")
	if len(shelf) != 1 || shelf[0] != "nonna-red-sauce" {
		t.Fatalf("unexpected shelf contents: %v", shelf)
	}

	// Other users have their own shelves.
	if other, _ := store.Shelf(ctx, "someone-else"); len(other) != 0 {
		t.Fatalf("expected empty shelf, got %v", other)
	}
}

func TestMemoryStoreComments(t *testing.T) {
	store, ctx := newStore(t)

	for i, text := range []string{"first!", "looks great", "made it twice"} {
		c := &domain.Comment{
			ID:        string(rune('a' + i)),
			RecipeID:  "dad-pancakes",
			Author:    "ana",
			Text:      text,
			CreatedAt: time.Now(),
		}
		if err := store.AddComment(ctx, c); err != nil {
			t.Fatalf("add comment: %v", err)
		}
	}

	comments, err := store.Comments(ctx, "dad-pancakes")
	if err != nil {
		t.Fatalf("comments: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	if comments[0].Text != "first!" || comments[2].Text != "made it twice" {
		t.Fatal("comments out of insertion order")
	}

	if _, err := store.Comments(ctx, "ghost"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreCookbooks(t *testing.T) {
	store, ctx := newStore(t)

	cb := &domain.Cookbook{ID: "cb1", Name: "Weeknight", Owner: "me", CreatedAt: time.Now()}
	if err := store.SaveCookbook(ctx, cb); err != nil {
		t.Fatalf("save cookbook: %v", err)
	}

	got, err := store.GetCookbook(ctx, "cb1")
	if err != nil {
		t.Fatalf("get cookbook: %v", err)
	}
	if got.Name != "Weeknight" {
		t.Fatalf("expected name Weeknight, got %q", got.Name)
	}

	mine, err := store.ListCookbooks(ctx, "me")
	if err != nil {
		t.Fatalf("list cookbooks: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 cookbook, got %d", len(mine))
	}
	if theirs, _ := store.ListCookbooks(ctx, "ana"); len(theirs) != 0 {
		t.Fatalf("expected no cookbooks for other owner, got %d", len(theirs))
	}
}

func TestMemoryStoreMealPlan(t *testing.T) {
	store, ctx := newStore(t)

	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	entries := []*domain.MealPlanEntry{
		{ID: "m1", Date: monday.AddDate(0, 0, 2), RecipeID: "dad-pancakes"},
		{ID: "m2", Date: monday, RecipeID: "nonna-red-sauce"},
		{ID: "m3", Date: monday.AddDate(0, 0, 9), RecipeID: "dad-pancakes"}, // next week
	}
	for _, e := range entries {
		if err := store.PlanMeal(ctx, e); err != nil {
			t.Fatalf("plan meal %s: %v", e.ID, err)
		}
	}

	week, err := store.MealPlan(ctx, monday, monday.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("meal plan: %v", err)
	}
	if len(week) != 2 {
		t.Fatalf("expected 2 entries this week, got %d", len(week))
	}
	if week[0].ID != "m2" || week[1].ID != "m1" {
		t.Fatal("entries not sorted by date")
	}

	bad := &domain.MealPlanEntry{ID: "m4", Date: monday, RecipeID: "ghost"}
	if err := store.PlanMeal(ctx, bad); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown recipe, got %v", err)
	}
}
