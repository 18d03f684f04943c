// Package library manages the recipe library: recipes derived from
// recordings plus the social layer around them (likes, saves, comments,
// cookbooks, meal plan).
package library

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/kitchentape/internal/domain"
	"github.com/hammamikhairi/kitchentape/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.RecipeStore  = (*MemoryStore)(nil)
	_ domain.LibraryStore = (*MemoryStore)(nil)
)

// MemoryStore keeps the whole library in memory. Safe for concurrent use.
// The hosted database is an external collaborator; this store stands in
// for it behind the same interfaces.
type MemoryStore struct {
	mu        sync.RWMutex
	recipes   map[string]*domain.Recipe
	likes     map[string]map[string]struct{} // recipeID -> users
	shelves   map[string]map[string]struct{} // user -> recipeIDs
	comments  map[string][]*domain.Comment
	cookbooks map[string]*domain.Cookbook
	mealPlan  []*domain.MealPlanEntry
	log       *logger.Logger
}

// NewMemoryStore creates a library store preloaded with a couple of
// community recipes.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	s := &MemoryStore{
		recipes:   make(map[string]*domain.Recipe),
		likes:     make(map[string]map[string]struct{}),
		shelves:   make(map[string]map[string]struct{}),
		comments:  make(map[string][]*domain.Comment),
		cookbooks: make(map[string]*domain.Cookbook),
		log:       log,
	}
	s.seed()
	return s
}

// ── Recipes ──────────────────────────────────────────────────────

// SaveRecipe persists a recipe. Overwrites if it already exists.
func (s *MemoryStore) SaveRecipe(ctx context.Context, recipe *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("library: saving recipe %s (%q)", recipe.ID, recipe.Name)
	s.recipes[recipe.ID] = recipe
	return nil
}

// GetRecipe returns a recipe by ID.
func (s *MemoryStore) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// ListRecipes returns summaries of all recipes, sorted by name, with like
// counts filled in.
func (s *MemoryStore) ListRecipes(ctx context.Context) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RecipeSummary, 0, len(s.recipes))
	for _, r := range s.recipes {
		sum := r.Summary()
		sum.Likes = len(s.likes[r.ID])
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SearchRecipes returns recipes whose name, description, or tags contain
// the query substring. No relevance ranking; results sort by name.
func (s *MemoryStore) SearchRecipes(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	s.log.Debug("library: searching for %q", q)

	var out []domain.RecipeSummary
	for _, r := range s.recipes {
		if matches(r, q) {
			sum := r.Summary()
			sum.Likes = len(s.likes[r.ID])
			out = append(out, sum)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeleteRecipe removes a recipe and its social records.
func (s *MemoryStore) DeleteRecipe(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.recipes, id)
	delete(s.likes, id)
	delete(s.comments, id)
	for _, shelf := range s.shelves {
		delete(shelf, id)
	}
	s.log.Debug("library: deleted recipe %s", id)
	return nil
}

func matches(r *domain.Recipe, query string) bool {
	if strings.Contains(strings.ToLower(r.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// ── Likes ────────────────────────────────────────────────────────

// Like records a like. Liking twice is a no-op.
func (s *MemoryStore) Like(ctx context.Context, recipeID, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[recipeID]; !ok {
		return domain.ErrNotFound
	}
	if s.likes[recipeID] == nil {
		s.likes[recipeID] = make(map[string]struct{})
	}
	s.likes[recipeID][user] = struct{}{}
	return nil
}

// Unlike removes a like. Safe when the user never liked the recipe.
func (s *MemoryStore) Unlike(ctx context.Context, recipeID, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[recipeID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.likes[recipeID], user)
	return nil
}

// Likes returns the like count for a recipe.
func (s *MemoryStore) Likes(ctx context.Context, recipeID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.recipes[recipeID]; !ok {
		return 0, domain.ErrNotFound
	}
	return len(s.likes[recipeID]), nil
}

// ── Shelf (saved recipes) ────────────────────────────────────────

// SaveToShelf puts a recipe on the user's personal shelf.
func (s *MemoryStore) SaveToShelf(ctx context.Context, recipeID, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[recipeID]; !ok {
		return domain.ErrNotFound
	}
	if s.shelves[user] == nil {
		s.shelves[user] = make(map[string]struct{})
	}
	s.shelves[user][recipeID] = struct{}{}
	return nil
}

// RemoveFromShelf takes a recipe off the user's shelf.
func (s *MemoryStore) RemoveFromShelf(ctx context.Context, recipeID, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.shelves[user], recipeID)
	return nil
}

// Shelf lists the recipe IDs on the user's shelf, sorted for stable output.
func (s *MemoryStore) Shelf(ctx context.Context, user string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.shelves[user]))
	for id := range s.shelves[user] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// ── Comments ─────────────────────────────────────────────────────

// AddComment appends a comment to a recipe.
func (s *MemoryStore) AddComment(ctx context.Context, comment *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[comment.RecipeID]; !ok {
		return domain.ErrNotFound
	}
	s.comments[comment.RecipeID] = append(s.comments[comment.RecipeID], comment)
	return nil
}

// Comments returns a recipe's comments in insertion order.
func (s *MemoryStore) Comments(ctx context.Context, recipeID string) ([]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.recipes[recipeID]; !ok {
		return nil, domain.ErrNotFound
	}
	return append([]*domain.Comment(nil), s.comments[recipeID]...), nil
}

// ── Cookbooks ────────────────────────────────────────────────────

// SaveCookbook persists a cookbook. Overwrites if it already exists.
func (s *MemoryStore) SaveCookbook(ctx context.Context, cb *domain.Cookbook) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cookbooks[cb.ID] = cb
	return nil
}

// GetCookbook returns a cookbook by ID.
func (s *MemoryStore) GetCookbook(ctx context.Context, id string) (*domain.Cookbook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cb, ok := s.cookbooks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cb, nil
}

// ListCookbooks returns the owner's cookbooks sorted by name.
func (s *MemoryStore) ListCookbooks(ctx context.Context, owner string) ([]*domain.Cookbook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Cookbook
	for _, cb := range s.cookbooks {
		if cb.Owner == owner {
			out = append(out, cb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Meal plan ────────────────────────────────────────────────────

// PlanMeal assigns a recipe to a date.
func (s *MemoryStore) PlanMeal(ctx context.Context, entry *domain.MealPlanEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[entry.RecipeID]; !ok {
		return domain.ErrNotFound
	}
	s.mealPlan = append(s.mealPlan, entry)
	return nil
}

// MealPlan returns entries with from <= date < to, sorted by date.
func (s *MemoryStore) MealPlan(ctx context.Context, from, to time.Time) ([]*domain.MealPlanEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.MealPlanEntry
	for _, e := range s.mealPlan {
		if !e.Date.Before(from) && e.Date.Before(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// seed populates the store with community recipes so browsing, search,
// and likes work out of the box.
func (s *MemoryStore) seed() {
	seeded := []*domain.Recipe{
		{
			ID:          "nonna-red-sauce",
			Name:        "Nonna's Sunday Red Sauce",
			Description: "Slow-simmered tomato sauce the way grandma narrates it.",
			Author:      "community",
			Servings:    6,
			Ingredients: []domain.Ingredient{
				{Name: "canned whole tomatoes", Quantity: 2, Unit: "cans"},
				{Name: "garlic cloves", Quantity: 4, Unit: "pieces"},
				{Name: "olive oil", Quantity: 3, Unit: "tablespoons"},
				{Name: "basil", Quantity: 1, Unit: "handful", Optional: true},
			},
			Steps: []domain.Step{
				{Order: 1, Instruction: "Sweat the garlic in olive oil until fragrant.", Duration: 2 * time.Minute},
				{Order: 2, Instruction: "Crush in the tomatoes and bring to a bare simmer.", Duration: 5 * time.Minute},
				{Order: 3, Instruction: "Simmer uncovered, stirring now and then.", Duration: 90 * time.Minute},
				{Order: 4, Instruction: "Tear in the basil and season to taste."},
			},
			Tags:      []string{"italian", "sauce", "slow-cook"},
			CreatedAt: time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC),
			Version:   1,
		},
		{
			ID:          "dad-pancakes",
			Name:        "Dad's Saturday Pancakes",
			Description: "The weekend batter recorded mid-flip.",
			Author:      "community",
			Servings:    4,
			Ingredients: []domain.Ingredient{
				{Name: "flour", Quantity: 2, Unit: "cups"},
				{Name: "milk", Quantity: 1.5, Unit: "cups"},
				{Name: "eggs", Quantity: 2, Unit: "pieces"},
				{Name: "baking powder", Quantity: 2, Unit: "teaspoons"},
			},
			Steps: []domain.Step{
				{Order: 1, Instruction: "Whisk the dry ingredients, then fold in milk and eggs."},
				{Order: 2, Instruction: "Rest the batter while the pan heats.", Duration: 10 * time.Minute},
				{Order: 3, Instruction: "Ladle and flip when the bubbles set.", Duration: 3 * time.Minute},
			},
			Tags:      []string{"breakfast", "quick"},
			CreatedAt: time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC),
			Version:   1,
		},
	}

	for _, r := range seeded {
		s.recipes[r.ID] = r
	}
	s.log.Debug("library: seeded %d community recipes", len(seeded))
}
