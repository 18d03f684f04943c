package library

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/kitchentape/internal/domain"
	"github.com/hammamikhairi/kitchentape/internal/logger"
)

// Option configures the service.
type Option func(*Service)

// WithUser sets the acting user for likes, saves, comments, and cookbooks.
func WithUser(name string) Option {
	return func(s *Service) {
		s.user = name
	}
}

// Service is the application layer over the recipe and library stores.
// It depends only on interfaces and is fully testable with mocks.
type Service struct {
	recipes   domain.RecipeStore
	social    domain.LibraryStore
	extractor domain.RecipeExtractor
	log       *logger.Logger
	user      string
}

// New creates a library service with the given dependencies and options.
func New(recipes domain.RecipeStore, social domain.LibraryStore, extractor domain.RecipeExtractor, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		recipes:   recipes,
		social:    social,
		extractor: extractor,
		log:       log,
		user:      "me",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportRecording runs the extraction collaborator over a finished
// recording and files the resulting draft recipe in the library.
func (s *Service) ImportRecording(ctx context.Context, result *domain.RecordingResult) (*domain.Recipe, error) {
	recipe, err := s.extractor.Extract(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("extracting recipe: %w", err)
	}

	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	if recipe.Author == "" {
		recipe.Author = s.user
	}

	if err := s.recipes.SaveRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("saving recipe: %w", err)
	}

	s.log.Info("library: imported recording as %q (%s)", recipe.Name, recipe.ID)
	return recipe, nil
}

// Recipe returns a full recipe by ID.
func (s *Service) Recipe(ctx context.Context, id string) (*domain.Recipe, error) {
	return s.recipes.GetRecipe(ctx, id)
}

// Delete removes a recipe and its social trail (likes, comments, shelf
// entries) from the library.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.recipes.DeleteRecipe(ctx, id); err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	s.log.Info("library: deleted recipe %s", id)
	return nil
}

// Recipes returns all recipe summaries.
func (s *Service) Recipes(ctx context.Context) ([]domain.RecipeSummary, error) {
	return s.recipes.ListRecipes(ctx)
}

// Search returns summaries matching the query substring.
func (s *Service) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	return s.recipes.SearchRecipes(ctx, query)
}

// Like records a like by the acting user and returns the new count.
func (s *Service) Like(ctx context.Context, recipeID string) (int, error) {
	if err := s.social.Like(ctx, recipeID, s.user); err != nil {
		return 0, fmt.Errorf("liking recipe: %w", err)
	}
	return s.social.Likes(ctx, recipeID)
}

// Unlike removes the acting user's like and returns the new count.
func (s *Service) Unlike(ctx context.Context, recipeID string) (int, error) {
	if err := s.social.Unlike(ctx, recipeID, s.user); err != nil {
		return 0, fmt.Errorf("unliking recipe: %w", err)
	}
	return s.social.Likes(ctx, recipeID)
}

// Save puts a recipe on the acting user's shelf.
func (s *Service) Save(ctx context.Context, recipeID string) error {
	if err := s.social.SaveToShelf(ctx, recipeID, s.user); err != nil {
		return fmt.Errorf("saving recipe: %w", err)
	}
	s.log.Debug("library: %s saved %s", s.user, recipeID)
	return nil
}

// Unsave takes a recipe off the acting user's shelf.
func (s *Service) Unsave(ctx context.Context, recipeID string) error {
	if err := s.social.RemoveFromShelf(ctx, recipeID, s.user); err != nil {
		return fmt.Errorf("unsaving recipe: %w", err)
	}
	return nil
}

// Saved lists the summaries on the acting user's shelf.
func (s *Service) Saved(ctx context.Context) ([]domain.RecipeSummary, error) {
	ids, err := s.social.Shelf(ctx, s.user)
	if err != nil {
		return nil, fmt.Errorf("listing shelf: %w", err)
	}

	out := make([]domain.RecipeSummary, 0, len(ids))
	for _, id := range ids {
		r, err := s.recipes.GetRecipe(ctx, id)
		if err != nil {
			// Recipe deleted after it was shelved; skip.
			continue
		}
		sum := r.Summary()
		if n, err := s.social.Likes(ctx, id); err == nil {
			sum.Likes = n
		}
		out = append(out, sum)
	}
	return out, nil
}

// Comment attaches a remark by the acting user to a recipe.
func (s *Service) Comment(ctx context.Context, recipeID, text string) (*domain.Comment, error) {
	c := &domain.Comment{
		ID:        uuid.NewString(),
		RecipeID:  recipeID,
		Author:    s.user,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.social.AddComment(ctx, c); err != nil {
		return nil, fmt.Errorf("adding comment: %w", err)
	}
	return c, nil
}

// Comments returns a recipe's comments in insertion order.
func (s *Service) Comments(ctx context.Context, recipeID string) ([]*domain.Comment, error) {
	return s.social.Comments(ctx, recipeID)
}

// CreateCookbook starts an empty cookbook owned by the acting user.
func (s *Service) CreateCookbook(ctx context.Context, name string) (*domain.Cookbook, error) {
	cb := &domain.Cookbook{
		ID:        uuid.NewString(),
		Name:      name,
		Owner:     s.user,
		CreatedAt: time.Now(),
	}
	if err := s.social.SaveCookbook(ctx, cb); err != nil {
		return nil, fmt.Errorf("creating cookbook: %w", err)
	}
	s.log.Info("library: cookbook %q created", name)
	return cb, nil
}

// AddToCookbook appends a recipe to a cookbook. Adding a recipe twice is
// a no-op.
func (s *Service) AddToCookbook(ctx context.Context, cookbookID, recipeID string) error {
	if _, err := s.recipes.GetRecipe(ctx, recipeID); err != nil {
		return fmt.Errorf("looking up recipe: %w", err)
	}
	cb, err := s.social.GetCookbook(ctx, cookbookID)
	if err != nil {
		return fmt.Errorf("looking up cookbook: %w", err)
	}

	for _, id := range cb.RecipeIDs {
		if id == recipeID {
			return nil
		}
	}
	cb.RecipeIDs = append(cb.RecipeIDs, recipeID)

	if err := s.social.SaveCookbook(ctx, cb); err != nil {
		return fmt.Errorf("updating cookbook: %w", err)
	}
	return nil
}

// RemoveFromCookbook drops a recipe from a cookbook. Removing a recipe
// that isn't in the cookbook is a no-op.
func (s *Service) RemoveFromCookbook(ctx context.Context, cookbookID, recipeID string) error {
	cb, err := s.social.GetCookbook(ctx, cookbookID)
	if err != nil {
		return fmt.Errorf("looking up cookbook: %w", err)
	}

	kept := cb.RecipeIDs[:0]
	for _, id := range cb.RecipeIDs {
		if id != recipeID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(cb.RecipeIDs) {
		return nil
	}
	cb.RecipeIDs = kept

	if err := s.social.SaveCookbook(ctx, cb); err != nil {
		return fmt.Errorf("updating cookbook: %w", err)
	}
	return nil
}

// Cookbooks lists the acting user's cookbooks.
func (s *Service) Cookbooks(ctx context.Context) ([]*domain.Cookbook, error) {
	return s.social.ListCookbooks(ctx, s.user)
}

// PlanMeal assigns a recipe to a calendar date (normalized to midnight UTC).
func (s *Service) PlanMeal(ctx context.Context, date time.Time, recipeID, note string) (*domain.MealPlanEntry, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	entry := &domain.MealPlanEntry{
		ID:       uuid.NewString(),
		Date:     day,
		RecipeID: recipeID,
		Note:     note,
	}
	if err := s.social.PlanMeal(ctx, entry); err != nil {
		return nil, fmt.Errorf("planning meal: %w", err)
	}
	s.log.Debug("library: planned %s for %s", recipeID, day.Format("2006-01-02"))
	return entry, nil
}

// WeekPlan returns the meal plan for the seven days starting at from.
func (s *Service) WeekPlan(ctx context.Context, from time.Time) ([]*domain.MealPlanEntry, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	return s.social.MealPlan(ctx, start, start.AddDate(0, 0, 7))
}
