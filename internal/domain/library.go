package domain

import "time"

// Comment is a user remark attached to a recipe.
type Comment struct {
	ID        string
	RecipeID  string
	Author    string
	Text      string
	CreatedAt time.Time
}

// Cookbook groups recipes under a named collection.
type Cookbook struct {
	ID        string
	Name      string
	Owner     string
	RecipeIDs []string
	CreatedAt time.Time
}

// MealPlanEntry assigns a recipe to a calendar date.
type MealPlanEntry struct {
	ID       string
	Date     time.Time // normalized to midnight UTC
	RecipeID string
	Note     string
}
