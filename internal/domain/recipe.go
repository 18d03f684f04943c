package domain

import "time"

// Recipe is a structured recipe, usually derived from a recording.
type Recipe struct {
	ID          string
	Name        string
	Description string
	Author      string
	Servings    int
	Ingredients []Ingredient
	Steps       []Step
	Tags        []string
	// RecordingID links back to the recording the recipe was derived
	// from. Empty for recipes entered by hand or seeded.
	RecordingID string
	// Draft marks extractor output the user hasn't reviewed yet.
	Draft     bool
	CreatedAt time.Time
	Version   int
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID          string
	Name        string
	Description string
	Author      string
	Tags        []string
	Likes       int
}

// Ingredient represents a single ingredient with human-style quantities.
type Ingredient struct {
	Name     string
	Quantity float64
	Unit     string // "pieces", "cups", "tablespoons", "grams", ""
	Optional bool
}

// Step represents a single cooking step.
type Step struct {
	Order       int
	Instruction string
	Duration    time.Duration // expected duration, 0 if untimed
}

// Summary converts a recipe to its listing view. The like count lives in
// the library store, so callers fill it in separately.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Author:      r.Author,
		Tags:        r.Tags,
	}
}
