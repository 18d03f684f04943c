package domain

import (
	"context"
	"time"
)

// CaptureDevice is a live capture stream bound to one recording session.
// Emission is gated by Begin/Pause/Resume/End; the device itself stays
// open (and the hardware stays live) from Open until End.
type CaptureDevice interface {
	// Begin starts chunk emission.
	Begin() error
	// Pause suspends chunk emission without releasing the device.
	Pause() error
	// Resume restarts chunk emission after Pause.
	Resume() error
	// End stops emission, releases the device, and closes Chunks.
	// Safe to call more than once.
	End() error
	// Chunks delivers encoded media fragments in emission order.
	Chunks() <-chan []byte
	// Active reports whether the device is still held open.
	Active() bool
	// MimeType is the content type of the emitted chunk stream.
	MimeType() string
}

// DeviceOpener acquires a capture device from the platform. Implementations
// can be miniaudio-backed or in-memory fakes for tests.
type DeviceOpener interface {
	Open(ctx context.Context, c CaptureConstraints) (CaptureDevice, error)
}

// RecipeExtractor derives a structured recipe from a finished recording.
// The real AI pipeline lives behind this boundary; the shipped
// implementation is a placeholder.
type RecipeExtractor interface {
	Extract(ctx context.Context, result *RecordingResult) (*Recipe, error)
}

// RecipeStore persists recipes. Implementations can be in-memory or backed
// by the hosted database.
type RecipeStore interface {
	SaveRecipe(ctx context.Context, recipe *Recipe) error
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	ListRecipes(ctx context.Context) ([]RecipeSummary, error)
	SearchRecipes(ctx context.Context, query string) ([]RecipeSummary, error)
	DeleteRecipe(ctx context.Context, id string) error
}

// LibraryStore persists the social layer around recipes: likes, saves,
// comments, cookbooks, and the meal plan.
type LibraryStore interface {
	Like(ctx context.Context, recipeID, user string) error
	Unlike(ctx context.Context, recipeID, user string) error
	Likes(ctx context.Context, recipeID string) (int, error)

	SaveToShelf(ctx context.Context, recipeID, user string) error
	RemoveFromShelf(ctx context.Context, recipeID, user string) error
	Shelf(ctx context.Context, user string) ([]string, error)

	AddComment(ctx context.Context, comment *Comment) error
	Comments(ctx context.Context, recipeID string) ([]*Comment, error)

	SaveCookbook(ctx context.Context, cb *Cookbook) error
	GetCookbook(ctx context.Context, id string) (*Cookbook, error)
	ListCookbooks(ctx context.Context, owner string) ([]*Cookbook, error)

	PlanMeal(ctx context.Context, entry *MealPlanEntry) error
	MealPlan(ctx context.Context, from, to time.Time) ([]*MealPlanEntry, error)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout or the terminal UI.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// IntentParser converts raw user input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}
