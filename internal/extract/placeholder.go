// Package extract derives structured recipes from finished recordings.
//
// The shipped extractor is a placeholder: it produces a deterministic
// draft from the recording's metadata. The real transcription + AI
// pipeline lives behind domain.RecipeExtractor and replaces this type
// without touching the recording or library code.
package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/kitchentape/internal/domain"
	"github.com/hammamikhairi/kitchentape/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeExtractor = (*Placeholder)(nil)

// Placeholder turns a RecordingResult into a draft recipe skeleton the
// user fills in afterwards.
type Placeholder struct {
	log *logger.Logger
}

// NewPlaceholder creates the placeholder extractor.
func NewPlaceholder(log *logger.Logger) *Placeholder {
	return &Placeholder{log: log}
}

// Extract builds a draft recipe from the recording metadata. Fails only
// when the recording carries no artifact.
func (p *Placeholder) Extract(_ context.Context, result *domain.RecordingResult) (*domain.Recipe, error) {
	if result == nil || len(result.Artifact.Data) == 0 {
		return nil, domain.ErrNoArtifact
	}

	recordedAt, err := time.Parse(time.RFC3339, result.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("parsing recording timestamp: %w", err)
	}

	dur := time.Duration(result.Duration) * time.Second

	recipe := &domain.Recipe{
		ID:   uuid.NewString(),
		Name: fmt.Sprintf("Kitchen session, %s", recordedAt.Format("Jan 2 15:04")),
		Description: fmt.Sprintf("Draft extracted from a %s recording (%s, %d KB). Review and edit before sharing.",
			formatDuration(dur), result.Artifact.MimeType, len(result.Artifact.Data)/1024),
		Steps: []domain.Step{
			{Order: 1, Instruction: "Transcribe what was said while cooking.", Duration: 0},
			{Order: 2, Instruction: "List the ingredients that appear in the recording.", Duration: 0},
			{Order: 3, Instruction: "Break the session into numbered cooking steps.", Duration: dur},
		},
		Tags:      tagsFor(dur),
		Draft:     true,
		CreatedAt: recordedAt,
		Version:   1,
	}

	p.log.Info("extract: drafted %q from %s recording", recipe.Name, formatDuration(dur))
	return recipe, nil
}

// tagsFor picks coarse tags from the recording length.
func tagsFor(d time.Duration) []string {
	tags := []string{"draft", "from-recording"}
	switch {
	case d < 10*time.Minute:
		tags = append(tags, "quick")
	case d > 45*time.Minute:
		tags = append(tags, "slow-cook")
	}
	return tags
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if m == 0 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
