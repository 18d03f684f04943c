package conversation

import (
	"context"
	"testing"

	"github.com/hammamikhairi/kitchentape/internal/domain"
	"github.com/hammamikhairi/kitchentape/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input       string
		wantType    domain.IntentType
		wantPayload string
	}{
		// Recording controls
		{"record", domain.IntentRecord, ""},
		{"rec", domain.IntentRecord, ""},
		{"roll", domain.IntentRecord, ""},
		{"pause", domain.IntentPause, ""},
		{"brb", domain.IntentPause, ""},
		{"resume", domain.IntentResume, ""},
		{"back", domain.IntentResume, ""},
		{"stop", domain.IntentStop, ""},
		{"cut", domain.IntentStop, ""},
		{"done", domain.IntentStop, ""},

		// Playback
		{"play", domain.IntentPlay, ""},
		{"listen", domain.IntentPlay, ""},

		// Library
		{"list", domain.IntentListRecipes, ""},
		{"recipes", domain.IntentListRecipes, ""},
		{"show pasta-123", domain.IntentShowRecipe, "show pasta-123"},
		{"open dad-pancakes", domain.IntentShowRecipe, "open dad-pancakes"},
		{"delete r-42", domain.IntentDeleteRecipe, "delete r-42"},
		{"search sauce", domain.IntentSearch, "search sauce"},
		{"find slow cooked lamb", domain.IntentSearch, "find slow cooked lamb"},
		{"like dad-pancakes", domain.IntentLike, "like dad-pancakes"},
		{"unlike dad-pancakes", domain.IntentLike, "unlike dad-pancakes"},
		{"save dad-pancakes", domain.IntentSaveRecipe, "save dad-pancakes"},
		{"saved", domain.IntentSaveRecipe, ""},
		{"comment dad-pancakes these were great", domain.IntentComment, "comment dad-pancakes these were great"},
		{"cookbooks", domain.IntentCookbook, ""},
		{"cookbook new Weeknight", domain.IntentCookbook, "cookbook new Weeknight"},
		{"plan", domain.IntentPlan, ""},
		{"plan 2026-08-24 dad-pancakes", domain.IntentPlan, "plan 2026-08-24 dad-pancakes"},
		{"copy dad-pancakes", domain.IntentCopy, "copy dad-pancakes"},

		// Session
		{"status", domain.IntentStatus, ""},
		{"quit", domain.IntentQuit, ""},
		{"q", domain.IntentQuit, ""},
		{"help", domain.IntentHelp, ""},
		{"?", domain.IntentHelp, ""},

		// Unknown
		{"flambé the cat", domain.IntentUnknown, "flambé the cat"},
		{"", domain.IntentUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if intent.Type != tt.wantType {
				t.Errorf("input=%q: got type %s, want %s", tt.input, intent.Type, tt.wantType)
			}
			if tt.wantPayload != "" && intent.Payload != tt.wantPayload {
				t.Errorf("input=%q: got payload %q, want %q", tt.input, intent.Payload, tt.wantPayload)
			}
		})
	}
}
