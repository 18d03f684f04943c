// Package conversation provides intent parsing and user notification implementations.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/kitchentape/internal/domain"
	"github.com/hammamikhairi/kitchentape/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches user input to intents using keywords and simple patterns.
// Swap this out for an LLM-backed parser when ready.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
	prefixes []prefixRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// prefixRule matches "verb rest-of-line" commands and carries the rest
// as the payload.
type prefixRule struct {
	verbs  []string
	intent domain.IntentType
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(record|rec|start recording|roll|tape)$`), domain.IntentRecord},
		{regexp.MustCompile(`(?i)^(pause|hold|brb|p)$`), domain.IntentPause},
		{regexp.MustCompile(`(?i)^(resume|back|continue|unpause)$`), domain.IntentResume},
		{regexp.MustCompile(`(?i)^(stop|cut|finish|done)$`), domain.IntentStop},
		{regexp.MustCompile(`(?i)^(play|playback|listen|replay)$`), domain.IntentPlay},
		{regexp.MustCompile(`(?i)^(list|recipes|browse|library)$`), domain.IntentListRecipes},
		{regexp.MustCompile(`(?i)^(saved|shelf)$`), domain.IntentSaveRecipe},
		{regexp.MustCompile(`(?i)^(cookbooks?)$`), domain.IntentCookbook},
		{regexp.MustCompile(`(?i)^(plan|week|meal plan)$`), domain.IntentPlan},
		{regexp.MustCompile(`(?i)^(status|where|progress|info)$`), domain.IntentStatus},
		{regexp.MustCompile(`(?i)^(quit|exit|q)$`), domain.IntentQuit},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp},
	}
	p.prefixes = []prefixRule{
		{[]string{"show", "open", "view"}, domain.IntentShowRecipe},
		{[]string{"delete", "discard"}, domain.IntentDeleteRecipe},
		{[]string{"search", "find"}, domain.IntentSearch},
		{[]string{"like", "unlike"}, domain.IntentLike},
		{[]string{"save", "unsave"}, domain.IntentSaveRecipe},
		{[]string{"comment"}, domain.IntentComment},
		{[]string{"cookbook"}, domain.IntentCookbook},
		{[]string{"plan"}, domain.IntentPlan},
		{[]string{"copy"}, domain.IntentCopy},
	}
	return p
}

// Parse converts user input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// Check bare keyword patterns first.
	for _, rule := range p.patterns {
		if rule.regex.MatchString(trimmed) {
			p.log.Debug("matched intent: %s", rule.intent)
			return &domain.Intent{Type: rule.intent}, nil
		}
	}

	// Check "verb argument" commands. The payload keeps the leading verb
	// for intents whose handler distinguishes sub-verbs (like/unlike,
	// save/unsave).
	if parts := strings.SplitN(trimmed, " ", 2); len(parts) == 2 {
		verb := strings.ToLower(parts[0])
		arg := strings.TrimSpace(parts[1])
		for _, rule := range p.prefixes {
			for _, v := range rule.verbs {
				if verb == v {
					p.log.Debug("matched intent: %s (%q)", rule.intent, arg)
					return &domain.Intent{Type: rule.intent, Payload: verb + " " + arg}, nil
				}
			}
		}
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}
