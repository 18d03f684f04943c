package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentRecord
	IntentPause
	IntentResume
	IntentStop
	IntentPlay
	IntentListRecipes
	IntentShowRecipe
	IntentDeleteRecipe
	IntentSearch
	IntentLike
	IntentSaveRecipe
	IntentComment
	IntentCookbook
	IntentPlan
	IntentCopy
	IntentStatus
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentRecord:
		return "record"
	case IntentPause:
		return "pause"
	case IntentResume:
		return "resume"
	case IntentStop:
		return "stop"
	case IntentPlay:
		return "play"
	case IntentListRecipes:
		return "list_recipes"
	case IntentShowRecipe:
		return "show_recipe"
	case IntentDeleteRecipe:
		return "delete_recipe"
	case IntentSearch:
		return "search"
	case IntentLike:
		return "like"
	case IntentSaveRecipe:
		return "save_recipe"
	case IntentComment:
		return "comment"
	case IntentCookbook:
		return "cookbook"
	case IntentPlan:
		return "plan"
	case IntentCopy:
		return "copy"
	case IntentStatus:
		return "status"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // optional context, e.g. recipe ID or search query
}
