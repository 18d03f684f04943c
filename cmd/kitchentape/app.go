package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/hammamikhairi/kitchentape/internal/capture"
	"github.com/hammamikhairi/kitchentape/internal/display"
	"github.com/hammamikhairi/kitchentape/internal/domain"
	"github.com/hammamikhairi/kitchentape/internal/library"
	"github.com/hammamikhairi/kitchentape/internal/logger"
	"github.com/hammamikhairi/kitchentape/internal/player"
)

type cliApp struct {
	gate        *capture.Gate
	constraints domain.CaptureConstraints
	library     *library.Service
	parser      domain.IntentParser
	notifier    domain.Notifier
	speaker     *player.Player // nil when no output device
	log         *logger.Logger
	ui          *display.UI

	session    *capture.Session // current recording session, nil when idle
	lastResult *domain.RecordingResult
	lastRecipe string // ID of the most recently imported draft
}

func (a *cliApp) run(ctx context.Context) {
	uiCh := a.ui.InputChan()

	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
		a.handleIntent(ctx, intent)
	}
}

func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) {
	switch intent.Type {
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentRecord:
		a.startRecording(ctx)
	case domain.IntentPause:
		a.pauseRecording()
	case domain.IntentResume:
		a.resumeRecording()
	case domain.IntentStop:
		a.stopRecording()
	case domain.IntentPlay:
		a.playback()
	case domain.IntentListRecipes:
		a.showRecipes(ctx)
	case domain.IntentShowRecipe:
		a.showRecipe(ctx, argOf(intent.Payload))
	case domain.IntentDeleteRecipe:
		a.deleteRecipe(ctx, argOf(intent.Payload))
	case domain.IntentSearch:
		a.search(ctx, argOf(intent.Payload))
	case domain.IntentLike:
		a.like(ctx, intent.Payload)
	case domain.IntentSaveRecipe:
		a.shelf(ctx, intent.Payload)
	case domain.IntentComment:
		a.comment(ctx, argOf(intent.Payload))
	case domain.IntentCookbook:
		a.cookbook(ctx, argOf(intent.Payload))
	case domain.IntentPlan:
		a.plan(ctx, argOf(intent.Payload))
	case domain.IntentCopy:
		a.copyRecipe(ctx, argOf(intent.Payload))
	case domain.IntentStatus:
		a.status()
	case domain.IntentQuit:
		a.quit(ctx)
	case domain.IntentUnknown:
		if intent.Payload != "" {
			a.ui.PrintHint(fmt.Sprintf("Didn't catch that (%q). Type 'help' for commands.", intent.Payload))
		}
	}
}

// argOf strips the leading verb from a "verb rest" payload.
func argOf(payload string) string {
	parts := strings.SplitN(payload, " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ── Recording ────────────────────────────────────────────────────

func (a *cliApp) startRecording(ctx context.Context) {
	if a.session != nil {
		switch a.session.Phase() {
		case domain.PhaseRecording, domain.PhasePaused:
			a.ui.PrintHint("Already taping. 'stop' to finish first.")
			return
		case domain.PhaseReady:
			a.session.Start()
			return
		default:
			// Stopped or abandoned session; replace it below.
			a.session.Close()
		}
	}

	sess := capture.NewSession(a.log, capture.WithOnResult(func(res *domain.RecordingResult) {
		a.onRecordingDone(ctx, res)
	}))
	a.session = sess
	a.ui.SetStatus(sess)

	dev, err := a.gate.Request(ctx, a.constraints)
	if err != nil {
		sess.Deny()
		a.ui.PrintUrgent("Microphone access denied. Check your input device and try 'record' again.")
		return
	}

	sess.Attach(dev)
	sess.Start()
	a.notifier.Notify(ctx, "Recording. Narrate as you cook; 'pause' to hold, 'stop' to finish.")
}

func (a *cliApp) pauseRecording() {
	if a.session == nil || a.session.Phase() != domain.PhaseRecording {
		a.ui.PrintHint("Nothing recording to pause.")
		return
	}
	a.session.Pause()
	a.ui.PrintHint(fmt.Sprintf("Paused at %s.", display.FormatElapsed(a.session.Elapsed())))
}

func (a *cliApp) resumeRecording() {
	if a.session == nil || a.session.Phase() != domain.PhasePaused {
		a.ui.PrintHint("Nothing paused to resume.")
		return
	}
	a.session.Resume()
	a.ui.PrintHint("Rolling again.")
}

func (a *cliApp) stopRecording() {
	if a.session == nil {
		a.ui.PrintHint("Nothing to stop.")
		return
	}
	if res := a.session.Stop(); res == nil {
		a.ui.PrintHint("Nothing to stop.")
	}
}

// onRecordingDone receives the finished result from the session, keeps it
// for playback, and files a draft recipe in the library.
func (a *cliApp) onRecordingDone(ctx context.Context, res *domain.RecordingResult) {
	a.lastResult = res
	a.ui.PrintHeader(fmt.Sprintf("Recording finished: %s, %d KB.",
		display.FormatElapsed(res.Duration), len(res.Artifact.Data)/1024))

	recipe, err := a.library.ImportRecording(ctx, res)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Could not file the recording: %v", err))
		return
	}
	a.lastRecipe = recipe.ID

	a.ui.PrintBody(fmt.Sprintf("Draft recipe %q filed as %s.", recipe.Name, recipe.ID))
	a.ui.PrintHint("'play' to listen back, 'show " + recipe.ID + "' to review the draft.")
}

func (a *cliApp) playback() {
	if a.speaker == nil {
		a.ui.PrintHint("Playback is disabled (no audio output).")
		return
	}
	if a.lastResult == nil {
		a.ui.PrintHint("Nothing recorded yet.")
		return
	}

	a.ui.PrintHint(fmt.Sprintf("Playing back %s of audio...", display.FormatElapsed(a.lastResult.Duration)))
	res := a.lastResult
	go func() {
		// Interrupt any take still playing before starting the new one.
		a.speaker.Stop()
		if err := a.speaker.PlayResult(res); err != nil {
			a.ui.PrintUrgent(fmt.Sprintf("Playback failed: %v", err))
		}
	}()
}

// ── Library ──────────────────────────────────────────────────────

func (a *cliApp) showRecipes(ctx context.Context) {
	recipes, err := a.library.Recipes(ctx)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error loading recipes: %v", err))
		return
	}
	a.printSummaries("Recipe library:", recipes)
}

func (a *cliApp) printSummaries(header string, recipes []domain.RecipeSummary) {
	a.ui.PrintHeader(header)
	a.ui.Println("")
	if len(recipes) == 0 {
		a.ui.PrintHint("  (nothing here yet)")
		return
	}
	for _, r := range recipes {
		line := fmt.Sprintf("%s — %s", r.ID, r.Name)
		if r.Likes > 0 {
			line += fmt.Sprintf("  ♥ %d", r.Likes)
		}
		a.ui.PrintBody(line)
		if r.Description != "" {
			a.ui.PrintHint(r.Description)
		}
		if len(r.Tags) > 0 {
			a.ui.PrintHint("tags: " + strings.Join(r.Tags, ", "))
		}
		a.ui.Println("")
	}
}

func (a *cliApp) showRecipe(ctx context.Context, id string) {
	if id == "" {
		a.ui.PrintHint("Usage: show <recipe-id>")
		return
	}
	r, err := a.library.Recipe(ctx, id)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}

	a.ui.PrintHeader(fmt.Sprintf("=== %s ===", r.Name))
	if r.Draft {
		a.ui.PrintHint("(draft — extracted from a recording, not reviewed yet)")
	}
	a.ui.PrintBody(r.Description)
	a.ui.PrintHint(fmt.Sprintf("by %s, serves %d", r.Author, r.Servings))

	if len(r.Ingredients) > 0 {
		a.ui.Println("")
		a.ui.PrintHeader("Ingredients:")
		for _, ing := range r.Ingredients {
			a.ui.PrintBody("  - " + formatIngredient(ing))
		}
	}

	if len(r.Steps) > 0 {
		a.ui.Println("")
		a.ui.PrintHeader("Steps:")
		for _, st := range r.Steps {
			line := fmt.Sprintf("  %d. %s", st.Order, st.Instruction)
			if st.Duration > 0 {
				line += fmt.Sprintf(" (~%s)", st.Duration.Round(time.Minute))
			}
			a.ui.PrintBody(line)
		}
	}

	comments, err := a.library.Comments(ctx, id)
	if err == nil && len(comments) > 0 {
		a.ui.Println("")
		a.ui.PrintHeader("Comments:")
		for _, c := range comments {
			a.ui.PrintHint(fmt.Sprintf("  %s: %s", c.Author, c.Text))
		}
	}
}

func (a *cliApp) deleteRecipe(ctx context.Context, id string) {
	if id == "" {
		a.ui.PrintHint("Usage: delete <recipe-id>")
		return
	}
	if err := a.library.Delete(ctx, id); err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	if a.lastRecipe == id {
		a.lastRecipe = ""
	}
	a.ui.PrintHint(fmt.Sprintf("Deleted %s.", id))
}

func (a *cliApp) search(ctx context.Context, query string) {
	if query == "" {
		a.ui.PrintHint("Usage: search <text>")
		return
	}
	results, err := a.library.Search(ctx, query)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.printSummaries(fmt.Sprintf("Matches for %q:", query), results)
}

func (a *cliApp) like(ctx context.Context, payload string) {
	verb, id := splitVerb(payload)
	if id == "" {
		a.ui.PrintHint("Usage: like <recipe-id> / unlike <recipe-id>")
		return
	}

	var n int
	var err error
	if verb == "unlike" {
		n, err = a.library.Unlike(ctx, id)
	} else {
		n, err = a.library.Like(ctx, id)
	}
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.ui.PrintHint(fmt.Sprintf("%s now has %d like(s).", id, n))
}

func (a *cliApp) shelf(ctx context.Context, payload string) {
	verb, id := splitVerb(payload)

	// Bare "saved" lists the shelf.
	if id == "" {
		saved, err := a.library.Saved(ctx)
		if err != nil {
			a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
			return
		}
		a.printSummaries("Saved recipes:", saved)
		return
	}

	if verb == "unsave" {
		if err := a.library.Unsave(ctx, id); err != nil {
			a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
			return
		}
		a.ui.PrintHint(fmt.Sprintf("Removed %s from your shelf.", id))
		return
	}

	if err := a.library.Save(ctx, id); err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.ui.PrintHint(fmt.Sprintf("Saved %s to your shelf.", id))
}

func (a *cliApp) comment(ctx context.Context, arg string) {
	parts := strings.SplitN(arg, " ", 2)
	if len(parts) < 2 {
		a.ui.PrintHint("Usage: comment <recipe-id> <text>")
		return
	}
	c, err := a.library.Comment(ctx, parts[0], strings.TrimSpace(parts[1]))
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.ui.PrintHint(fmt.Sprintf("Comment added to %s.", c.RecipeID))
}

func (a *cliApp) cookbook(ctx context.Context, arg string) {
	switch {
	case arg == "":
		books, err := a.library.Cookbooks(ctx)
		if err != nil {
			a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
			return
		}
		a.ui.PrintHeader("Cookbooks:")
		if len(books) == 0 {
			a.ui.PrintHint("  (none yet — 'cookbook new <name>')")
			return
		}
		for _, cb := range books {
			a.ui.PrintBody(fmt.Sprintf("%s — %s (%d recipes)", cb.ID, cb.Name, len(cb.RecipeIDs)))
		}

	case strings.HasPrefix(arg, "new "):
		name := strings.TrimSpace(strings.TrimPrefix(arg, "new "))
		if name == "" {
			a.ui.PrintHint("Usage: cookbook new <name>")
			return
		}
		cb, err := a.library.CreateCookbook(ctx, name)
		if err != nil {
			a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
			return
		}
		a.ui.PrintHint(fmt.Sprintf("Cookbook %q created (%s).", cb.Name, cb.ID))

	case strings.HasPrefix(arg, "add "):
		parts := strings.Fields(arg)
		if len(parts) != 3 {
			a.ui.PrintHint("Usage: cookbook add <cookbook-id> <recipe-id>")
			return
		}
		if err := a.library.AddToCookbook(ctx, parts[1], parts[2]); err != nil {
			a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
			return
		}
		a.ui.PrintHint(fmt.Sprintf("Added %s to cookbook %s.", parts[2], parts[1]))

	case strings.HasPrefix(arg, "remove "):
		parts := strings.Fields(arg)
		if len(parts) != 3 {
			a.ui.PrintHint("Usage: cookbook remove <cookbook-id> <recipe-id>")
			return
		}
		if err := a.library.RemoveFromCookbook(ctx, parts[1], parts[2]); err != nil {
			a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
			return
		}
		a.ui.PrintHint(fmt.Sprintf("Removed %s from cookbook %s.", parts[2], parts[1]))

	default:
		a.ui.PrintHint("Usage: cookbook | cookbook new <name> | cookbook add|remove <cookbook-id> <recipe-id>")
	}
}

func (a *cliApp) plan(ctx context.Context, arg string) {
	// Bare "plan" shows the current week.
	if arg == "" {
		entries, err := a.library.WeekPlan(ctx, time.Now())
		if err != nil {
			a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
			return
		}
		a.ui.PrintHeader("This week:")
		if len(entries) == 0 {
			a.ui.PrintHint("  (no meals planned — 'plan <yyyy-mm-dd> <recipe-id>')")
			return
		}
		for _, e := range entries {
			line := fmt.Sprintf("%s — %s", e.Date.Format("Mon Jan 2"), e.RecipeID)
			if e.Note != "" {
				line += " (" + e.Note + ")"
			}
			a.ui.PrintBody(line)
		}
		return
	}

	parts := strings.Fields(arg)
	if len(parts) < 2 {
		a.ui.PrintHint("Usage: plan <yyyy-mm-dd> <recipe-id> [note]")
		return
	}
	date, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		a.ui.PrintHint("Dates look like 2026-08-24.")
		return
	}
	note := strings.Join(parts[2:], " ")

	entry, err := a.library.PlanMeal(ctx, date, parts[1], note)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.ui.PrintHint(fmt.Sprintf("Planned %s for %s.", entry.RecipeID, entry.Date.Format("Mon Jan 2")))
}

func (a *cliApp) copyRecipe(ctx context.Context, id string) {
	if id == "" {
		id = a.lastRecipe
	}
	if id == "" {
		a.ui.PrintHint("Usage: copy <recipe-id>")
		return
	}
	r, err := a.library.Recipe(ctx, id)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}

	if err := clipboard.WriteAll(FormatRecipe(r)); err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Could not copy to clipboard: %v", err))
		return
	}
	a.ui.PrintHint(fmt.Sprintf("Copied %q to the clipboard.", r.Name))
}

// ── Session status, help, quit ───────────────────────────────────

func (a *cliApp) status() {
	if a.session == nil {
		a.ui.PrintHint("No recording session. 'record' to start one.")
		return
	}

	phase := a.session.Phase()
	a.ui.PrintHeader("Recording session:")
	a.ui.PrintBody(fmt.Sprintf("Phase:   %s", phase))
	a.ui.PrintBody(fmt.Sprintf("Elapsed: %s", display.FormatElapsed(a.session.Elapsed())))
	switch a.session.Permission() {
	case domain.PermissionGranted:
		a.ui.PrintBody("Mic:     granted")
	case domain.PermissionDenied:
		a.ui.PrintUrgent("Mic:     denied")
	default:
		a.ui.PrintHint("Mic:     not requested")
	}
	if a.lastResult != nil {
		a.ui.PrintHint(fmt.Sprintf("Last take: %s, recorded %s",
			display.FormatElapsed(a.lastResult.Duration), a.lastResult.Timestamp))
	}
}

func (a *cliApp) quit(ctx context.Context) {
	if a.session != nil {
		switch a.session.Phase() {
		case domain.PhaseRecording, domain.PhasePaused:
			// Finish the take so the artifact isn't lost.
			a.session.Stop()
		}
		a.session.Close()
		a.session = nil
	}
	a.notifier.Notify(ctx, "Tape's in the library. See you at dinner.")
	time.Sleep(100 * time.Millisecond)
	a.ui.Quit()
}

func (a *cliApp) shutdown() {
	if a.session != nil {
		a.session.Close()
	}
	if a.speaker != nil {
		a.speaker.Stop()
	}
}

func (a *cliApp) showHelp() {
	a.ui.PrintHeader("Recording:")
	a.ui.PrintBody("  record / rec       Start taping a cooking session")
	a.ui.PrintBody("  pause / hold       Pause the tape (elapsed time freezes)")
	a.ui.PrintBody("  resume / back      Keep taping onto the same take")
	a.ui.PrintBody("  stop / cut         Finish and file a draft recipe")
	a.ui.PrintBody("  play / listen      Play back the last take")
	a.ui.Println("")
	a.ui.PrintHeader("Library:")
	a.ui.PrintBody("  list / recipes     Show the recipe library")
	a.ui.PrintBody("  show <id>          Show a recipe in full")
	a.ui.PrintBody("  search <text>      Search names, descriptions, and tags")
	a.ui.PrintBody("  like / unlike <id> Like or unlike a recipe")
	a.ui.PrintBody("  save <id> / saved  Shelve a recipe / list your shelf")
	a.ui.PrintBody("  comment <id> <..>  Leave a comment")
	a.ui.PrintBody("  delete <id>        Delete a recipe and its comments/likes")
	a.ui.PrintBody("  cookbook ...       cookbook | cookbook new <name> | cookbook add|remove <cb> <id>")
	a.ui.PrintBody("  plan ...           plan | plan <yyyy-mm-dd> <id> [note]")
	a.ui.PrintBody("  copy [id]          Copy a recipe to the clipboard")
	a.ui.Println("")
	a.ui.PrintBody("  status             Show the recording session state")
	a.ui.PrintBody("  quit / exit        Stop any recording and leave")
}

// ── Formatting helpers ───────────────────────────────────────────

// FormatRecipe renders a recipe as plain text for the clipboard.
func FormatRecipe(r *domain.Recipe) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", r.Name)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n", r.Description)
	}
	fmt.Fprintf(&b, "by %s", r.Author)
	if r.Servings > 0 {
		fmt.Fprintf(&b, ", serves %d", r.Servings)
	}
	b.WriteString("\n")

	if len(r.Ingredients) > 0 {
		b.WriteString("\nIngredients:\n")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(&b, "- %s\n", formatIngredient(ing))
		}
	}

	if len(r.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, st := range r.Steps {
			fmt.Fprintf(&b, "%d. %s\n", st.Order, st.Instruction)
		}
	}

	if len(r.Tags) > 0 {
		fmt.Fprintf(&b, "\nTags: %s\n", strings.Join(r.Tags, ", "))
	}
	return b.String()
}

func formatIngredient(ing domain.Ingredient) string {
	opt := ""
	if ing.Optional {
		opt = " (optional)"
	}
	if ing.Quantity > 0 {
		if ing.Unit != "" {
			return fmt.Sprintf("%g %s %s%s", ing.Quantity, ing.Unit, ing.Name, opt)
		}
		return fmt.Sprintf("%g %s%s", ing.Quantity, ing.Name, opt)
	}
	return ing.Name + opt
}

// splitVerb separates a "verb argument" payload.
func splitVerb(payload string) (verb, arg string) {
	parts := strings.SplitN(payload, " ", 2)
	verb = parts[0]
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return verb, arg
}
