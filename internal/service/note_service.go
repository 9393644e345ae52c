// Package service reconciles the AI provider's loosely-typed
// classification results into idempotent mutations of the note store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"digitalbrain/internal/ai"
	"digitalbrain/internal/contextutil"
	"digitalbrain/internal/fuzzy"
	"digitalbrain/internal/storage"
	"digitalbrain/internal/temporal"
)

// DefaultCommandVerbs are the imperative verbs that mark an AI summary
// as a command echo rather than content. Configurable via COMMAND_VERBS.
var DefaultCommandVerbs = []string{
	"añade", "anade", "agrega", "crea", "abre",
	"añadir", "anadir", "agregar", "crear", "abrir",
	"pon", "poner", "mete", "meter",
}

// DefaultSummaryThreshold is the idea count a (group, subgroup) pair
// must exceed before summaries are generated.
const DefaultSummaryThreshold = 10

// defaultRemindDelay is applied when a remind result carries no usable
// timestamp.
const defaultRemindDelay = 5 * time.Minute

// Deps holds the collaborators of a NoteService.
type Deps struct {
	Entries   *storage.EntryRepo
	Reminders *storage.ReminderRepo
	Summaries *storage.SummaryRepo
	AI        AIClient
	Exporter  Exporter
	Index     Indexer // Optional; nil disables semantic indexing

	CommandVerbs     []string
	SummaryThreshold int
	Now              func() time.Time
}

// NoteService implements the note reconciliation engine.
type NoteService struct {
	entries   *storage.EntryRepo
	reminders *storage.ReminderRepo
	summaries *storage.SummaryRepo
	ai        AIClient
	exporter  Exporter
	index     Indexer

	verbs     []string
	threshold int
	now       func() time.Time
	logger    *slog.Logger
}

// NewNoteService creates a NoteService, applying defaults for the
// command verb list, summary threshold and clock.
func NewNoteService(deps Deps) *NoteService {
	verbs := deps.CommandVerbs
	if len(verbs) == 0 {
		verbs = DefaultCommandVerbs
	}
	threshold := deps.SummaryThreshold
	if threshold <= 0 {
		threshold = DefaultSummaryThreshold
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &NoteService{
		entries:   deps.Entries,
		reminders: deps.Reminders,
		summaries: deps.Summaries,
		ai:        deps.AI,
		exporter:  deps.Exporter,
		index:     deps.Index,
		verbs:     verbs,
		threshold: threshold,
		now:       now,
		logger:    slog.Default(),
	}
}

// SubmitNote classifies a note and applies every resulting action to
// the store. It returns one outcome per classification result, in the
// provider's order, plus a synthesized reminder outcome when the note
// carries a time reference no result turned into a reminder.
//
// When the provider is unreachable the note is stored raw and a single
// ai-skipped add outcome is returned.
func (s *NoteService) SubmitNote(ctx context.Context, content, origin, lang string) ([]Outcome, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(content) == "" {
		return nil, &ValidationError{Field: "content", Message: "cannot be empty"}
	}
	if origin == "" {
		origin = "manual"
	}
	if lang == "" {
		lang = "es"
	}

	taxonomy, err := s.BuildTaxonomy(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to build taxonomy snapshot")
	}

	results, err := s.ai.Classify(ctx, content, taxonomy, lang)
	if err != nil {
		// Any classification failure degrades to storing the raw note.
		logger.WarnContext(ctx, "classification unavailable, storing raw note", "error", err)
		entry, err := s.storeRawNote(ctx, content, origin)
		if err != nil {
			return nil, err
		}
		return []Outcome{{Action: ActionAdd, Entry: entry, AISkipped: true}}, nil
	}

	outcomes := make([]Outcome, 0, len(results))
	for _, result := range results {
		outcome, err := s.processResult(ctx, result, content, origin)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}

	if auto := s.maybeAutoRemind(ctx, content, outcomes); auto != nil {
		outcomes = append(outcomes, *auto)
	}

	return outcomes, nil
}

// storeRawNote persists an unclassified note, recovering the existing
// entry on a content collision.
func (s *NoteService) storeRawNote(ctx context.Context, content, origin string) (*storage.Entry, error) {
	entry := &storage.Entry{
		Content: content,
		Origin:  origin,
		Type:    ClassifyContent(content),
	}
	err := s.entries.Insert(ctx, entry)
	if errors.Is(err, storage.ErrDuplicateContent) {
		return s.entries.GetByContent(ctx, content)
	}
	if err != nil {
		return nil, WrapError(err, "failed to store raw note")
	}
	return entry, nil
}

// processResult dispatches one classification result to its action
// handler. Unknown actions are coerced to add.
func (s *NoteService) processResult(ctx context.Context, result ai.Result, noteContent, origin string) (Outcome, error) {
	if !result.MakesSense {
		return Outcome{Action: ActionIgnored}, nil
	}

	switch result.Action {
	case ai.ActionDelete:
		return s.deleteMatching(ctx, result)
	case ai.ActionRemind:
		return s.createReminder(ctx, result, noteContent)
	default:
		return s.addEntry(ctx, result, noteContent, origin)
	}
}

// deleteMatching removes every processed entry matching the result's
// (group, subgroup, idea) pattern, empty fields acting as wildcards.
func (s *NoteService) deleteMatching(ctx context.Context, result ai.Result) (Outcome, error) {
	logger := contextutil.LoggerFromContext(ctx)

	matches, err := s.FindMatches(ctx, result.Group, result.Subgroup, result.Idea)
	if err != nil {
		return Outcome{}, WrapError(err, "failed to resolve delete pattern")
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		if err := s.entries.Delete(ctx, m.ID); err != nil {
			return Outcome{}, WrapError(err, "failed to delete entry")
		}
		ids = append(ids, m.ID)
	}
	s.removeFromIndex(ctx, ids)

	outcome := Outcome{
		Action:       ActionDelete,
		Group:        result.Group,
		Subgroup:     result.Subgroup,
		Idea:         result.Idea,
		DeletedCount: len(matches),
	}
	if len(matches) > 0 {
		first := matches[0]
		outcome.Entry = &first
	}
	logger.InfoContext(ctx, "delete intent applied", "deleted", len(matches), "group", result.Group)
	return outcome, nil
}

// createReminder stores a reminder for a remind result. A missing or
// malformed remind_at falls back to a short delay, never an error.
func (s *NoteService) createReminder(ctx context.Context, result ai.Result, noteContent string) (Outcome, error) {
	fireAt := s.parseRemindAt(ctx, result.RemindAt)

	message := result.Idea
	if message == "" {
		message = noteContent
	}

	reminder := &storage.Reminder{Message: message, FireAt: fireAt}
	if err := s.reminders.Insert(ctx, reminder); err != nil {
		return Outcome{}, WrapError(err, "failed to create reminder")
	}

	return Outcome{
		Action:   ActionRemind,
		Group:    "recordatorios",
		Idea:     message,
		RemindAt: &fireAt,
	}, nil
}

// remindAtFormats are the timestamp layouts the provider has been seen
// emitting for remind_at.
var remindAtFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (s *NoteService) parseRemindAt(ctx context.Context, raw string) time.Time {
	if raw != "" {
		for _, layout := range remindAtFormats {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "malformed remind_at, using default delay", "remind_at", raw)
	}
	return s.now().Add(defaultRemindDelay)
}

// addEntry runs the add pipeline: normalize the result into entry
// fields, drop echo summaries, dedup against existing entries, insert,
// export, and fire the summarize trigger.
func (s *NoteService) addEntry(ctx context.Context, result ai.Result, noteContent, origin string) (Outcome, error) {
	logger := contextutil.LoggerFromContext(ctx)

	summary := temporal.FixTimeColons(result.Idea)
	tags := storage.JoinTags(result.Group, result.Subgroup)

	sourceURL := result.URL
	if sourceURL == "" {
		sourceURL = FirstURL(noteContent)
	}

	// A summary identical to the note adds nothing; one that starts
	// with a command verb is the instruction, not the idea.
	if summary != "" && fuzzy.Normalize(summary) == fuzzy.Normalize(noteContent) {
		summary = ""
	}
	if summary != "" && s.startsWithCommandVerb(summary) {
		summary = ""
	}

	// Dedup guard: a fuzzily-equivalent idea under the same tag path
	// makes the add idempotent. Entries without a summary only collide
	// on exact content.
	if summary != "" {
		existing, err := s.entries.ListByStatusAndTags(ctx, storage.StatusProcessed, tags)
		if err != nil {
			return Outcome{}, WrapError(err, "failed to query duplicates")
		}
		for _, dup := range existing {
			if fuzzy.Similar(dup.Summary, summary) {
				dupCopy := dup
				logger.InfoContext(ctx, "duplicate idea, returning existing entry", "entry_id", dup.ID, "tags", tags)
				return Outcome{
					Action:   ActionAdd,
					Entry:    &dupCopy,
					Group:    result.Group,
					Subgroup: result.Subgroup,
					Idea:     summary,
				}, nil
			}
		}
	}

	content := summary
	if content == "" {
		content = noteContent
	}

	entry := &storage.Entry{
		Content:   content,
		Origin:    origin,
		Type:      ClassifyContent(noteContent),
		Summary:   summary,
		Tags:      tags,
		SourceURL: sourceURL,
	}
	err := s.entries.Insert(ctx, entry)
	if errors.Is(err, storage.ErrDuplicateContent) {
		recovered, getErr := s.entries.GetByContent(ctx, content)
		if getErr != nil {
			return Outcome{}, WrapError(err, "failed to recover conflicting entry")
		}
		return Outcome{
			Action:   ActionAdd,
			Entry:    recovered,
			Group:    result.Group,
			Subgroup: result.Subgroup,
			Idea:     summary,
		}, nil
	}
	if err != nil {
		return Outcome{}, WrapError(err, "failed to insert entry")
	}

	s.exportEntry(ctx, entry)

	if result.Group != "" {
		if err := s.maybeAutoSummarize(ctx, result.Group, result.Subgroup); err != nil {
			// Summarization is a side effect; it never aborts the add.
			logger.WarnContext(ctx, "auto-summarize failed", "group", result.Group, "error", err)
		}
	}

	return Outcome{
		Action:   ActionAdd,
		Entry:    entry,
		Group:    result.Group,
		Subgroup: result.Subgroup,
		Idea:     summary,
	}, nil
}

// exportEntry attempts the markdown export and marks the entry
// processed on success. Export failure leaves the entry pending.
func (s *NoteService) exportEntry(ctx context.Context, entry *storage.Entry) {
	logger := contextutil.LoggerFromContext(ctx)

	dest, err := s.exporter.Export(ctx, entry)
	if err != nil {
		logger.WarnContext(ctx, "export failed, entry stays pending", "entry_id", entry.ID, "error", err)
		return
	}

	processedAt := s.now().UTC()
	entry.Destination = dest
	entry.Status = storage.StatusProcessed
	entry.ProcessedAt = &processedAt
	if err := s.entries.Update(ctx, entry); err != nil {
		logger.ErrorContext(ctx, "failed to mark entry processed", "entry_id", entry.ID, "error", err)
		return
	}

	s.indexEntry(ctx, entry)
}

func (s *NoteService) indexEntry(ctx context.Context, entry *storage.Entry) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexEntry(ctx, entry); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "semantic indexing failed", "entry_id", entry.ID, "error", err)
	}
}

func (s *NoteService) removeFromIndex(ctx context.Context, ids []string) {
	if s.index == nil || len(ids) == 0 {
		return
	}
	if err := s.index.RemoveEntries(ctx, ids); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "semantic index cleanup failed", "count", len(ids), "error", err)
	}
}

func (s *NoteService) startsWithCommandVerb(summary string) bool {
	first := strings.ToLower(strings.TrimSpace(summary))
	if i := strings.IndexAny(first, " \t"); i >= 0 {
		first = first[:i]
	}
	for _, verb := range s.verbs {
		if first == verb {
			return true
		}
	}
	return false
}

// FindMatches returns all processed entries matching a (group,
// subgroup, idea) pattern. Empty pattern fields are wildcards; supplied
// fields must be fuzzily similar to the entry's parsed tag path and its
// summary-or-content idea.
func (s *NoteService) FindMatches(ctx context.Context, group, subgroup, idea string) ([]storage.Entry, error) {
	candidates, err := s.entries.ListByStatus(ctx, storage.StatusProcessed)
	if err != nil {
		return nil, err
	}

	var matches []storage.Entry
	for _, e := range candidates {
		entryGroup, entrySubgroup := storage.SplitTags(e.Tags)
		entryIdea := e.Summary
		if entryIdea == "" {
			entryIdea = e.Content
		}

		groupOK := group == "" || fuzzy.Similar(entryGroup, group)
		subgroupOK := subgroup == "" || fuzzy.Similar(entrySubgroup, subgroup)
		ideaOK := idea == "" || fuzzy.Similar(entryIdea, idea)

		if groupOK && subgroupOK && ideaOK {
			matches = append(matches, e)
		}
	}
	return matches, nil
}
