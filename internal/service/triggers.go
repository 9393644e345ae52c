package service

import (
	"context"

	"digitalbrain/internal/contextutil"
	"digitalbrain/internal/storage"
	"digitalbrain/internal/temporal"
)

// maybeAutoSummarize regenerates the summary for a (group, subgroup)
// pair once its idea count passes the threshold. Called after every
// successful add, so the stored summary follows the group as it grows.
func (s *NoteService) maybeAutoSummarize(ctx context.Context, group, subgroup string) error {
	entries, err := s.entries.ListByStatusAndTags(ctx, storage.StatusProcessed, storage.JoinTags(group, subgroup))
	if err != nil {
		return err
	}

	// Only entries with a real summary count toward the threshold.
	ideas := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Summary != "" {
			ideas = append(ideas, e.Summary)
		}
	}
	if len(ideas) <= s.threshold {
		return nil
	}

	summary, err := s.ai.Summarize(ctx, group, subgroup, ideas)
	if err != nil {
		return err
	}

	return s.summaries.Upsert(ctx, group, subgroup, summary)
}

// maybeAutoRemind turns a note with a time reference into a reminder
// when the classifier added content but produced no remind result
// itself. It needs an add outcome with a non-empty idea for the
// message; otherwise it does nothing. The reminder links to the added
// entry so that firing it can also retire the note.
func (s *NoteService) maybeAutoRemind(ctx context.Context, noteContent string, outcomes []Outcome) *Outcome {
	hasAdd := false
	hasRemind := false
	for _, o := range outcomes {
		switch o.Action {
		case ActionAdd:
			hasAdd = true
		case ActionRemind:
			hasRemind = true
		}
	}
	if !hasAdd || hasRemind {
		return nil
	}

	fireAt, ok := temporal.ExtractFireTime(noteContent, s.now())
	if !ok {
		return nil
	}

	// The reminder message comes from an added idea. Without one the
	// trigger stays silent.
	var message, entryID string
	for _, o := range outcomes {
		if o.Action == ActionAdd && o.Entry != nil && o.Idea != "" {
			message = o.Idea
			entryID = o.Entry.ID
			break
		}
	}
	if message == "" {
		return nil
	}

	reminder := &storage.Reminder{
		Message: message,
		FireAt:  fireAt,
		EntryID: entryID,
	}
	if err := s.reminders.Insert(ctx, reminder); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "auto-reminder creation failed", "error", err)
		return nil
	}

	return &Outcome{
		Action:   ActionRemind,
		Group:    "recordatorios",
		Idea:     message,
		RemindAt: &fireAt,
	}
}
