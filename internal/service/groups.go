package service

import (
	"context"
	"strings"

	"digitalbrain/internal/storage"
)

// DeleteGroup discards every processed entry whose tag path starts at
// the named group. The rows stay in the store with status discarded;
// only the explicit delete action and reminder firing remove rows.
// It returns the number of discarded entries.
func (s *NoteService) DeleteGroup(ctx context.Context, group string) (int, error) {
	if strings.TrimSpace(group) == "" {
		return 0, &ValidationError{Field: "group", Message: "cannot be empty"}
	}
	return s.discardWhere(ctx, func(g, sg string) bool {
		return g == group
	})
}

// DeleteSubgroup discards every processed entry under the exact
// (group, subgroup) path.
func (s *NoteService) DeleteSubgroup(ctx context.Context, group, subgroup string) (int, error) {
	if strings.TrimSpace(group) == "" || strings.TrimSpace(subgroup) == "" {
		return 0, &ValidationError{Field: "group", Message: "group and subgroup are required"}
	}
	return s.discardWhere(ctx, func(g, sg string) bool {
		return g == group && sg == subgroup
	})
}

func (s *NoteService) discardWhere(ctx context.Context, match func(group, subgroup string) bool) (int, error) {
	entries, err := s.entries.ListByStatus(ctx, storage.StatusProcessed)
	if err != nil {
		return 0, WrapError(err, "failed to list entries")
	}

	discarded := 0
	var ids []string
	for i := range entries {
		e := entries[i]
		g, sg := storage.SplitTags(e.Tags)
		if !match(g, sg) {
			continue
		}
		e.Status = storage.StatusDiscarded
		if err := s.entries.Update(ctx, &e); err != nil {
			return discarded, WrapError(err, "failed to discard entry")
		}
		ids = append(ids, e.ID)
		discarded++
	}
	s.removeFromIndex(ctx, ids)
	return discarded, nil
}

// RenameGroup rewrites the tag path of every processed entry in the
// named group. It returns the number of retagged entries.
func (s *NoteService) RenameGroup(ctx context.Context, oldName, newName string) (int, error) {
	if strings.TrimSpace(oldName) == "" || strings.TrimSpace(newName) == "" {
		return 0, &ValidationError{Field: "group", Message: "old and new names are required"}
	}
	return s.retagWhere(ctx, func(g, sg string) (string, string, bool) {
		if g != oldName {
			return "", "", false
		}
		return newName, sg, true
	})
}

// RenameSubgroup rewrites the subgroup segment for entries under the
// exact (group, oldName) path.
func (s *NoteService) RenameSubgroup(ctx context.Context, group, oldName, newName string) (int, error) {
	if strings.TrimSpace(group) == "" || strings.TrimSpace(oldName) == "" || strings.TrimSpace(newName) == "" {
		return 0, &ValidationError{Field: "subgroup", Message: "group, old and new names are required"}
	}
	return s.retagWhere(ctx, func(g, sg string) (string, string, bool) {
		if g != group || sg != oldName {
			return "", "", false
		}
		return group, newName, true
	})
}

func (s *NoteService) retagWhere(ctx context.Context, retag func(group, subgroup string) (string, string, bool)) (int, error) {
	entries, err := s.entries.ListByStatus(ctx, storage.StatusProcessed)
	if err != nil {
		return 0, WrapError(err, "failed to list entries")
	}

	renamed := 0
	for i := range entries {
		e := entries[i]
		g, sg := storage.SplitTags(e.Tags)
		newGroup, newSubgroup, ok := retag(g, sg)
		if !ok {
			continue
		}
		e.Tags = storage.JoinTags(newGroup, newSubgroup)
		if err := s.entries.Update(ctx, &e); err != nil {
			return renamed, WrapError(err, "failed to retag entry")
		}
		s.indexEntry(ctx, &e)
		renamed++
	}
	return renamed, nil
}

