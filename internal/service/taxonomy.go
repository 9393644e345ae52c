package service

import (
	"context"

	"digitalbrain/internal/ai"
	"digitalbrain/internal/storage"
)

// BuildTaxonomy snapshots the processed entries into the group tree the
// classifier receives as context. Groups and subgroups appear in
// first-seen order; ideas are deduplicated within their level.
func (s *NoteService) BuildTaxonomy(ctx context.Context) ([]ai.Group, error) {
	entries, err := s.entries.ListByStatus(ctx, storage.StatusProcessed)
	if err != nil {
		return nil, WrapError(err, "failed to list processed entries")
	}

	groups := make([]ai.Group, 0)
	groupIdx := make(map[string]int)

	for _, e := range entries {
		groupName, subgroupName := storage.SplitTags(e.Tags)
		if groupName == "" {
			continue
		}
		idea := e.Summary
		if idea == "" {
			idea = e.Content
		}

		gi, ok := groupIdx[groupName]
		if !ok {
			gi = len(groups)
			groupIdx[groupName] = gi
			groups = append(groups, ai.Group{Name: groupName})
		}
		g := &groups[gi]

		if subgroupName == "" {
			g.Ideas = appendIdea(g.Ideas, idea)
			continue
		}

		var sg *ai.Subgroup
		for i := range g.Subgroups {
			if g.Subgroups[i].Name == subgroupName {
				sg = &g.Subgroups[i]
				break
			}
		}
		if sg == nil {
			g.Subgroups = append(g.Subgroups, ai.Subgroup{Name: subgroupName})
			sg = &g.Subgroups[len(g.Subgroups)-1]
		}
		sg.Ideas = appendIdea(sg.Ideas, idea)
	}

	return groups, nil
}

func appendIdea(ideas []string, idea string) []string {
	for _, existing := range ideas {
		if existing == idea {
			return ideas
		}
	}
	return append(ideas, idea)
}
