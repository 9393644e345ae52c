package storage

import "strings"

// Tag paths are stored as a single delimited string with at most two
// segments: "group" or "group,subgroup". These helpers are the only
// place that encoding is parsed or produced.

// JoinTags encodes a group and optional subgroup into a tag path.
func JoinTags(group, subgroup string) string {
	if subgroup != "" {
		return group + "," + subgroup
	}
	return group
}

// SplitTags decodes a tag path into its group and subgroup. Either may
// be empty; surrounding whitespace in segments is dropped.
func SplitTags(tags string) (group, subgroup string) {
	var parts []string
	for _, p := range strings.Split(tags, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		group = parts[0]
	}
	if len(parts) > 1 {
		subgroup = parts[1]
	}
	return group, subgroup
}
