package imui

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// filterItems returns the indices of items matching query, in their
// original order. Fuzzy matches win; when there are none a plain substring
// match is tried.
func filterItems(items []string, query string) []int {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		all := make([]int, len(items))
		for i := range items {
			all[i] = i
		}
		return all
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, items)
	if len(ranks) > 0 {
		matched := make(map[int]struct{}, len(ranks))
		for _, rank := range ranks {
			matched[rank.OriginalIndex] = struct{}{}
		}
		filtered := make([]int, 0, len(matched))
		for i := range items {
			if _, ok := matched[i]; ok {
				filtered = append(filtered, i)
			}
		}
		return filtered
	}
	lower := strings.ToLower(trimmed)
	var filtered []int
	for i, item := range items {
		if strings.Contains(strings.ToLower(item), lower) {
			filtered = append(filtered, i)
		}
	}
	return filtered
}
