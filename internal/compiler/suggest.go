package compiler

import (
	"sort"

	"github.com/xyproto/inc/internal/rt"
)

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}
	prev := make([]int, len(s2)+1)
	cur := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(s1); i++ {
		cur[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(s2)]
}

// knownNames lists everything an application may name
func knownNames() []string {
	names := []string{"cons", "vector"}
	for _, p := range primitives {
		names = append(names, p.name)
	}
	return append(names, rt.Names()...)
}

// suggest finds known names within a small edit distance of name, closest first
func suggest(name string, maxSuggestions int) []string {
	type suggestion struct {
		name     string
		distance int
	}

	// Short names like + and < are too close to everything
	threshold := min(3, len(name)/2)

	var suggestions []suggestion
	for _, known := range knownNames() {
		dist := levenshteinDistance(name, known)
		if dist <= threshold && dist > 0 {
			suggestions = append(suggestions, suggestion{known, dist})
		}
	}
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].distance == suggestions[j].distance {
			return suggestions[i].name < suggestions[j].name
		}
		return suggestions[i].distance < suggestions[j].distance
	})

	result := make([]string, 0, maxSuggestions)
	for i := 0; i < len(suggestions) && i < maxSuggestions; i++ {
		result = append(result, suggestions[i].name)
	}
	return result
}
