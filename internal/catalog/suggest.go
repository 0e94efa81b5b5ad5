package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to input by edit distance, if any
// candidate is close enough to be a plausible typo. Exact matches win.
func Suggest(input string, candidates []string) (string, bool) {
	in := strings.ToUpper(strings.TrimSpace(input))
	if in == "" || len(candidates) == 0 {
		return "", false
	}

	type scored struct {
		value string
		dist  int
	}
	var hits []scored
	for _, c := range candidates {
		cmp := strings.ToUpper(c)
		if cmp == in {
			return c, true
		}
		dist := levenshtein.ComputeDistance(in, cmp)
		if dist > distanceLimit(len(cmp)) {
			continue
		}
		hits = append(hits, scored{value: c, dist: dist})
	}
	if len(hits) == 0 {
		return "", false
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist == hits[j].dist {
			return hits[i].value < hits[j].value
		}
		return hits[i].dist < hits[j].dist
	})
	return hits[0].value, true
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
