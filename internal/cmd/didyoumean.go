package cmd

import "strings"

// levenshtein is the edit distance between a and b, computed over bytes.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) < len(b) {
		a, b = b, a
	}
	if b == "" {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			sub := prev[j-1]
			if a[i-1] != b[j-1] {
				sub++
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, sub)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// maxSuggestDistance grows with the input so short typos such as "inv" do
// not match everything.
func maxSuggestDistance(input string) int {
	switch n := len(input); {
	case n <= 3:
		return 1
	case n <= 6:
		return 2
	default:
		return 3
	}
}

// closest returns the candidate nearest to input, compared case-insensitively
// after key is applied to both sides. Ties keep the first candidate.
func closest(input string, candidates []string, key func(string) string) string {
	input = strings.ToLower(key(input))
	if input == "" {
		return ""
	}
	best, bestDist := "", maxSuggestDistance(input)+1
	for _, c := range candidates {
		if d := levenshtein(input, strings.ToLower(key(c))); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func identity(s string) string { return s }

// suggestCommand finds the command or alias closest to unknown.
func suggestCommand(unknown string, commands []string) string {
	return closest(unknown, commands, identity)
}

// suggestFlag finds the flag closest to unknown, ignoring leading dashes.
// The match is returned with its own prefix.
func suggestFlag(unknown string, flags []string) string {
	return closest(unknown, flags, func(s string) string { return strings.TrimLeft(s, "-") })
}

// suggestValue finds the enum value closest to input.
func suggestValue(input string, valid []string) string {
	return closest(input, valid, identity)
}
