package extract

import (
	"regexp"
	"strconv"
)

var likePatterns = []pattern{
	{"like_count", regexp.MustCompile(`"like_count"\s*:\s*(\d+)`)},
	{"likeCount", regexp.MustCompile(`"likeCount"\s*:\s*(\d+)`)},
	{"likes.count", regexp.MustCompile(`"likes"\s*:\s*\{\s*"count"\s*:\s*(\d+)`)},
	{"meta", regexp.MustCompile(`(?i)meta\s+(?:property|name)="[^"]*like[^"]*"\s+content="(\d+)"`)},
}

// LikeCount returns the first positive like count found in html.
//
// Patterns are tried in priority order. A capture that does not parse, or
// parses to zero, does not end the search: the next pattern is tried.
func LikeCount(html string) (int, bool) {
	n, _, ok := likeCount(html)
	return n, ok
}

func likeCount(html string) (int, string, bool) {
	for _, p := range likePatterns {
		m := p.re.FindStringSubmatch(html)
		if len(m) < 2 || m[1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		return n, p.name, true
	}
	return 0, "", false
}
