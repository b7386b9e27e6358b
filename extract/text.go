package extract

import (
	"regexp"
	"strings"
)

var textPatterns = []pattern{
	{"text.text", regexp.MustCompile(`"text"\s*:\s*\{"text"\s*:\s*"([^"]+)"`)},
	{"caption.text", regexp.MustCompile(`"caption"\s*:\s*\{\s*"text"\s*:\s*"([^"]+)"`)},
}

// PostText returns the unescaped caption of the post, if any pattern matches.
func PostText(html string) (string, bool) {
	s, _, ok := postText(html)
	return s, ok
}

func postText(html string) (string, string, bool) {
	for _, p := range textPatterns {
		m := p.re.FindStringSubmatch(html)
		if len(m) < 2 || m[1] == "" {
			continue
		}
		return Unescape(m[1]), p.name, true
	}
	return "", "", false
}

// Unescape converts the literal sequences \n, \" and \\ to their characters,
// in that order. Other escapes (\uXXXX, \t, ...) are left untouched.
func Unescape(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}
