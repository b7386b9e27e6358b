// Package extract pulls the like count and post text out of a Threads post
// page. The page embeds its data as JSON inside <script> tags and the field
// names drift between deployments, so each value is located by an ordered
// list of named regular-expression patterns: the first usable match wins.
package extract

import (
	"log/slog"
	"regexp"
)

// pattern is one named fallback rule. The first capture group holds the value.
type pattern struct {
	name string
	re   *regexp.Regexp
}

// Result carries the independently optional outputs of Extract.
type Result struct {
	Likes    *int
	PostText *string

	// LikesPattern and TextPattern name the rule that matched, empty when
	// nothing did.
	LikesPattern string
	TextPattern  string
}

// Extract runs like-count and post-text extraction over the same page.
// Neither result depends on the other.
func Extract(html string) Result {
	var res Result

	if n, name, ok := likeCount(html); ok {
		res.Likes = &n
		res.LikesPattern = name
		slog.Debug("like count matched", "pattern", name, "likes", n)
	} else {
		slog.Warn("no like count pattern matched", "htmlLength", HTMLLength(html))
	}

	if s, name, ok := postText(html); ok {
		res.PostText = &s
		res.TextPattern = name
		slog.Debug("post text matched", "pattern", name)
	} else {
		slog.Debug("no post text pattern matched")
	}

	return res
}
