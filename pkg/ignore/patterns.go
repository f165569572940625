package ignore

import (
	"regexp"
	"strings"
)

// Placeholders keep the double-star rewrites out of reach of the single-star rewrite.
const (
	middleToken   = "\x00m\x00"
	trailingToken = "\x00t\x00"
	leadingToken  = "\x00l\x00"
)

// Precompiled regular expressions used in pattern parsing.
var (
	doubleStarMiddlePattern   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailingPattern = regexp.MustCompile(`/\*\*$`)
	doubleStarLeadingPattern  = regexp.MustCompile(`^\*\*/`)
)

// compilePattern converts one gitignore-style pattern to an anchored regex
// matched against slash-separated relative paths. Directory paths carry a
// trailing slash.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	rooted := strings.HasPrefix(pattern, "/")
	body := strings.TrimPrefix(pattern, "/")

	body = escapeSpecialChars(body)
	body = markDoubleStars(body)
	body = wildcardToRegex(body)
	body = expandDoubleStars(body)
	body = anchorPattern(body, pattern, rooted)

	return regexp.Compile(body)
}

// escapeSpecialChars escapes regex special characters except for '*', '?', and '/'.
func escapeSpecialChars(pattern string) string {
	specialChars := `\.+()|^$[]{}`
	for _, char := range specialChars {
		pattern = strings.ReplaceAll(pattern, string(char), `\`+string(char))
	}
	return pattern
}

func markDoubleStars(pattern string) string {
	pattern = doubleStarMiddlePattern.ReplaceAllString(pattern, middleToken)
	pattern = doubleStarTrailingPattern.ReplaceAllString(pattern, trailingToken)
	pattern = doubleStarLeadingPattern.ReplaceAllString(pattern, leadingToken)
	return pattern
}

func expandDoubleStars(pattern string) string {
	pattern = strings.ReplaceAll(pattern, middleToken, `(/|/.+/)`)
	pattern = strings.ReplaceAll(pattern, trailingToken, `(/.*)?`)
	pattern = strings.ReplaceAll(pattern, leadingToken, `(.*/)?`)
	return pattern
}

// wildcardToRegex converts '*' and '?' wildcards to regex equivalents.
func wildcardToRegex(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "*", `[^/]*`)
	return strings.ReplaceAll(pattern, "?", `[^/]`)
}

// anchorPattern anchors the regex to the full path. A pattern without a
// leading slash may match at any depth; a trailing slash limits it to
// directories and everything below them.
func anchorPattern(pattern, original string, rooted bool) string {
	if strings.HasSuffix(original, "/") {
		pattern += "(.*)$"
	} else {
		pattern += "(/.*)?$"
	}

	if rooted {
		return "^" + pattern
	}
	return "^(|.*/)" + pattern
}
