package news

import (
	"unicode"

	"gitlab.com/golang-commonmark/markdown"
	"golang.org/x/text/unicode/norm"
)

// Raw HTML in article bodies is escaped, not passed through.
var md = markdown.New(
	markdown.HTML(false),
	markdown.Tables(true),
	markdown.Typographer(true),
	markdown.Nofollow(true),
)

// RenderMarkdown converts article markdown to HTML.
func RenderMarkdown(src string) string {
	return md.RenderToString([]byte(src))
}

var slugSkip = []*unicode.RangeTable{
	unicode.Mark,
	unicode.Sk,
	unicode.Lm,
}

// Slugify lowercases text, drops accents and joins the remaining words with dashes.
// Characters outside ASCII letters and digits separate words.
func Slugify(text string) string {
	buf := make([]rune, 0, len(text))
	dash := false
	for _, r := range norm.NFKD.String(text) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			buf = append(buf, unicode.ToLower(r))
			dash = true
		case unicode.IsOneOf(slugSkip, r):
		case dash:
			buf = append(buf, '-')
			dash = false
		}
	}
	if i := len(buf) - 1; i >= 0 && buf[i] == '-' {
		buf = buf[:i]
	}
	return string(buf)
}
