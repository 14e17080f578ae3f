package converter

import (
	"regexp"
	"strings"
	"unicode"
)

// Inline span rules, applied in order on a single line that is known not to be
// inside a fenced code block. Bold (**text**) and strikethrough (~~text~~) are
// already valid Markdown and act as fixed points. Malformed or unterminated
// delimiters are left verbatim.
type spanRule struct {
	name  string
	apply func(string) string
}

var spanRules = []spanRule{
	{"italic", rewriteItalic},
	{"highlight", rewriteHighlight},
	{"superscript", rewriteSuperscript},
	{"subscript", rewriteSubscript},
	{"tag", rewriteTags},
}

var (
	inlineCodeRe  = regexp.MustCompile(`''(.+?)''`)
	italicRe      = regexp.MustCompile(`//(.+?)//`)
	highlightRe   = regexp.MustCompile(`__(.+?)__`)
	superscriptRe = regexp.MustCompile(`([A-Za-z0-9])\^\{(.+?)\}`)
	subscriptRe   = regexp.MustCompile(`([A-Za-z0-9])_\{(.+?)\}`)
)

// transformSpans rewrites all recognized inline spans on one line. Inline code
// spans are masked out first so their content is never touched by later rules.
func transformSpans(line string) string {
	masked, codes := maskInlineCode(line)
	for _, rule := range spanRules {
		masked = rule.apply(masked)
	}
	return unmaskInlineCode(masked, codes)
}

// Code span contents are replaced by single private-use runes so the other
// rules cannot match inside them.
const codeMaskBase = 0xE000

func maskInlineCode(line string) (string, []string) {
	if !strings.Contains(line, "''") {
		return line, nil
	}
	var codes []string
	masked := inlineCodeRe.ReplaceAllStringFunc(line, func(m string) string {
		codes = append(codes, m[2:len(m)-2])
		return string(rune(codeMaskBase + len(codes) - 1))
	})
	return masked, codes
}

func unmaskInlineCode(line string, codes []string) string {
	for i, code := range codes {
		line = strings.Replace(line, string(rune(codeMaskBase+i)), "`"+code+"`", 1)
	}
	return line
}

// rewriteItalic converts //text// to *text*. Matches whose opening delimiter
// follows a colon, or whose content ends in a colon, are URL scheme
// separators (http://...) and stay untouched.
func rewriteItalic(line string) string {
	matches := italicRe.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return line
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		inner := line[m[2]:m[3]]
		if (start > 0 && line[start-1] == ':') || strings.HasSuffix(inner, ":") {
			continue
		}
		b.WriteString(line[last:start])
		b.WriteString("*" + inner + "*")
		last = end
	}
	b.WriteString(line[last:])
	return b.String()
}

func rewriteHighlight(line string) string {
	return highlightRe.ReplaceAllString(line, "==$1==")
}

func rewriteSuperscript(line string) string {
	return superscriptRe.ReplaceAllString(line, "$1<sup>$2</sup>")
}

func rewriteSubscript(line string) string {
	return subscriptRe.ReplaceAllString(line, "$1<sub>$2</sub>")
}

// rewriteTags converts @tag to #tag. A tag must start the line or follow
// whitespace and must end at whitespace or line end, so addresses like
// user@example.com are left alone.
func rewriteTags(line string) string {
	if !strings.Contains(line, "@") {
		return line
	}
	runes := []rune(line)
	var b strings.Builder
	for i := 0; i < len(runes); {
		if runes[i] == '@' && (i == 0 || unicode.IsSpace(runes[i-1])) {
			j := i + 1
			for j < len(runes) && isTagRune(runes[j]) {
				j++
			}
			if j > i+1 && (j == len(runes) || unicode.IsSpace(runes[j])) {
				b.WriteByte('#')
				b.WriteString(string(runes[i+1 : j]))
				i = j
				continue
			}
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
