package converter

import (
	"regexp"
	"strings"
)

// lineState is the per-page scan state threaded through the line classifier.
type lineState struct {
	codeOpen bool
	codeLang string
	depth    int
}

var (
	codeOpenRe  = regexp.MustCompile(`^\{\{\{code:\s*(.*)$`)
	codeLangRe  = regexp.MustCompile(`lang="([^"]*)"`)
	headingRe   = regexp.MustCompile(`^(={2,6}) (.+?) (={2,6})\s*$`)
	checkboxRe  = regexp.MustCompile(`^(\t*)\[([ x*><])\]\s?(.*)$`)
	bulletRe    = regexp.MustCompile(`^(\t*)\* (.*)$`)
	numberedRe  = regexp.MustCompile(`^(\t*)\d+\.\s+(.*)$`)
	tableSepRe  = regexp.MustCompile(`^\|[-:|]+\|$`)
	lineNumsStr = `linenumbers="True"`
)

// transformLine classifies one body line and returns its Markdown form.
// Classification priority: code fence, heading, checkbox, list item, table
// row, plain paragraph.
func (p *pageConverter) transformLine(line string) string {
	if p.st.codeOpen {
		if strings.TrimSpace(line) == "}}}" {
			p.st.codeOpen = false
			p.st.codeLang = ""
			return "```"
		}
		return line
	}

	if m := codeOpenRe.FindStringSubmatch(line); m != nil {
		attrs := m[1]
		lang := ""
		if lm := codeLangRe.FindStringSubmatch(attrs); lm != nil {
			lang = lm[1]
		}
		p.st.codeOpen = true
		p.st.codeLang = lang
		fence := "```" + lang
		if strings.Contains(attrs, lineNumsStr) {
			fence += " ln:true"
		}
		return fence
	}

	if m := headingRe.FindStringSubmatch(line); m != nil && len(m[1]) == len(m[3]) {
		level := 7 - len(m[1])
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		return strings.Repeat("#", level) + " " + transformSpans(m[2])
	}

	if m := checkboxRe.FindStringSubmatch(line); m != nil {
		depth := len(m[1])
		p.st.depth = depth
		// Markdown task lists know two states; every in-progress or
		// deferred marker degrades to unchecked.
		marker := "- [ ] "
		if m[2] == "x" {
			marker = "- [x] "
		}
		return m[1] + marker + p.transformInline(m[3])
	}

	if m := bulletRe.FindStringSubmatch(line); m != nil {
		p.st.depth = len(m[1])
		return m[1] + "- " + p.transformInline(m[2])
	}

	if m := numberedRe.FindStringSubmatch(line); m != nil {
		p.st.depth = len(m[1])
		// Literal "1." for every item; renderers handle display numbering.
		return m[1] + "1. " + p.transformInline(m[2])
	}

	trimmed := strings.TrimSpace(line)
	if tableSepRe.MatchString(trimmed) {
		return strings.ReplaceAll(line, ":", "-")
	}
	if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") && trimmed != "|" {
		// Zim stores in-cell newlines as literal \n sequences.
		return strings.ReplaceAll(p.transformInline(line), `\n`, "<br>")
	}

	return p.transformInline(line)
}

// transformInline applies the span rules and then link resolution. Span and
// link delimiters share no characters, so the order only matters for
// determinism.
func (p *pageConverter) transformInline(line string) string {
	line = transformSpans(line)
	line = p.resolveEmbeds(line)
	return p.resolveLinks(line)
}
