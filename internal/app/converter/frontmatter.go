package converter

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sleroq/zim-to-obsidian/internal/domain/zim"
)

var (
	creationDateRe = regexp.MustCompile(`^Creation-Date:\s*(.+)$`)
	h1TitleRe      = regexp.MustCompile(`^====== (.+?) ======\s*$`)
	createdLineRe  = regexp.MustCompile(`(?i)^Created\s+\S+\s+(\d{1,2})\s+(\S+)\s+(\d{4})`)
)

// creationDateLayouts are the formats Zim writes into the Creation-Date
// header, most precise first.
var creationDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// extractMetadata builds the frontmatter values for one page. `created` comes
// from the Creation-Date header line, falling back to a "Created <weekday>
// <day> <month> <year>" line right under the first H1; when both fail the key
// is omitted. `updated` is always the file modification time.
func (p *pageConverter) extractMetadata(content string, mtime time.Time) zim.Frontmatter {
	fm := zim.Frontmatter{Updated: mtime.Format(zim.TimeLayout)}

	if raw, ok := headerCreationDate(content); ok {
		if t, ok := parseCreationDate(raw); ok {
			fm.Created = t.Format(zim.TimeLayout)
			return fm
		}
		p.warn("malformed Creation-Date", slog.String("value", raw))
	}

	if t, ok := createdDateUnderTitle(content); ok {
		fm.Created = t.Format(zim.TimeLayout)
		return fm
	}

	p.logger.Debug("no creation date found", slog.String("page", p.page.LogicalPath))
	return fm
}

// headerCreationDate scans the Zim header region (everything before the first
// blank line) for a Creation-Date field.
func headerCreationDate(content string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			break
		}
		if m := creationDateRe.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

func parseCreationDate(raw string) (time.Time, bool) {
	for _, layout := range creationDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// createdDateUnderTitle matches Zim's default first page line, e.g.
// "Created Tuesday 21 November 2017".
func createdDateUnderTitle(content string) (time.Time, bool) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !h1TitleRe.MatchString(line) {
			continue
		}
		for _, next := range lines[i+1:] {
			trimmed := strings.TrimSpace(next)
			if trimmed == "" {
				continue
			}
			m := createdLineRe.FindStringSubmatch(trimmed)
			if m == nil {
				return time.Time{}, false
			}
			day, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[3])
			month, ok := monthFromName(m[2])
			if !ok || day < 1 || day > 31 {
				return time.Time{}, false
			}
			return time.Date(year, month, day, 0, 0, 0, 0, time.Local), true
		}
		return time.Time{}, false
	}
	return time.Time{}, false
}

func monthFromName(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	if len(name) < 3 {
		return 0, false
	}
	m, ok := monthsByPrefix[name[:3]]
	return m, ok
}

// renderFrontmatter emits the YAML block. The two values are fixed-format
// timestamps, so no quoting or escaping is ever needed.
func renderFrontmatter(fm zim.Frontmatter) string {
	var b strings.Builder
	b.WriteString("---\n")
	if fm.Created != "" {
		b.WriteString("created: " + fm.Created + "\n")
	}
	b.WriteString("updated: " + fm.Updated + "\n")
	b.WriteString("---\n\n")
	return b.String()
}
