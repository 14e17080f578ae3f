package zim

import (
	"path/filepath"
	"strings"
)

// PageHeaderPrefix starts the first line of every real Zim page file.
const PageHeaderPrefix = "Content-Type: text/x-zim-wiki"

// TimeLayout is the timestamp format used in frontmatter values.
const TimeLayout = "2006-01-02T15:04:05"

const maxTitleLength = 200

// IsZimHeader reports whether the given first line marks a Zim page file.
func IsZimHeader(firstLine string) bool {
	return strings.HasPrefix(strings.TrimSpace(firstLine), PageHeaderPrefix)
}

// LogicalPathFromFile converts a notebook-relative file path like
// "Notes/Project.txt" to the logical page path "Notes:Project".
func LogicalPathFromFile(relPath string) string {
	p := filepath.ToSlash(relPath)
	p = strings.TrimSuffix(p, ".txt")
	return strings.ReplaceAll(p, "/", ":")
}

// VaultPathFromLogical converts "Notes:Project" to the vault-relative
// path "Notes/Project" (no extension).
func VaultPathFromLogical(logical string) string {
	return strings.ReplaceAll(logical, ":", "/")
}

// SanitizeTitle turns an H1 title into a usable filename: characters that are
// illegal on common filesystems become underscores and the result is
// length-capped. Returns "" when nothing usable remains.
func SanitizeTitle(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '/', ':', '*', '?', '"', '<', '>', '|':
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if strings.Trim(out, "_ ") == "" {
		return ""
	}
	if len(out) > maxTitleLength {
		out = out[:maxTitleLength]
	}
	return out
}
