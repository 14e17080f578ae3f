package converter

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sleroq/zim-to-obsidian/internal/domain/zim"
)

var firstH1Re = regexp.MustCompile(`(?m)^# (.+)$`)

// renameNotesByTitle renames every generated note whose first H1 differs from
// its filename, together with its same-stem attachment directory. Collisions
// with existing files are skipped with a warning.
func renameNotesByTitle(outputDir string, logger *slog.Logger) error {
	var notes []string
	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
			notes = append(notes, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, notePath := range notes {
		data, err := os.ReadFile(notePath)
		if err != nil {
			logger.Error("read note for rename", slog.String("path", notePath), slog.String("error", err.Error()))
			continue
		}

		m := firstH1Re.FindStringSubmatch(string(data))
		if m == nil {
			continue
		}
		title := zim.SanitizeTitle(m[1])
		if title == "" {
			logger.Warn("title unusable as filename", slog.String("path", notePath))
			continue
		}

		oldStem := strings.TrimSuffix(filepath.Base(notePath), ".md")
		if oldStem == title {
			continue
		}
		newPath := filepath.Join(filepath.Dir(notePath), title+".md")
		if _, err := os.Stat(newPath); err == nil {
			logger.Warn("rename target exists, keeping original name",
				slog.String("path", notePath), slog.String("target", newPath))
			continue
		}
		if err := os.Rename(notePath, newPath); err != nil {
			logger.Error("rename note", slog.String("path", notePath), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("note renamed", slog.String("from", notePath), slog.String("to", newPath))

		// A page's attachment directory shares its stem; move it along.
		oldDir := filepath.Join(filepath.Dir(notePath), oldStem)
		if info, err := os.Stat(oldDir); err == nil && info.IsDir() {
			newDir := filepath.Join(filepath.Dir(notePath), title)
			if _, err := os.Stat(newDir); err == nil {
				logger.Warn("attachment dir rename target exists",
					slog.String("dir", oldDir), slog.String("target", newDir))
				continue
			}
			if err := os.Rename(oldDir, newDir); err != nil {
				logger.Error("rename attachment dir", slog.String("dir", oldDir), slog.String("error", err.Error()))
			}
		}
	}
	return nil
}
