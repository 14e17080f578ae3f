package converter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sleroq/zim-to-obsidian/internal/domain/zim"
	"github.com/sleroq/zim-to-obsidian/internal/infra/notebookfs"
)

// FileReader is the file lookup service the translation engine needs. It
// keeps the engine testable without a real notebook on disk.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
	Exists(path string) bool
	IsDir(path string) bool
}

// Converter drives a whole notebook conversion.
type Converter struct {
	InputDir      string
	OutputDir     string
	RenameByTitle bool
	Logger        *slog.Logger
}

// Stats summarizes one run.
type Stats struct {
	Pages       int
	Skipped     int
	Attachments int
	Warnings    int
}

// Result is the outcome of converting a single page.
type Result struct {
	Output   string
	Refs     []zim.AttachmentRef
	Excluded []string
	Warnings int
}

// pageConverter holds the per-page state threaded through the line scan.
type pageConverter struct {
	page     zim.PageEntry
	index    *zim.PageIndex
	inputDir string
	files    FileReader
	logger   *slog.Logger
	st       lineState

	refs     []zim.AttachmentRef
	excluded []string
	warnings int
}

func (p *pageConverter) warn(msg string, args ...any) {
	p.warnings++
	args = append(args, slog.String("page", p.page.LogicalPath))
	p.logger.Warn(msg, args...)
}

// ConvertPage transforms one page's raw text into a Markdown document:
// frontmatter first, then the body run through the line classifier.
func ConvertPage(page zim.PageEntry, content string, mtime time.Time, index *zim.PageIndex, inputDir string, files FileReader, logger *slog.Logger) Result {
	if logger == nil {
		logger = slog.Default()
	}
	p := &pageConverter{
		page:     page,
		index:    index,
		inputDir: inputDir,
		files:    files,
		logger:   logger,
	}

	fm := p.extractMetadata(content, mtime)
	body := stripZimHeader(content)

	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, p.transformLine(line))
	}
	if p.st.codeOpen {
		out = append(out, "```")
	}

	doc := renderFrontmatter(fm) + strings.Join(out, "\n")
	if !strings.HasSuffix(doc, "\n") {
		doc += "\n"
	}

	return Result{Output: doc, Refs: p.refs, Excluded: p.excluded, Warnings: p.warnings}
}

// stripZimHeader drops the header block (up to the first blank line) when the
// file starts with the Zim content-type marker.
func stripZimHeader(content string) string {
	firstLine, _, _ := strings.Cut(content, "\n")
	if !zim.IsZimHeader(firstLine) {
		return content
	}
	if _, rest, ok := strings.Cut(content, "\n\n"); ok {
		return rest
	}
	return content
}

// Run converts every page, copies attachments and optionally renames notes
// after their titles. Per-page failures are logged and skipped; only an
// unusable input or output root aborts the run.
func (c Converter) Run(ctx context.Context) (Stats, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if c.InputDir == "" || c.OutputDir == "" {
		return Stats{}, fmt.Errorf("input and output directories are required")
	}
	if info, err := os.Stat(c.InputDir); err != nil || !info.IsDir() {
		return Stats{}, fmt.Errorf("input dir %s is not a readable directory", c.InputDir)
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return Stats{}, fmt.Errorf("create output dir: %w", err)
	}

	nb, err := notebookfs.ScanNotebook(c.InputDir)
	if err != nil {
		return Stats{}, err
	}
	logger.Info("notebook scanned",
		slog.Int("pages", len(nb.Pages)),
		slog.Int("attachments", len(nb.Attachments)))

	bar := newConvertProgressBar(len(nb.Pages) + 1)
	if c.RenameByTitle {
		bar.total++
	}
	defer bar.Close()

	stats := Stats{}
	files := notebookfs.OSFileReader{}
	excluded := map[string]struct{}{}

	for _, page := range nb.Pages {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		bar.Advance(page.LogicalPath)

		data, err := os.ReadFile(page.SourcePath)
		if err != nil {
			logger.Error("read page", slog.String("page", page.SourcePath), slog.String("error", err.Error()))
			stats.Skipped++
			continue
		}
		info, err := os.Stat(page.SourcePath)
		if err != nil {
			logger.Error("stat page", slog.String("page", page.SourcePath), slog.String("error", err.Error()))
			stats.Skipped++
			continue
		}

		res := ConvertPage(page, string(data), info.ModTime(), nb.Index, c.InputDir, files, logger)

		outPath := filepath.Join(c.OutputDir, filepath.FromSlash(page.VaultPath)+".md")
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			logger.Error("create note dir", slog.String("path", outPath), slog.String("error", err.Error()))
			stats.Skipped++
			continue
		}
		if err := os.WriteFile(outPath, []byte(res.Output), 0o644); err != nil {
			logger.Error("write note", slog.String("path", outPath), slog.String("error", err.Error()))
			stats.Skipped++
			continue
		}

		for _, path := range res.Excluded {
			excluded[path] = struct{}{}
		}
		stats.Pages++
		stats.Warnings += res.Warnings
		logger.Debug("page converted",
			slog.String("page", page.LogicalPath),
			slog.String("output", outPath),
			slog.Int("references", len(res.Refs)))
	}

	bar.Advance("copying attachments")
	copyList := notebookfs.BuildCopyList(c.InputDir, c.OutputDir, nb.Attachments, excluded)
	copied, err := notebookfs.CopyAttachments(copyList, logger)
	stats.Attachments = copied
	if err != nil {
		return stats, fmt.Errorf("copy attachments: %w", err)
	}

	if c.RenameByTitle {
		bar.Advance("renaming notes")
		if err := renameNotesByTitle(c.OutputDir, logger); err != nil {
			return stats, fmt.Errorf("rename notes: %w", err)
		}
	}

	bar.Finish("done")
	return stats, nil
}
