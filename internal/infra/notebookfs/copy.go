package notebookfs

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sleroq/zim-to-obsidian/internal/domain/zim"
)

var imageExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".svg": {}, ".bmp": {},
}

// BuildCopyList turns the walked attachment paths into copy instructions.
// Equation sources (.tex) never ship; equation images that were inlined, and
// any .png with a .tex sibling, are dropped too. Attachments inside a page's
// attachment subdirectory are lifted one level up so basename embeds resolve.
func BuildCopyList(inputDir, outputDir string, attachments []string, excluded map[string]struct{}) []zim.AttachmentRef {
	refs := make([]zim.AttachmentRef, 0, len(attachments))
	for _, src := range attachments {
		ext := strings.ToLower(filepath.Ext(src))
		if ext == ".tex" {
			continue
		}
		if _, skip := excluded[src]; skip {
			continue
		}
		if ext == ".png" {
			if _, err := os.Stat(strings.TrimSuffix(src, filepath.Ext(src)) + ".tex"); err == nil {
				continue
			}
		}

		rel, err := filepath.Rel(inputDir, src)
		if err != nil {
			continue
		}
		target := filepath.Join(outputDir, flattenAttachmentPath(rel))

		kind := zim.RefFile
		if _, ok := imageExtensions[ext]; ok {
			kind = zim.RefImage
		}
		refs = append(refs, zim.AttachmentRef{Source: src, Target: target, Kind: kind})
	}
	return refs
}

// flattenAttachmentPath lifts a file out of its per-page attachment
// subdirectory: "Notes/Project/img.png" becomes "Notes/img.png", a top-level
// file stays where it is.
func flattenAttachmentPath(rel string) string {
	dir := filepath.Dir(rel)
	if dir == "." {
		return rel
	}
	return filepath.Join(filepath.Dir(dir), filepath.Base(rel))
}

// CopyAttachments materializes the copy list, creating target directories as
// needed. Existing files are replaced. Per-file failures are logged and do
// not stop the run; the returned count is the number of files copied.
func CopyAttachments(refs []zim.AttachmentRef, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	copied := 0
	for _, ref := range refs {
		if err := os.MkdirAll(filepath.Dir(ref.Target), 0o755); err != nil {
			logger.Error("create attachment dir",
				slog.String("target", ref.Target), slog.String("error", err.Error()))
			continue
		}
		if err := copyFile(ref.Source, ref.Target); err != nil {
			logger.Error("copy attachment",
				slog.String("source", ref.Source), slog.String("error", err.Error()))
			continue
		}
		copied++
		logger.Debug("attachment copied",
			slog.String("source", ref.Source),
			slog.String("target", ref.Target),
			slog.String("kind", ref.Kind.String()))
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
