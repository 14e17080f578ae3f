package notebookfs

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/sleroq/zim-to-obsidian/internal/domain/zim"
)

const zimHeader = "Content-Type: text/x-zim-wiki\nWiki-Format: zim 0.6\n\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanNotebook(t *testing.T) {
	input := t.TempDir()
	writeFile(t, filepath.Join(input, "Notes.txt"), zimHeader+"body")
	writeFile(t, filepath.Join(input, "Notes", "Project.txt"), zimHeader+"body")
	writeFile(t, filepath.Join(input, "Notes", "diagram.png"), "png")
	writeFile(t, filepath.Join(input, "plain.txt"), "no header")
	writeFile(t, filepath.Join(input, "notebook.zim"), "zim meta")

	nb, err := ScanNotebook(input)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(nb.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(nb.Pages))
	}
	if nb.Pages[0].LogicalPath != "Notes" || nb.Pages[1].LogicalPath != "Notes:Project" {
		t.Errorf("pages = %v", nb.Pages)
	}
	if nb.Pages[1].VaultPath != "Notes/Project" {
		t.Errorf("vault path = %q", nb.Pages[1].VaultPath)
	}
	if entry, ok := nb.Index.Lookup("Notes:Project"); !ok || entry.SourcePath == "" {
		t.Error("index missing Notes:Project")
	}
	if len(nb.Attachments) != 1 || filepath.Base(nb.Attachments[0]) != "diagram.png" {
		t.Errorf("attachments = %v", nb.Attachments)
	}
}

func TestIsZimPage(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.txt")
	plain := filepath.Join(dir, "plain.txt")
	writeFile(t, page, zimHeader)
	writeFile(t, plain, "hello")

	if !IsZimPage(page) {
		t.Error("zim page not detected")
	}
	if IsZimPage(plain) {
		t.Error("plain file detected as page")
	}
	if IsZimPage(filepath.Join(dir, "missing.txt")) {
		t.Error("missing file detected as page")
	}
}

func TestBuildCopyList(t *testing.T) {
	input := t.TempDir()
	output := filepath.Join(t.TempDir(), "vault")

	pdf := filepath.Join(input, "Notes", "doc.pdf")
	img := filepath.Join(input, "top.png")
	eqPng := filepath.Join(input, "Notes", "eq001.png")
	eqTex := filepath.Join(input, "Notes", "eq001.tex")
	skipped := filepath.Join(input, "Notes", "inlined.gif")
	writeFile(t, pdf, "pdf")
	writeFile(t, img, "png")
	writeFile(t, eqPng, "png")
	writeFile(t, eqTex, "tex")
	writeFile(t, skipped, "gif")

	refs := BuildCopyList(input, output,
		[]string{pdf, img, eqPng, eqTex, skipped},
		map[string]struct{}{skipped: {}})

	byTarget := map[string]zim.AttachmentRef{}
	for _, ref := range refs {
		byTarget[ref.Target] = ref
	}

	if len(refs) != 2 {
		t.Fatalf("refs = %v, want doc.pdf and top.png only", refs)
	}
	// doc.pdf is lifted out of the per-page subdirectory.
	if ref, ok := byTarget[filepath.Join(output, "doc.pdf")]; !ok || ref.Kind != zim.RefFile {
		t.Errorf("doc.pdf ref wrong: %v", refs)
	}
	if ref, ok := byTarget[filepath.Join(output, "top.png")]; !ok || ref.Kind != zim.RefImage {
		t.Errorf("top.png ref wrong: %v", refs)
	}
}

func TestCopyAttachmentsReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "out", "dst.bin")
	writeFile(t, src, "new content")
	writeFile(t, dst, "old content")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	copied, err := CopyAttachments([]zim.AttachmentRef{{Source: src, Target: dst, Kind: zim.RefFile}}, logger)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied != 1 {
		t.Errorf("copied = %d, want 1", copied)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new content" {
		t.Errorf("dst = %q", data)
	}
}

func TestCopyAttachmentsMissingSourceContinues(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.bin")
	writeFile(t, ok, "data")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	copied, err := CopyAttachments([]zim.AttachmentRef{
		{Source: filepath.Join(dir, "gone.bin"), Target: filepath.Join(dir, "out", "gone.bin")},
		{Source: ok, Target: filepath.Join(dir, "out", "ok.bin")},
	}, logger)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied != 1 {
		t.Errorf("copied = %d, want 1", copied)
	}
}

func TestOSFileReader(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	writeFile(t, file, "content")

	var r OSFileReader
	if !r.Exists(file) || r.Exists(filepath.Join(dir, "nope")) {
		t.Error("Exists wrong")
	}
	if !r.IsDir(dir) || r.IsDir(file) {
		t.Error("IsDir wrong")
	}
	data, err := r.ReadFile(file)
	if err != nil || string(data) != "content" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
}
