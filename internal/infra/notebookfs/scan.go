// Package notebookfs walks a Zim notebook on disk, builds the page index and
// copies attachment files into the vault.
package notebookfs

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sleroq/zim-to-obsidian/internal/domain/zim"
)

// ScanNotebook walks the input tree once, classifying every file as a Zim
// page or an attachment, and builds the read-only page index.
func ScanNotebook(inputDir string) (zim.Notebook, error) {
	nb := zim.Notebook{Index: zim.NewPageIndex()}

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext == ".zim" {
			return nil
		}
		if ext == ".txt" {
			if !IsZimPage(path) {
				return nil
			}
			rel, err := filepath.Rel(inputDir, path)
			if err != nil {
				return err
			}
			logical := zim.LogicalPathFromFile(rel)
			entry := zim.PageEntry{
				LogicalPath: logical,
				SourcePath:  path,
				VaultPath:   zim.VaultPathFromLogical(logical),
			}
			nb.Pages = append(nb.Pages, entry)
			nb.Index.Add(entry)
			return nil
		}

		nb.Attachments = append(nb.Attachments, path)
		return nil
	})
	if err != nil {
		return zim.Notebook{}, fmt.Errorf("scan notebook %s: %w", inputDir, err)
	}

	sort.Slice(nb.Pages, func(i, j int) bool { return nb.Pages[i].LogicalPath < nb.Pages[j].LogicalPath })
	return nb, nil
}

// IsZimPage reports whether the file's first line carries the Zim
// content-type marker. Unreadable files are not pages.
func IsZimPage(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return false
	}
	return zim.IsZimHeader(scanner.Text())
}

// OSFileReader is the real-filesystem lookup service for the converter.
type OSFileReader struct{}

func (OSFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFileReader) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileReader) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
