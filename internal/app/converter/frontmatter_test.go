package converter

import (
	"strings"
	"testing"
	"time"

	"github.com/sleroq/zim-to-obsidian/internal/domain/zim"
)

func testFrontmatter(created, updated string) zim.Frontmatter {
	return zim.Frontmatter{Created: created, Updated: updated}
}

func TestExtractMetadataFromCreationDate(t *testing.T) {
	content := strings.Join([]string{
		"Content-Type: text/x-zim-wiki",
		"Wiki-Format: zim 0.6",
		"Creation-Date: 2023-04-01T10:00:00",
		"",
		"====== Page ======",
	}, "\n")
	mtime := time.Date(2024, 6, 15, 8, 30, 0, 0, time.Local)

	p := newTestPageConverter(fakeFiles{})
	fm := p.extractMetadata(content, mtime)

	if fm.Created != "2023-04-01T10:00:00" {
		t.Errorf("created = %q, want 2023-04-01T10:00:00", fm.Created)
	}
	if fm.Updated != "2024-06-15T08:30:00" {
		t.Errorf("updated = %q, want 2024-06-15T08:30:00", fm.Updated)
	}
	if p.warnings != 0 {
		t.Errorf("warnings = %d, want 0", p.warnings)
	}
}

func TestExtractMetadataWithTimezoneOffset(t *testing.T) {
	content := "Content-Type: text/x-zim-wiki\nCreation-Date: 2019-01-28T10:57:19+01:00\n\nbody"
	p := newTestPageConverter(fakeFiles{})
	fm := p.extractMetadata(content, time.Now())
	if fm.Created != "2019-01-28T10:57:19" {
		t.Errorf("created = %q, want 2019-01-28T10:57:19", fm.Created)
	}
}

func TestExtractMetadataMalformedDate(t *testing.T) {
	content := "Content-Type: text/x-zim-wiki\nCreation-Date: not a date\n\nbody"
	mtime := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)

	p := newTestPageConverter(fakeFiles{})
	fm := p.extractMetadata(content, mtime)

	if fm.Created != "" {
		t.Errorf("created should be omitted, got %q", fm.Created)
	}
	if fm.Updated != "2024-01-02T03:04:05" {
		t.Errorf("updated = %q", fm.Updated)
	}
	if p.warnings != 1 {
		t.Errorf("warnings = %d, want 1", p.warnings)
	}
}

func TestExtractMetadataCreatedLineFallback(t *testing.T) {
	content := strings.Join([]string{
		"Content-Type: text/x-zim-wiki",
		"",
		"====== My Page ======",
		"Created Tuesday 21 November 2017",
		"",
		"body",
	}, "\n")

	p := newTestPageConverter(fakeFiles{})
	fm := p.extractMetadata(content, time.Now())

	if fm.Created != "2017-11-21T00:00:00" {
		t.Errorf("created = %q, want 2017-11-21T00:00:00", fm.Created)
	}
}

func TestExtractMetadataNoDateAtAll(t *testing.T) {
	content := "Content-Type: text/x-zim-wiki\n\n====== Untitled ======\njust text\n"
	p := newTestPageConverter(fakeFiles{})
	fm := p.extractMetadata(content, time.Date(2020, 5, 6, 7, 8, 9, 0, time.Local))
	if fm.Created != "" {
		t.Errorf("created = %q, want empty", fm.Created)
	}
	if fm.Updated == "" {
		t.Error("updated must always be set")
	}
}

func TestRenderFrontmatter(t *testing.T) {
	got := renderFrontmatter(testFrontmatter("2023-04-01T10:00:00", "2024-06-15T08:30:00"))
	want := "---\ncreated: 2023-04-01T10:00:00\nupdated: 2024-06-15T08:30:00\n---\n\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderFrontmatterWithoutCreated(t *testing.T) {
	got := renderFrontmatter(testFrontmatter("", "2024-06-15T08:30:00"))
	want := "---\nupdated: 2024-06-15T08:30:00\n---\n\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
