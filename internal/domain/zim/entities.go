package zim

// PageEntry describes one Zim page discovered in the notebook tree.
type PageEntry struct {
	// LogicalPath is the colon-separated page name, e.g. "Notes:Project".
	LogicalPath string
	// SourcePath is the absolute path of the page's .txt file.
	SourcePath string
	// VaultPath is the output-relative path without extension, e.g. "Notes/Project".
	VaultPath string
}

// PageIndex maps logical page paths to their entries. Built once by the
// notebook walk and read-only afterwards.
type PageIndex struct {
	byPath map[string]PageEntry
}

func NewPageIndex() *PageIndex {
	return &PageIndex{byPath: map[string]PageEntry{}}
}

func (ix *PageIndex) Add(entry PageEntry) {
	ix.byPath[entry.LogicalPath] = entry
}

// Lookup returns the entry for a logical path. A miss is not an error; callers
// degrade to the literal link text.
func (ix *PageIndex) Lookup(logical string) (PageEntry, bool) {
	entry, ok := ix.byPath[logical]
	return entry, ok
}

func (ix *PageIndex) Len() int {
	return len(ix.byPath)
}

// RefKind classifies an attachment reference.
type RefKind int

const (
	RefImage RefKind = iota
	RefFile
	RefLink
)

func (k RefKind) String() string {
	switch k {
	case RefImage:
		return "image-embed"
	case RefFile:
		return "file-embed"
	default:
		return "link"
	}
}

// AttachmentRef is one file the copy service has to materialize in the vault.
type AttachmentRef struct {
	Source string
	Target string
	Kind   RefKind
}

// Frontmatter holds the metadata emitted at the top of each note.
type Frontmatter struct {
	Created string
	Updated string
}

// Notebook is the result of walking a Zim notebook directory.
type Notebook struct {
	Pages       []PageEntry
	Attachments []string
	Index       *PageIndex
}
