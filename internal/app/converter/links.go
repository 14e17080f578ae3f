package converter

import (
	"log/slog"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sleroq/zim-to-obsidian/internal/domain/zim"
)

var (
	embedRe     = regexp.MustCompile(`\{\{(.+?)\}\}`)
	linkRe      = regexp.MustCompile(`\[\[([^\[\]]+?)\]\]`)
	widthRe     = regexp.MustCompile(`width=(\d+)`)
	urlSchemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
)

// resolveEmbeds rewrites {{...}} tokens: equation images with a .tex sibling
// become inline display math, everything else becomes an Obsidian image embed
// with an optional width attribute.
func (p *pageConverter) resolveEmbeds(line string) string {
	return embedRe.ReplaceAllStringFunc(line, func(token string) string {
		target := token[2 : len(token)-2]

		base := target
		query := ""
		if idx := strings.Index(target, "?"); idx >= 0 {
			base = target[:idx]
			query = target[idx+1:]
		}
		if strings.TrimSpace(base) == "" {
			return token
		}

		diskPath := p.resolveAttachmentPath(base)

		if strings.Contains(query, "type=equation") || hasTexSibling(p.files, diskPath) {
			return p.inlineEquation(token, diskPath)
		}

		name := path.Base(filepath.ToSlash(strings.TrimPrefix(base, "./")))
		p.refs = append(p.refs, zim.AttachmentRef{Source: diskPath, Target: name, Kind: zim.RefImage})

		if m := widthRe.FindStringSubmatch(query); m != nil {
			return "![[" + name + "|" + m[1] + "]]"
		}
		// Other parameters (height=...) carry no Obsidian equivalent.
		return "![[" + name + "]]"
	})
}

func hasTexSibling(files FileReader, imagePath string) bool {
	if !strings.EqualFold(filepath.Ext(imagePath), ".png") {
		return false
	}
	return files.Exists(texSibling(imagePath))
}

func texSibling(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".tex"
}

// inlineEquation replaces an equation image embed with the content of its
// .tex sibling wrapped in a display-math fence. Both the image and the .tex
// file are then excluded from the attachment copy list. A missing or
// unreadable .tex file degrades to the literal token.
func (p *pageConverter) inlineEquation(token, imagePath string) string {
	texPath := texSibling(imagePath)
	if !p.files.Exists(texPath) {
		p.warn("equation source not found", slog.String("tex", texPath))
		return token
	}
	content, err := p.files.ReadFile(texPath)
	if err != nil {
		p.warn("read equation source", slog.String("tex", texPath), slog.String("error", err.Error()))
		return token
	}
	p.excluded = append(p.excluded, imagePath, texPath)
	return "$$\n" + strings.TrimSpace(string(content)) + "\n$$"
}

// resolveLinks rewrites [[...]] tokens: page links are resolved through the
// page index, ./ attachments become file embeds, external URLs pass through.
func (p *pageConverter) resolveLinks(line string) string {
	return linkRe.ReplaceAllStringFunc(line, func(token string) string {
		inner := token[2 : len(token)-2]

		// Aliased links ([[target|text]]) already render in Obsidian.
		if strings.Contains(inner, "|") {
			return token
		}
		if urlSchemeRe.MatchString(inner) || strings.HasPrefix(strings.ToLower(inner), "mailto:") {
			return token
		}

		if strings.HasPrefix(inner, "./") {
			name := path.Base(filepath.ToSlash(inner[2:]))
			if name == "" || name == "." {
				return token
			}
			diskPath := p.resolveAttachmentPath(inner)
			p.refs = append(p.refs, zim.AttachmentRef{Source: diskPath, Target: name, Kind: zim.RefFile})
			return "![[" + name + "]]"
		}

		if strings.HasPrefix(inner, "+") {
			logical := inner[1:]
			entry, ok := p.index.Lookup(logical)
			if !ok {
				p.warn("unresolved page link", slog.String("target", logical))
				return token
			}
			return "[[" + entry.VaultPath + "]]"
		}

		inner = strings.TrimPrefix(inner, ":")
		if inner == "" {
			return token
		}
		if entry, ok := p.index.Lookup(inner); ok {
			return "[[" + entry.VaultPath + "]]"
		}
		// A target with a file extension and no page-path colons is an
		// attachment stored next to the page or under the notebook root.
		if path.Ext(inner) != "" && !strings.Contains(inner, ":") {
			name := path.Base(filepath.ToSlash(inner))
			diskPath := p.resolveAttachmentPath(inner)
			p.refs = append(p.refs, zim.AttachmentRef{Source: diskPath, Target: name, Kind: zim.RefFile})
			return "![[" + name + "]]"
		}
		if strings.Contains(inner, ":") {
			return "[[" + zim.VaultPathFromLogical(inner) + "]]"
		}
		return "[[" + inner + "]]"
	})
}

// resolveAttachmentPath maps an embed target to its on-disk location. A ./
// target lives in the page's attachment subdirectory when one exists (a
// directory named after the page, next to it), otherwise next to the page
// file. Anything else resolves against the notebook root.
func (p *pageConverter) resolveAttachmentPath(target string) string {
	target = filepath.FromSlash(strings.TrimSpace(target))
	if rel, ok := strings.CutPrefix(target, "."+string(filepath.Separator)); ok {
		pageDir := filepath.Dir(p.page.SourcePath)
		stem := strings.TrimSuffix(filepath.Base(p.page.SourcePath), ".txt")
		attachDir := filepath.Join(pageDir, stem)
		if p.files.IsDir(attachDir) {
			return filepath.Join(attachDir, rel)
		}
		return filepath.Join(pageDir, rel)
	}
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(p.inputDir, target)
}
