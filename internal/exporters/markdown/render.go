package markdown

import (
	"strings"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// Render converts the document to Markdown. The title becomes a level-one
// heading when set; headings render at level two.
func Render(doc domain.ExportDocument) string {
	parts := make([]string, 0, len(doc.Blocks)+1)
	if title := strings.TrimSpace(doc.Title); title != "" {
		parts = append(parts, "# "+title)
	}
	for i := range doc.Blocks {
		if s := renderBlock(&doc.Blocks[i]); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func renderBlock(b *domain.Block) string {
	content := strings.TrimSpace(b.Content)

	switch b.Type.Kind() {
	case domain.BlockTypeHeading:
		if content == "" {
			return ""
		}
		return "## " + singleLine(content)
	case domain.BlockTypePicture:
		return renderPicture(b)
	case domain.BlockTypeTable:
		return content
	case domain.BlockTypeCaption:
		if content == "" {
			return ""
		}
		return "*" + singleLine(content) + "*"
	default:
		return content
	}
}

// renderPicture emits an image reference. Pictures without a source
// fall back to their caption.
func renderPicture(b *domain.Block) string {
	caption := strings.TrimSpace(b.Caption())
	src := strings.TrimSpace(b.Content)
	if src == "" {
		if caption == "" {
			return ""
		}
		return "*" + singleLine(caption) + "*"
	}

	alt := caption
	if alt == "" {
		alt = "picture"
	}
	out := "![" + escapeAlt(singleLine(alt)) + "](" + src + ")"
	if caption != "" {
		out += "\n\n*" + singleLine(caption) + "*"
	}
	return out
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func escapeAlt(s string) string {
	return strings.NewReplacer("[", `\[`, "]", `\]`).Replace(s)
}
