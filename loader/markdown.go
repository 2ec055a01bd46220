package loader

import (
	"strings"

	"github.com/russross/blackfriday/v2"
	"gopkg.in/yaml.v3"
)

// ExtractHeadings parses Markdown and returns the text of every heading,
// at any level, in document order with surrounding whitespace trimmed.
// Inline markup such as emphasis, links and code spans contributes its text.
func ExtractHeadings(markdown string) []string {
	md := blackfriday.New(blackfriday.WithExtensions(blackfriday.CommonExtensions))
	root := md.Parse([]byte(markdown))

	var headings []string
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if node.Type != blackfriday.Heading || !entering {
			return blackfriday.GoToNext
		}
		var sb strings.Builder
		node.Walk(func(child *blackfriday.Node, entering bool) blackfriday.WalkStatus {
			if !entering {
				return blackfriday.GoToNext
			}
			switch child.Type {
			case blackfriday.Text, blackfriday.Code:
				sb.Write(child.Literal)
			case blackfriday.Softbreak, blackfriday.Hardbreak:
				sb.WriteByte(' ')
			}
			return blackfriday.GoToNext
		})
		headings = append(headings, strings.TrimSpace(sb.String()))
		return blackfriday.SkipChildren
	})
	return headings
}

// splitFrontMatter separates a leading YAML block delimited by "---" lines
// from the Markdown body. meta is empty when there is no front matter.
func splitFrontMatter(content string) (meta, body string) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return "", normalized
	}
	rest := normalized[len("---\n"):]

	// The block may be empty, in which case the closing fence comes first
	if strings.HasPrefix(rest, "---\n") || rest == "---" {
		return "", strings.TrimPrefix(rest, "---")
	}
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		if strings.HasSuffix(rest, "\n---") {
			return rest[:len(rest)-len("\n---")], ""
		}
		return "", normalized
	}
	return rest[:end], rest[end+len("\n---\n"):]
}

type frontMatter struct {
	Title string `yaml:"title"`
}

// parseTitle reads the title key from a YAML front matter block.
func parseTitle(meta string) (string, error) {
	if strings.TrimSpace(meta) == "" {
		return "", nil
	}
	var fm frontMatter
	if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
		return "", err
	}
	return strings.TrimSpace(fm.Title), nil
}
