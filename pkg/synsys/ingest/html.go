package ingest

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/internalerr"
)

// Input formats accepted by ExtractText.
const (
	FormatText = "texto"
	FormatHTML = "html"
)

// ExtractText returns the analyzable text of body. Plain text passes through;
// HTML is reduced to its text nodes, skipping script and style content.
func ExtractText(body, format string) (string, error) {
	switch format {
	case "", FormatText:
		return body, nil
	case FormatHTML:
		return StripHTML(body), nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", internalerr.ErrInvalidInput, format)
	}
}

// blockAtoms are the elements whose boundaries separate words. Inline
// elements such as b, em, span and a do not.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Hr: true,
	atom.Li: true, atom.Ul: true, atom.Ol: true, atom.Dt: true, atom.Dd: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Table: true, atom.Tr: true, atom.Td: true, atom.Th: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.Blockquote: true, atom.Pre: true, atom.Title: true, atom.Body: true,
}

// StripHTML extracts text nodes from an HTML fragment. Block boundaries become
// spaces so words from adjacent elements do not run together; inline markup
// inside a word leaves it whole.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		block := n.Type == html.ElementNode && blockAtoms[n.DataAtom]
		if block {
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
		if block {
			buf.WriteByte(' ')
		}
	}
	extractText(doc)

	return strings.Join(strings.Fields(buf.String()), " ")
}
