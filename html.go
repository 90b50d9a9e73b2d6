package toon

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// decodeHTML extracts readable text from an HTML document and returns it as
// a single scalar. Tags carry no value here: script and style bodies are
// skipped, everything else contributes its text content with whitespace
// normalized. Structural extraction of HTML is out of scope.
func decodeHTML(text string) (*Value, error) {
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, &ParseError{Format: FormatHTML, Message: err.Error()}
	}

	root := findElement(doc, atom.Body)
	if root == nil {
		root = doc
	}

	var words []string
	collectText(root, &words)
	return Str(strings.Join(words, " ")), nil
}

// findElement walks the node tree for the first element with the given atom.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// collectText appends the whitespace-split text content of a subtree,
// skipping non-content elements.
func collectText(n *html.Node, words *[]string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		}
	}
	if n.Type == html.TextNode {
		*words = append(*words, strings.Fields(n.Data)...)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, words)
	}
}
