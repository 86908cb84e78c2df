package parser

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

const noindexTag = "noindex"

// ancestors lists the parents of n, nearest first.
func ancestors(n *html.Node) []*html.Node {
	var out []*html.Node
	for p := n.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// precedingSiblings lists the siblings before n, nearest first.
func precedingSiblings(n *html.Node) []*html.Node {
	var out []*html.Node
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		out = append(out, s)
	}
	return out
}

// followingSiblings lists the siblings after n, nearest first.
func followingSiblings(n *html.Node) []*html.Node {
	var out []*html.Node
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		out = append(out, s)
	}
	return out
}

func isNoindex(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == noindexTag
}

// isBlank is true for text nodes holding only whitespace or &nbsp;.
func isBlank(n *html.Node) bool {
	if n.Type != html.TextNode {
		return false
	}
	return strings.TrimSpace(strings.ReplaceAll(n.Data, "&nbsp;", "")) == ""
}

func allBlank(nodes []*html.Node) bool {
	for _, n := range nodes {
		if !isBlank(n) {
			return false
		}
	}
	return true
}

func inNoindex(n *html.Node) bool {
	return slices.ContainsFunc(ancestors(n), isNoindex)
}

// onlyInNoindex is true when n is the sole content of a <noindex> parent and
// that parent is not itself nested inside another <noindex>.
func onlyInNoindex(n *html.Node) bool {
	chain := ancestors(n)
	if len(chain) == 0 || !isNoindex(chain[0]) {
		return false
	}
	if slices.ContainsFunc(chain[1:], isNoindex) {
		return false
	}
	return allBlank(precedingSiblings(n)) && allBlank(followingSiblings(n))
}

// markupNoindex reports for every <a> tag of page, in source order, whether
// it sits between <noindex> and </noindex> tags. The HTML5 tree builder closes
// or relocates <noindex> around block and table content, so the token stream
// is the record of what the markup wraps.
func markupNoindex(page string) []bool {
	z := html.NewTokenizer(strings.NewReader(page))
	var marked []bool
	depth := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return marked
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "a":
				marked = append(marked, depth > 0)
			case noindexTag:
				if tt == html.StartTagToken {
					depth++
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == noindexTag && depth > 0 {
				depth--
			}
		}
	}
}
