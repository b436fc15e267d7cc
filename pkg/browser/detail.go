package browser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ElementDetail returns the simplified inner markup of the element matched
// by locator, cut to maxLen characters. A non-positive maxLen means
// DefaultDetailLength.
func (s *Session) ElementDetail(locator string, maxLen int) (string, error) {
	loc, err := s.target("get_element_details", locator)
	if err != nil {
		return "", err
	}
	if maxLen <= 0 {
		maxLen = DefaultDetailLength
	}

	inner, err := loc.InnerHTML(playwright.LocatorInnerHTMLOptions{Timeout: millis(s.opts.ActionTimeout)})
	if err != nil {
		if IsTimeout(err) {
			return "", notFoundError("get_element_details", locator, "no element matches within %s", s.opts.ActionTimeout)
		}
		return "", wrapEngine("get_element_details", locator, err)
	}

	simplified, err := SimplifyHTML(inner)
	if err != nil {
		return "", err
	}
	return TruncateDetail(simplified, maxLen), nil
}

// SimplifyHTML strips a markup fragment down to what helps choose a
// locator. Scripts, styles and comments are removed, as are style, event
// handler and data-* attributes, and whitespace runs collapse to one space.
func SimplifyHTML(fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var b strings.Builder
	for _, n := range nodes {
		writeSimplified(&b, n)
	}
	return collapseSpace(b.String()), nil
}

func writeSimplified(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeSimplified(b, c)
		}
		return
	}

	tag := strings.ToLower(n.Data)
	if tag == "script" || tag == "style" {
		return
	}

	b.WriteString("<")
	b.WriteString(tag)
	for _, a := range n.Attr {
		if droppedAttribute(a.Key) {
			continue
		}
		fmt.Fprintf(b, ` %s="%s"`, a.Key, html.EscapeString(a.Val))
	}
	b.WriteString(">")

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeSimplified(b, c)
	}

	if !isVoidElement(tag) {
		b.WriteString("</")
		b.WriteString(tag)
		b.WriteString(">")
	}
}

// droppedAttribute reports attributes that carry presentation or behaviour
// rather than identity.
func droppedAttribute(key string) bool {
	key = strings.ToLower(key)
	return key == "style" || strings.HasPrefix(key, "on") || strings.HasPrefix(key, "data-")
}

// isVoidElement returns true for elements without a closing tag.
func isVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// TruncateDetail cuts s to maxLen bytes. When the last '>' inside the cut
// sits past 80% of maxLen the cut moves back to it so a tag is not split.
func TruncateDetail(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	end := maxLen
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	cut := s[:end]
	if i := strings.LastIndex(cut, ">"); i >= 0 && float64(i) > float64(maxLen)*0.8 {
		cut = cut[:i+1]
	}

	return fmt.Sprintf("%s\n\n... [TRUNCATED - content was %d chars, showing first %d chars]", cut, len(s), len(cut))
}
