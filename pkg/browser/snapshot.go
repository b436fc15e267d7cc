package browser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
	"golang.org/x/net/html"
)

// overviewSelector matches the same elements as the in-page overview probe.
const overviewSelector = `button, a, input, select, textarea, ` +
	`[role="button"], [role="link"], [role="textbox"], [role="searchbox"], ` +
	`[role="combobox"], [role="checkbox"], [role="radio"], [role="menuitem"], ` +
	`[role="tab"], h1, h2, h3, h4, h5, h6`

// invisibleTags never render content.
var invisibleTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
}

// scopeContent returns the markup of the page or of the scoped frame.
func scopeContent(page playwright.Page, frame string) (string, error) {
	if frame == "" {
		return page.Content()
	}
	return locate(page, frame, ":root").InnerHTML()
}

// StaticOverview extracts overview elements from markup. Without a layout
// engine, visibility is judged from hidden attributes and inline styles only.
func StaticOverview(content string) ([]OverviewElement, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page content: %w", err)
	}

	var elements []OverviewElement
	doc.Find(overviewSelector).Each(func(_ int, sel *goquery.Selection) {
		if hiddenStatically(sel.Get(0)) {
			return
		}

		value, _ := sel.Attr("value")
		label := collapseSpace(sel.Text())
		for _, attr := range []string{"placeholder", "aria-label"} {
			if label != "" {
				break
			}
			if v, ok := sel.Attr(attr); ok {
				label = collapseSpace(v)
			}
		}
		if label == "" {
			label = collapseSpace(value)
		}
		if label == "" {
			return
		}

		inputType, _ := sel.Attr("type")
		role, _ := sel.Attr("role")
		id, _ := sel.Attr("id")
		classes, _ := sel.Attr("class")

		elements = append(elements, OverviewElement{
			Role:    role,
			Name:    label,
			Value:   value,
			Tag:     goquery.NodeName(sel),
			Type:    strings.ToLower(inputType),
			ID:      id,
			Classes: classes,
		})
	})
	return elements, nil
}

// CandidatesFromHTML finds elements under body whose text contains query,
// optionally filtered by role or tag, and gives each a structural locator.
// The result is in document order and unranked.
func CandidatesFromHTML(content, query, role string) ([]RawCandidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page content: %w", err)
	}

	var out []RawCandidate
	doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		tag := goquery.NodeName(sel)
		if invisibleTags[tag] {
			return
		}

		text := sel.Text()
		if !strings.Contains(text, query) {
			return
		}

		explicitRole, _ := sel.Attr("role")
		if role != "" {
			effective := explicitRole
			if effective == "" {
				effective = tag
			}
			if effective != role && tag != role {
				return
			}
		}

		if hiddenStatically(node) {
			return
		}

		id, _ := sel.Attr("id")
		classes, _ := sel.Attr("class")
		parentTag, context := parentContext(node)

		out = append(out, RawCandidate{
			Order:      len(out),
			Tag:        tag,
			ParentTag:  parentTag,
			Role:       explicitRole,
			Text:       truncateRunes(strings.TrimSpace(text), MaxNameLength),
			OwnText:    ownText(node),
			TextLength: len([]rune(text)),
			Context:    context,
			ID:         id,
			Classes:    classes,
			Locator:    structuralLocator(node),
		})
	})
	return out, nil
}

// ownText joins the trimmed text nodes that are direct children of n.
func ownText(n *html.Node) string {
	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			parts = append(parts, strings.TrimSpace(c.Data))
		}
	}
	return strings.Join(parts, " ")
}

// parentContext describes the parent as "in <tag.class#id>".
func parentContext(n *html.Node) (string, string) {
	p := n.Parent
	if p == nil || p.Type != html.ElementNode {
		return "", ""
	}

	var b strings.Builder
	b.WriteString("in <")
	b.WriteString(p.Data)
	if classes := strings.Fields(attr(p, "class")); len(classes) > 0 {
		b.WriteString(".")
		b.WriteString(classes[0])
	}
	if id := attr(p, "id"); id != "" {
		b.WriteString("#")
		b.WriteString(id)
	}
	b.WriteString(">")
	return p.Data, b.String()
}

// structuralLocator builds an html > body > ... path, adding :nth-of-type
// only where a sibling shares the tag.
func structuralLocator(n *html.Node) string {
	var parts []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		part := cur.Data
		index, total := 1, 1
		if cur.Parent != nil {
			total = 0
			for sib := cur.Parent.FirstChild; sib != nil; sib = sib.NextSibling {
				if sib.Type != html.ElementNode || sib.Data != cur.Data {
					continue
				}
				total++
				if sib == cur {
					index = total
				}
			}
		}
		if total > 1 {
			part = fmt.Sprintf("%s:nth-of-type(%d)", cur.Data, index)
		}
		parts = append([]string{part}, parts...)
	}
	return strings.Join(parts, " > ")
}

// hiddenStatically reports whether n or an ancestor is hidden by markup.
func hiddenStatically(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if invisibleTags[cur.Data] {
			return true
		}
		if _, ok := attrOK(cur, "hidden"); ok {
			return true
		}
		if attr(cur, "aria-hidden") == "true" {
			return true
		}
		if cur.Data == "input" && strings.EqualFold(attr(cur, "type"), "hidden") {
			return true
		}
		style := strings.ReplaceAll(strings.ToLower(attr(cur, "style")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") || strings.Contains(style, "opacity:0;") || strings.HasSuffix(style, "opacity:0") {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
