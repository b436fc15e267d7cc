package browser

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// OverviewElement is one visible interactive element.
type OverviewElement struct {
	Role    string `json:"role"`
	Name    string `json:"name"`
	Value   string `json:"value"`
	Tag     string `json:"tag"`
	Type    string `json:"type"`
	ID      string `json:"id"`
	Classes string `json:"classes"`
}

// Hint renders the element's tag, id and first two classes, e.g.
// "button#login.primary.wide".
func (e OverviewElement) Hint() string {
	var b strings.Builder
	b.WriteString(e.Tag)
	if e.ID != "" {
		b.WriteString("#")
		b.WriteString(e.ID)
	}
	classes := strings.Fields(e.Classes)
	if len(classes) > 2 {
		classes = classes[:2]
	}
	if len(classes) > 0 {
		b.WriteString(".")
		b.WriteString(strings.Join(classes, "."))
	}
	return b.String()
}

// RoleGroup holds the elements sharing a role, in page order.
type RoleGroup struct {
	Role     string
	Elements []OverviewElement
}

// PageOverview is a compact description of what the agent can act on.
type PageOverview struct {
	URL    string
	Title  string
	Groups []RoleGroup

	// Static is set when the overview came from parsing page content rather
	// than from the live page, so visibility was approximated.
	Static bool
}

// Counts returns the number of elements per role.
func (o *PageOverview) Counts() map[string]int {
	counts := make(map[string]int, len(o.Groups))
	for _, g := range o.Groups {
		counts[g.Role] = len(g.Elements)
	}
	return counts
}

// String renders the overview in the format shown to the model.
func (o *PageOverview) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\n", o.URL)
	fmt.Fprintf(&b, "Title: %s\n", o.Title)
	b.WriteString("\nInteractive Elements:\n")

	for _, g := range o.Groups {
		fmt.Fprintf(&b, "\n%sS:\n", strings.ToUpper(g.Role))
		for i, el := range g.Elements {
			if i == MaxGroupItems {
				fmt.Fprintf(&b, "  ... and %d more\n", len(g.Elements)-MaxGroupItems)
				break
			}
			if el.Value != "" {
				fmt.Fprintf(&b, "  - %s (value: %s) (%s)\n", el.Name, el.Value, el.Hint())
			} else {
				fmt.Fprintf(&b, "  - %s (%s)\n", el.Name, el.Hint())
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// BuildOverview normalizes raw elements and groups them by role in the
// order each role first appears.
func BuildOverview(url, title string, elements []OverviewElement) *PageOverview {
	o := &PageOverview{URL: url, Title: title}
	index := make(map[string]int)

	for _, el := range elements {
		el.Name = truncateRunes(strings.TrimSpace(el.Name), MaxNameLength)
		if el.Name == "" && el.Value == "" {
			continue
		}
		el.Role = roleFor(el.Tag, el.Type, el.Role)

		i, ok := index[el.Role]
		if !ok {
			i = len(o.Groups)
			index[el.Role] = i
			o.Groups = append(o.Groups, RoleGroup{Role: el.Role})
		}
		o.Groups[i].Elements = append(o.Groups[i].Elements, el)
	}
	return o
}

// roleFor maps an element to the role it is listed under. An explicit role
// attribute wins over the tag.
func roleFor(tag, inputType, explicit string) string {
	if explicit != "" {
		return strings.ToLower(explicit)
	}
	switch tag {
	case "a":
		return "link"
	case "input":
		switch inputType {
		case "checkbox":
			return "checkbox"
		case "radio":
			return "radio"
		default:
			return "textbox"
		}
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return "heading"
	case "select":
		return "combobox"
	case "textarea":
		return "textbox"
	}
	return tag
}

// Overview describes the visible interactive elements of the active tab,
// or of the current frame when one is in scope.
func (s *Session) Overview() (*PageOverview, error) {
	page, frame, err := s.current()
	if err != nil {
		return nil, &ActionError{Op: "overview", Kind: KindEngine, Err: err}
	}

	url := page.URL()
	title, err := page.Title()
	if err != nil {
		title = ""
	}

	raw, err := evaluate(page, frame, overviewScript, nil)
	if err == nil {
		var elements []OverviewElement
		if err = decodeResult(raw, &elements); err == nil {
			return BuildOverview(url, title, elements), nil
		}
	}
	sessionLog.Warnf("Overview probe failed, falling back to static parse: %v", err)

	content, cerr := scopeContent(page, frame)
	if cerr != nil {
		return nil, wrapEngine("overview", "", cerr)
	}
	elements, perr := StaticOverview(content)
	if perr != nil {
		return nil, fmt.Errorf("overview: %w", perr)
	}
	o := BuildOverview(url, title, elements)
	o.Static = true
	return o, nil
}

// decodeResult converts an Evaluate result into a typed value.
func decodeResult(raw interface{}, v interface{}) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode probe result: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unexpected probe result: %w", err)
	}
	return nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n]))
}
