package browser

import (
	"errors"
	"fmt"
	"strings"
)

// FindByText ranks visible elements whose text contains query and returns
// up to MaxFindResults of them. Role, when set, must match the element's
// role attribute or tag. Live results carry a FindMarker locator; when the
// in-page scan cannot run, candidates come from a static parse and carry
// structural locators instead.
func (s *Session) FindByText(query, role string) ([]ElementCandidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, validationError("find_element_by_text", "", ErrInvalidSelector, errors.New("search text cannot be empty"))
	}

	page, frame, err := s.current()
	if err != nil {
		return nil, &ActionError{Op: "find_element_by_text", Kind: KindEngine, Err: err}
	}

	raw, err := evaluate(page, frame, scanScript, map[string]interface{}{
		"query": query,
		"role":  role,
	})
	var raws []RawCandidate
	if err == nil {
		err = decodeResult(raw, &raws)
	}
	if err != nil {
		sessionLog.Warnf("Text scan failed, falling back to static parse: %v", err)
		return s.findStatic(query, role)
	}

	ranked := Rank(raws, query, MaxFindResults)
	if len(ranked) == 0 {
		return ranked, nil
	}

	marks := make([]interface{}, 0, len(ranked))
	for i := range ranked {
		id := s.nextFindID()
		ranked[i].Locator = fmt.Sprintf(`[%s="%d"]`, FindMarker, id)
		marks = append(marks, map[string]interface{}{
			"order": ranked[i].Order,
			"id":    id,
		})
	}

	if _, err := evaluate(page, frame, markScript, map[string]interface{}{"marks": marks}); err != nil {
		return nil, wrapEngine("find_element_by_text", "", fmt.Errorf("failed to tag candidates: %w", err))
	}

	sessionLog.Debugf("Found %d candidates for %q (best: %s %q)", len(raws), query, ranked[0].Tag, ranked[0].Text)
	return ranked, nil
}

func (s *Session) findStatic(query, role string) ([]ElementCandidate, error) {
	page, frame, err := s.current()
	if err != nil {
		return nil, &ActionError{Op: "find_element_by_text", Kind: KindEngine, Err: err}
	}
	content, err := scopeContent(page, frame)
	if err != nil {
		return nil, wrapEngine("find_element_by_text", "", err)
	}
	raws, err := CandidatesFromHTML(content, query, role)
	if err != nil {
		return nil, fmt.Errorf("find_element_by_text: %w", err)
	}
	return Rank(raws, query, MaxFindResults), nil
}
