package context

import (
	"fmt"
	"strings"
)

// Truncate fits text into budget tokens. Text already within budget is
// returned unchanged. Otherwise whole lines are kept from the top while they
// fit and a "... (truncated, N lines omitted)" marker is appended, dropping
// further lines until the result, marker included, is within budget.
func Truncate(text string, budget int, est Estimator) (string, bool) {
	if budget < 0 {
		budget = 0
	}
	if est.Estimate(text) <= budget {
		return text, false
	}

	lines := strings.Split(text, "\n")

	kept := 0
	for kept < len(lines) && est.Estimate(strings.Join(lines[:kept+1], "\n")) <= budget {
		kept++
	}

	for ; kept >= 0; kept-- {
		result := withMarker(lines[:kept], len(lines)-kept)
		if est.Estimate(result) <= budget {
			return result, true
		}
	}
	return "", true
}

func withMarker(lines []string, omitted int) string {
	marker := fmt.Sprintf("... (truncated, %d lines omitted)", omitted)
	if len(lines) == 0 {
		return marker
	}
	return strings.Join(lines, "\n") + "\n" + marker
}
