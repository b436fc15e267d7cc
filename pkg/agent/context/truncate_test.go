package context

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// wordEstimator charges one token per whitespace-separated word.
type wordEstimator struct{}

func (wordEstimator) Estimate(text string) int {
	return len(strings.Fields(text))
}

func TestTruncateUnderBudgetIsUnchanged(t *testing.T) {
	text := "URL: https://example.com\nTitle: Example"

	got, truncated := Truncate(text, 1000, CharEstimator{})
	assert.False(t, truncated)
	assert.Equal(t, text, got)
}

func TestTruncateKeepsWholeLines(t *testing.T) {
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, fmt.Sprintf("  - Element number %02d (button)", i))
	}
	text := strings.Join(lines, "\n")

	got, truncated := Truncate(text, 50, CharEstimator{})
	assert.True(t, truncated)
	assert.LessOrEqual(t, CharEstimator{}.Estimate(got), 50)

	gotLines := strings.Split(got, "\n")
	marker := gotLines[len(gotLines)-1]
	kept := gotLines[:len(gotLines)-1]
	assert.Equal(t, lines[:len(kept)], kept)
	assert.Equal(t, fmt.Sprintf("... (truncated, %d lines omitted)", len(lines)-len(kept)), marker)
}

func TestTruncateRespectsBudget(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta\n", 30)

	for _, budget := range []int{0, 1, 3, 5, 8, 13, 21, 55, 89} {
		for _, est := range []Estimator{CharEstimator{}, wordEstimator{}} {
			t.Run(fmt.Sprintf("%T/%d", est, budget), func(t *testing.T) {
				got, truncated := Truncate(text, budget, est)
				if est.Estimate(text) <= budget {
					assert.False(t, truncated)
					assert.Equal(t, text, got)
					return
				}
				assert.True(t, truncated)
				assert.LessOrEqual(t, est.Estimate(got), budget)
			})
		}
	}
}

func TestTruncateSingleHugeLine(t *testing.T) {
	text := strings.Repeat("x", 10000)

	got, truncated := Truncate(text, 20, CharEstimator{})
	assert.True(t, truncated)
	assert.Equal(t, "... (truncated, 1 lines omitted)", got)
}

func TestTiktokenEstimatorFallsBack(t *testing.T) {
	var e *TiktokenEstimator
	assert.Equal(t, 3, e.Estimate("twelve chars"))
	assert.Equal(t, 3, (&TiktokenEstimator{}).Estimate("twelve chars"))
}
