package context

import (
	"github.com/entrhq/webpilot/pkg/llm/tokenizer"
)

// Estimator approximates how many model tokens a text costs.
type Estimator interface {
	Estimate(text string) int
}

// CharEstimator assumes four characters per token.
type CharEstimator struct{}

// Estimate returns len(text)/4.
func (CharEstimator) Estimate(text string) int {
	return len(text) / 4
}

// TiktokenEstimator counts tokens with the cl100k_base encoding. When the
// encoding cannot be loaded it behaves like CharEstimator.
type TiktokenEstimator struct {
	tok *tokenizer.Tokenizer
}

// NewTiktokenEstimator loads the encoding, logging and falling back to
// character counting on failure.
func NewTiktokenEstimator() *TiktokenEstimator {
	tok, err := tokenizer.New()
	if err != nil {
		debugLog.Warnf("Token encoding unavailable, estimating by characters: %v", err)
		return &TiktokenEstimator{}
	}
	return &TiktokenEstimator{tok: tok}
}

// Estimate returns the token count of text.
func (e *TiktokenEstimator) Estimate(text string) int {
	if e == nil || e.tok == nil {
		return CharEstimator{}.Estimate(text)
	}
	return e.tok.CountTokens(text)
}
