package context

import (
	"fmt"

	"github.com/entrhq/webpilot/pkg/agent/memory"
	"github.com/entrhq/webpilot/pkg/types"
)

// Metadata keys on conversation messages.
const (
	// MetaPageSummary holds the one-line Summary of the overview a message
	// carries. Only messages with this key are compacted.
	MetaPageSummary = "page_summary"

	// MetaSummarized marks a message whose overview has been replaced.
	MetaSummarized = "summarized"
)

// Compactor shrinks a conversation once it nears the model's context window
// by replacing older page overviews with their one-line summaries. Tool
// results, hints and model output are never touched, so the conversation
// keeps its shape. Compaction is deterministic and needs no model call.
type Compactor struct {
	est              Estimator
	thresholdPercent float64
	keepRecent       int
}

// NewCompactor creates a compactor that runs at thresholdPercent (0-100) of
// the limit and always keeps the newest keepRecent overviews intact.
func NewCompactor(thresholdPercent float64, keepRecent int, est Estimator) *Compactor {
	if thresholdPercent < 0 {
		thresholdPercent = 0
	}
	if thresholdPercent > 100 {
		thresholdPercent = 100
	}
	if keepRecent < 1 {
		keepRecent = 1
	}
	if est == nil {
		est = CharEstimator{}
	}
	return &Compactor{est: est, thresholdPercent: thresholdPercent, keepRecent: keepRecent}
}

// Name returns the strategy name
func (c *Compactor) Name() string {
	return "PageContextCompaction"
}

// Tokens estimates the cost of messages.
func (c *Compactor) Tokens(messages []*types.Message) int {
	total := 0
	for _, m := range messages {
		total += c.est.Estimate(m.Content)
	}
	return total
}

// ShouldRun returns true when currentTokens reaches the threshold of maxTokens.
func (c *Compactor) ShouldRun(currentTokens, maxTokens int) bool {
	if maxTokens <= 0 {
		return false
	}
	usagePercent := (float64(currentTokens) / float64(maxTokens)) * 100
	return usagePercent >= c.thresholdPercent
}

// Compact replaces every page overview but the newest keepRecent with its
// summary line and returns how many messages changed.
func (c *Compactor) Compact(conv *memory.ConversationMemory) int {
	var overviews []*types.Message
	for _, msg := range conv.GetAll() {
		if _, ok := msg.Metadata[MetaPageSummary].(string); ok && !isSummarized(msg) {
			overviews = append(overviews, msg)
		}
	}
	if len(overviews) <= c.keepRecent {
		return 0
	}

	changed := 0
	for _, msg := range overviews[:len(overviews)-c.keepRecent] {
		summary, _ := msg.Metadata[MetaPageSummary].(string)
		if conv.Update(msg, fmt.Sprintf("[Earlier page context, superseded: %s]", summary)) {
			msg.WithMetadata(MetaSummarized, true)
			changed++
		}
	}
	if changed > 0 {
		debugLog.Infof("%s replaced %d stale overviews", c.Name(), changed)
	}
	return changed
}

func isSummarized(msg *types.Message) bool {
	summarized, ok := msg.Metadata[MetaSummarized].(bool)
	return ok && summarized
}
