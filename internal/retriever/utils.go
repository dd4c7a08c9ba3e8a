package retriever

import (
	"sort"
	"strings"
)

const (
	DefaultTopK      = 3
	contextSeparator = "\n\n"
)

// mergeAndRank orders hits by descending score and keeps the first topK.
// The sort is stable, so equal scores keep namespace order.
func mergeAndRank(hits []Hit, topK int) []Hit {
	merged := make([]Hit, len(hits))
	copy(merged, hits)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > topK {
		merged = merged[:topK]
	}

	return merged
}

func buildContext(hits []Hit) string {
	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Metadata.Text
	}

	return strings.Join(texts, contextSeparator)
}

func effectiveTopK(topK int) int {
	if topK <= 0 {
		return DefaultTopK
	}

	return topK
}
