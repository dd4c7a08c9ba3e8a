package vectorstore

import (
	"math"

	"github.com/google/uuid"
)

// default ceiling used when FetchAll is called with a non-positive limit
const DefaultFetchLimit = 10000

func fetchLimit(limit int) int {
	if limit <= 0 {
		return DefaultFetchLimit
	}

	return limit
}

// copies records, assigning ids where missing
func prepareRecords(records []Record) []Record {
	out := make([]Record, len(records))

	for i, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}

		r.Vector = append([]float32(nil), r.Vector...)
		out[i] = r
	}

	return out
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
