package domain

import "math"

// Accuracy summarises a window of recent review verdicts.
type Accuracy struct {
	N       int `json:"n"`
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
	Rate    int `json:"rate"` // Percentage 0..100, ties round to even
}

// NewAccuracy computes an Accuracy from verdicts. An empty window yields a
// zero rate.
func NewAccuracy(results []bool) Accuracy {
	acc := Accuracy{N: len(results)}
	for _, ok := range results {
		if ok {
			acc.Correct++
		}
	}
	acc.Wrong = acc.N - acc.Correct
	if acc.N > 0 {
		acc.Rate = int(math.RoundToEven(float64(acc.Correct) / float64(acc.N) * 100))
	}
	return acc
}

// NewBoxDistribution returns a per-box count map with every box present.
func NewBoxDistribution() map[int]int {
	dist := make(map[int]int, MaxBox)
	for b := MinBox; b <= MaxBox; b++ {
		dist[b] = 0
	}
	return dist
}

// StudyStats is the aggregate view over cards, schedules and reviews.
type StudyStats struct {
	Total int                  `json:"total"`
	Due   int                  `json:"due"`
	Dist  map[int]int          `json:"dist"`
	Acc   Accuracy             `json:"acc"`
	Weak  []CardWithLastResult `json:"weak"`
}

// DocumentStats holds card counts for one document. DocumentID and Title are
// nil for the bucket of cards without a document.
type DocumentStats struct {
	DocumentID *int64  `json:"document_id"`
	Title      *string `json:"title"`
	Total      int     `json:"total"`
	Due        int     `json:"due"`
}
