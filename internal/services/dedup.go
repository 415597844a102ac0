package services

import "github.com/amaumene/gostremiojackett/internal/models"

type dedupKey struct {
	tracker string
	title   string
}

// Deduplicate drops candidates without a link or with too few peers, then keeps
// the first occurrence of each (tracker, title) pair. Order is preserved.
func Deduplicate(candidates []models.Candidate, minPeers int) []models.Candidate {
	seen := make(map[dedupKey]struct{}, len(candidates))
	result := make([]models.Candidate, 0, len(candidates))

	for _, c := range candidates {
		if c.URI() == "" || c.Peers <= minPeers {
			continue
		}
		key := dedupKey{tracker: c.Tracker, title: c.Title}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, c)
	}
	return result
}
