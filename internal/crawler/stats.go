package crawler

import (
	"sync/atomic"
	"time"
)

// Stats tracks crawl statistics across all sections.
type Stats struct {
	PagesFetched      atomic.Int64
	FetchFailures     atomic.Int64
	CandidatesSeen    atomic.Int64
	CandidatesSkipped atomic.Int64
	RecordsPersisted  atomic.Int64
	PersistFailures   atomic.Int64
	StartTime         time.Time
}

// Snapshot returns a copy of stats safe for logging.
func (s *Stats) Snapshot() map[string]any {
	return map[string]any{
		"pages_fetched":      s.PagesFetched.Load(),
		"fetch_failures":     s.FetchFailures.Load(),
		"candidates_seen":    s.CandidatesSeen.Load(),
		"candidates_skipped": s.CandidatesSkipped.Load(),
		"records_persisted":  s.RecordsPersisted.Load(),
		"persist_failures":   s.PersistFailures.Load(),
		"elapsed":            time.Since(s.StartTime).String(),
	}
}
