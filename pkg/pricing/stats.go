package pricing

import "sync"

// Stat kinds recorded per service and region
const (
	StatSuccess = "success"
	StatFailure = "failure"
	StatCache   = "cache"
)

// APIStats tracks API call statistics by service and region.
// A nil *APIStats ignores every update.
type APIStats struct {
	mu    sync.RWMutex
	stats map[string]map[string]map[string]int // service -> region -> {success, failure, cache}
}

// NewAPIStats creates an empty APIStats
func NewAPIStats() *APIStats {
	return &APIStats{stats: make(map[string]map[string]map[string]int)}
}

// RecordSuccess updates stats when an API call succeeds
func (s *APIStats) RecordSuccess(service, region string) {
	s.record(service, region, StatSuccess)
}

// RecordFailure updates stats when an API call fails
func (s *APIStats) RecordFailure(service, region string) {
	s.record(service, region, StatFailure)
}

// RecordCacheHit updates stats when a cache hit occurs
func (s *APIStats) RecordCacheHit(service, region string) {
	s.record(service, region, StatCache)
}

func (s *APIStats) record(service, region, statType string) {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Initialize service map if needed
	if _, exists := s.stats[service]; !exists {
		s.stats[service] = make(map[string]map[string]int)
	}

	// Initialize region map if needed
	if _, exists := s.stats[service][region]; !exists {
		s.stats[service][region] = map[string]int{
			StatSuccess: 0,
			StatFailure: 0,
			StatCache:   0,
		}
	}

	s.stats[service][region][statType]++
}

// Snapshot returns a deep copy of the current statistics
func (s *APIStats) Snapshot() map[string]map[string]map[string]int {
	statsCopy := make(map[string]map[string]map[string]int)
	if s == nil {
		return statsCopy
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for service, regions := range s.stats {
		statsCopy[service] = make(map[string]map[string]int)
		for region, stats := range regions {
			statsCopy[service][region] = make(map[string]int)
			for key, value := range stats {
				statsCopy[service][region][key] = value
			}
		}
	}

	return statsCopy
}
