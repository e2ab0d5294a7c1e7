package oracle

import "priceScope/internal/model"

// Session holds the last successful sample of every pool across cycles. It is
// empty at process start and owned by a single loop goroutine.
type Session struct {
	last map[string]model.PriceSample
}

func NewSession() *Session {
	return &Session{last: make(map[string]model.PriceSample)}
}

// Previous returns the last recorded sample for poolID.
func (s *Session) Previous(poolID string) (model.PriceSample, bool) {
	sample, ok := s.last[poolID]
	return sample, ok
}

// Record overwrites the last sample of each sample's pool.
func (s *Session) Record(samples ...model.PriceSample) {
	for _, sample := range samples {
		s.last[sample.PoolID] = sample
	}
}

func (s *Session) Len() int {
	return len(s.last)
}

// Snapshot copies the recorded samples.
func (s *Session) Snapshot() map[string]model.PriceSample {
	out := make(map[string]model.PriceSample, len(s.last))
	for id, sample := range s.last {
		out[id] = sample
	}
	return out
}
