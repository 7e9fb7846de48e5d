package adapter

import "sync"

// TrailingFlowStore holds the last non-zero output flow per (client,
// extruder), for the optional cross-request continuity mode (§5: "seed the
// next request's current_flow with the previous request's last non-zero
// output flow, iff enabled for that extruder"). Updated only on a
// request's successful completion, under a single writer at a time.
type TrailingFlowStore struct {
	mu    sync.Mutex
	flows map[ConfigKey]float64
}

// NewTrailingFlowStore returns an empty store.
func NewTrailingFlowStore() *TrailingFlowStore {
	return &TrailingFlowStore{flows: make(map[ConfigKey]float64)}
}

// Get returns the stored flow for (clientID, extruderNr) and whether one is
// present.
func (s *TrailingFlowStore) Get(clientID string, extruderNr int) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	flow, ok := s.flows[ConfigKey{ClientID: clientID, ExtruderNr: extruderNr}]
	return flow, ok
}

// Set records flow as the trailing flow for (clientID, extruderNr).
func (s *TrailingFlowStore) Set(clientID string, extruderNr int, flow float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows[ConfigKey{ClientID: clientID, ExtruderNr: extruderNr}] = flow
}
