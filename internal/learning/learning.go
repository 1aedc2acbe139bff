// Package learning accumulates feature → response associations from observed
// traffic. Patterns reinforced often enough, with good enough feedback, are
// allowed to answer ahead of the static catalog.
package learning

import (
	"sort"
	"sync"
)

// Promotion thresholds: a pattern may answer on its own once it has been seen
// more than twice with a success rate above 0.6, and its combined confidence
// (frequency/100 × successRate) clears 0.3.
const (
	minFrequency   = 2
	minSuccessRate = 0.6
	minConfidence  = 0.3
)

// Pattern is the accumulated state for a single feature.
type Pattern struct {
	Feature     string
	Frequency   int
	Responses   []string
	Contexts    []string
	SuccessRate float64
}

// FeatureCount pairs a feature with its observed frequency, for stats output.
type FeatureCount struct {
	Feature string `json:"feature"`
	Count   int    `json:"count"`
}

// Store holds every learned pattern. Growth is unbounded over the process
// lifetime; callers watch FeatureCount via the stats snapshot.
type Store struct {
	mu       sync.Mutex
	patterns map[string]*Pattern
}

func NewStore() *Store {
	return &Store{patterns: make(map[string]*Pattern)}
}

// Observe folds one processed interaction into the store: each feature's
// frequency is bumped, the response is added to its response list if new, and
// a helpfulness signal, when present, is blended into the success rate.
func (s *Store) Observe(feats []string, response string, contextTags []string, helpful *bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range feats {
		p, ok := s.patterns[f]
		if !ok {
			p = &Pattern{Feature: f, SuccessRate: 0.5}
			s.patterns[f] = p
		}
		p.Frequency++
		if !contains(p.Responses, response) {
			p.Responses = append(p.Responses, response)
		}
		for _, tag := range contextTags {
			if tag != "" && !contains(p.Contexts, tag) {
				p.Contexts = append(p.Contexts, tag)
			}
		}
		if helpful != nil {
			p.SuccessRate = blend(p.SuccessRate, *helpful)
		}
	}
}

// Reinforce re-runs the success blend for each feature with a now-known
// helpfulness signal, used by the explicit feedback path.
func (s *Store) Reinforce(feats []string, helpful bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range feats {
		if p, ok := s.patterns[f]; ok {
			p.SuccessRate = blend(p.SuccessRate, helpful)
		}
	}
}

// Lookup finds the highest-confidence promotable pattern among feats and
// returns its candidate responses. The caller picks one; returning the full
// set keeps random selection out of the store.
func (s *Store) Lookup(feats []string) (responses []string, confidence float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best *Pattern
	var bestConf float64
	for _, f := range feats {
		p, present := s.patterns[f]
		if !present || p.Frequency <= minFrequency || p.SuccessRate <= minSuccessRate {
			continue
		}
		conf := float64(p.Frequency) / 100.0 * p.SuccessRate
		if conf > bestConf {
			best = p
			bestConf = conf
		}
	}

	if best == nil || bestConf <= minConfidence || len(best.Responses) == 0 {
		return nil, 0.0, false
	}

	out := make([]string, len(best.Responses))
	copy(out, best.Responses)
	return out, bestConf, true
}

// FeatureCount returns the number of distinct learned features.
func (s *Store) FeatureCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.patterns)
}

// TopFeatures returns the n most frequent features, most frequent first.
// Ties break alphabetically so the output is stable.
func (s *Store) TopFeatures(n int) []FeatureCount {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]FeatureCount, 0, len(s.patterns))
	for _, p := range s.patterns {
		all = append(all, FeatureCount{Feature: p.Feature, Count: p.Frequency})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Feature < all[j].Feature
	})

	if n < len(all) {
		all = all[:n]
	}
	return all
}

func blend(rate float64, helpful bool) float64 {
	signal := 0.0
	if helpful {
		signal = 1.0
	}
	next := (rate + signal) / 2.0
	if next < 0.0 {
		return 0.0
	}
	if next > 1.0 {
		return 1.0
	}
	return next
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
