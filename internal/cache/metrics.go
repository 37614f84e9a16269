package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

func groupCounter(name, help string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, []string{"cache"})
}

// Counters of instrumented caches, labelled by ProviderConfig.Group.
var (
	HitsTotal      = groupCounter("cache_hits_total", "Lookups answered from the cache.")
	MissesTotal    = groupCounter("cache_misses_total", "Lookups that found nothing usable.")
	SetsTotal      = groupCounter("cache_sets_total", "Values stored, whatever their TTL.")
	EvictionsTotal = groupCounter("cache_evictions_total", "Entries dropped for size or age.")
)

func init() {
	prometheus.MustRegister(HitsTotal, MissesTotal, SetsTotal, EvictionsTotal)
}

// entriesReg is where the cache_entries collector lives; tests point it at their own
// registry.
var entriesReg prometheus.Registerer = prometheus.DefaultRegisterer

// groupSizes reports cache_entries for every open instrumented cache, asking each one
// for its length at scrape time.
type groupSizes struct {
	desc *prometheus.Desc

	mu    sync.Mutex
	lens  map[string]func() int
	owner prometheus.Registerer
}

var sizes = &groupSizes{
	desc: prometheus.NewDesc("cache_entries", "Entries currently held by the cache.", []string{"cache"}, nil),
	lens: make(map[string]func() int),
}

// track starts reporting group. A second cache opened under the same group replaces
// the first.
func (s *groupSizes) track(group string, length func() int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != entriesReg {
		if s.owner != nil {
			s.owner.Unregister(s)
		}
		_ = entriesReg.Register(s)
		s.owner = entriesReg
	}
	s.lens[group] = length
}

func (s *groupSizes) forget(group string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lens, group)
}

func (s *groupSizes) Describe(ch chan<- *prometheus.Desc) {
	ch <- s.desc
}

func (s *groupSizes) Collect(ch chan<- prometheus.Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for group, length := range s.lens {
		ch <- prometheus.MustNewConstMetric(s.desc, prometheus.GaugeValue, float64(length()), group)
	}
}
