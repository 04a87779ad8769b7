package service

import (
	"sort"
	"sync"
	"time"

	"github.com/portfolio-report/internal/circuitbreaker"
	"github.com/portfolio-report/internal/types"
)

// slowRenderThreshold marks a fresh render as slow
const slowRenderThreshold = 2 * time.Second

// RenderMonitor tracks render latency and cache effectiveness
type RenderMonitor struct {
	mu           sync.RWMutex
	cachedTimes  []time.Duration
	renderTimes  []time.Duration
	byTarget     map[types.RenderTarget]int64
	cacheHits    int64
	cacheMisses  int64
	slowRenders  int64
	totalServed  int64
	failedServes int64
	maxSamples   int
}

// NewRenderMonitor creates a monitor keeping the last 1000 samples of each kind
func NewRenderMonitor() *RenderMonitor {
	return &RenderMonitor{
		cachedTimes: make([]time.Duration, 0, 1000),
		renderTimes: make([]time.Duration, 0, 1000),
		byTarget:    make(map[types.RenderTarget]int64),
		maxSamples:  1000,
	}
}

// Record records one served document
func (m *RenderMonitor) Record(target types.RenderTarget, duration time.Duration, cached bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalServed++
	m.byTarget[target]++

	if cached {
		m.cacheHits++
		m.cachedTimes = appendSample(m.cachedTimes, duration, m.maxSamples)
		return
	}

	m.cacheMisses++
	m.renderTimes = appendSample(m.renderTimes, duration, m.maxSamples)
	if duration > slowRenderThreshold {
		m.slowRenders++
	}
}

// RecordFailure counts a request that produced no document
func (m *RenderMonitor) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failedServes++
}

func appendSample(samples []time.Duration, d time.Duration, max int) []time.Duration {
	samples = append(samples, d)
	if len(samples) > max {
		samples = samples[len(samples)-max:]
	}
	return samples
}

// Stats returns a snapshot of the counters
func (m *RenderMonitor) Stats() *RenderStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &RenderStats{
		TotalServed: m.totalServed,
		Failed:      m.failedServes,
		CacheHits:   m.cacheHits,
		CacheMisses: m.cacheMisses,
		SlowRenders: m.slowRenders,
		ByTarget:    make(map[string]int64, len(m.byTarget)),
	}
	for target, n := range m.byTarget {
		stats.ByTarget[string(target)] = n
	}

	if m.totalServed > 0 {
		stats.CacheHitRate = float64(m.cacheHits) / float64(m.totalServed) * 100
	}
	stats.AvgCachedMs = averageMs(m.cachedTimes)
	stats.AvgRenderMs = averageMs(m.renderTimes)
	stats.P95RenderMs = percentileMs(m.renderTimes, 0.95)

	return stats
}

// Reset clears every counter
func (m *RenderMonitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cachedTimes = m.cachedTimes[:0]
	m.renderTimes = m.renderTimes[:0]
	m.byTarget = make(map[types.RenderTarget]int64)
	m.cacheHits = 0
	m.cacheMisses = 0
	m.slowRenders = 0
	m.totalServed = 0
	m.failedServes = 0
}

func averageMs(samples []time.Duration) float64 {
	if len(samples) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range samples {
		total += d
	}
	return float64(total.Milliseconds()) / float64(len(samples))
}

func percentileMs(samples []time.Duration, p float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return float64(sorted[idx].Milliseconds())
}

// RenderStats contains render statistics
type RenderStats struct {
	TotalServed  int64            `json:"totalServed"`
	Failed       int64            `json:"failed"`
	CacheHits    int64            `json:"cacheHits"`
	CacheMisses  int64            `json:"cacheMisses"`
	SlowRenders  int64            `json:"slowRenders"`
	CacheHitRate float64          `json:"cacheHitRate"` // Percentage
	AvgCachedMs  float64          `json:"avgCachedMs"`
	AvgRenderMs  float64          `json:"avgRenderMs"`
	P95RenderMs  float64          `json:"p95RenderMs"`
	ByTarget     map[string]int64 `json:"byTarget"`

	// Stores holds the circuit state of each best-effort store
	Stores []*circuitbreaker.Stats `json:"stores,omitempty"`
}
