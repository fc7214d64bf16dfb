// Package control aggregates the counters reported by pipeline stages.
package control

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// StatsProvider is implemented by components that track statistics
type StatsProvider interface {
	GetStats() ComponentStats
}

// ComponentStats represents statistics from a single component
type ComponentStats struct {
	ComponentType string
	ComponentName string
	Stats         map[string]interface{}
	LastUpdated   time.Time
}

// PipelineStats aggregates stats from all components
type PipelineStats struct {
	mu         sync.RWMutex
	PipelineID string
	StartTime  time.Time
	Components []ComponentStats
}

func NewPipelineStats(pipelineID string) *PipelineStats {
	return &PipelineStats{
		PipelineID: pipelineID,
		StartTime:  time.Now(),
		Components: make([]ComponentStats, 0),
	}
}

// Collect pulls the current stats of every provider.
func (ps *PipelineStats) Collect(providers ...StatsProvider) {
	for _, p := range providers {
		ps.UpdateComponentStats(p.GetStats())
	}
}

func (ps *PipelineStats) UpdateComponentStats(stats ComponentStats) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	// Update existing or append new
	for i, cs := range ps.Components {
		if cs.ComponentName == stats.ComponentName {
			ps.Components[i] = stats
			return
		}
	}
	ps.Components = append(ps.Components, stats)
}

func (ps *PipelineStats) GetMetrics() map[string]float64 {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	metrics := make(map[string]float64)

	metrics["pipeline.uptime_seconds"] = time.Since(ps.StartTime).Seconds()
	metrics["pipeline.component_count"] = float64(len(ps.Components))

	for _, comp := range ps.Components {
		prefix := comp.ComponentType + "." + comp.ComponentName
		for key, value := range comp.Stats {
			switch v := value.(type) {
			case float64:
				metrics[prefix+"."+key] = v
			case int:
				metrics[prefix+"."+key] = float64(v)
			case int64:
				metrics[prefix+"."+key] = float64(v)
			case uint64:
				metrics[prefix+"."+key] = float64(v)
			}
		}
	}

	return metrics
}

// Summary renders the component metrics as sorted "name=value" lines.
func (ps *PipelineStats) Summary() []string {
	metrics := ps.GetMetrics()
	delete(metrics, "pipeline.uptime_seconds")

	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s=%g", k, metrics[k]))
	}
	return lines
}
