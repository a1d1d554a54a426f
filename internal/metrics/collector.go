package metrics

import (
	"sort"
	"strings"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Common metric names
const (
	MetricRunDuration  = "run_duration_ms"
	MetricRunCount     = "run_count"
	MetricRunFailures  = "run_failures"
	MetricRunCustomers = "run_customers"
)

// Point is one recorded sample.
type Point struct {
	Timestamp time.Time         `json:"timestamp"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// Aggregation summarizes the samples of one metric and label set.
type Aggregation struct {
	Count int64   `json:"count"`
	Sum   float64 `json:"sum"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
}

// Collector keeps labeled samples for the daemon (run counts, durations).
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	series    map[string]map[string][]Point
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		series:    make(map[string]map[string][]Point),
	}
}

// Record records a metric value at a specific timestamp
func (c *Collector) Record(name string, value float64, timestamp time.Time, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := labelKey(labels)
	if c.series[name] == nil {
		c.series[name] = make(map[string][]Point)
	}
	c.series[name][key] = append(c.series[name][key], Point{
		Timestamp: timestamp,
		Value:     value,
		Labels:    copyLabels(labels),
	})
}

// RecordNow records a metric value at the current time
func (c *Collector) RecordNow(name string, value float64, labels map[string]string) {
	c.Record(name, value, time.Now(), labels)
}

// RecordRun records one finished daemon run.
func (c *Collector) RecordRun(kind string, elapsed time.Duration, customers int, err error) {
	labels := map[string]string{"kind": kind}
	now := time.Now()
	c.Record(MetricRunCount, 1, now, labels)
	c.Record(MetricRunDuration, float64(elapsed.Microseconds())/1000, now, labels)
	if customers > 0 {
		c.Record(MetricRunCustomers, float64(customers), now, labels)
	}
	if err != nil {
		c.Record(MetricRunFailures, 1, now, labels)
	}
}

// GetTimeSeries returns a copy of the points for a metric and label set
func (c *Collector) GetTimeSeries(name string, labels map[string]string) []Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Point(nil), c.series[name][labelKey(labels)]...)
}

// GetAggregation aggregates one metric and label set. nil when nothing was recorded.
func (c *Collector) GetAggregation(name string, labels map[string]string) *Aggregation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return aggregate(c.series[name][labelKey(labels)])
}

// Summary aggregates every metric across all label sets.
func (c *Collector) Summary() map[string]*Aggregation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]*Aggregation, len(c.series))
	for name, byLabels := range c.series {
		var all []Point
		for _, pts := range byLabels {
			all = append(all, pts...)
		}
		if agg := aggregate(all); agg != nil {
			out[name] = agg
		}
	}
	return out
}

// Uptime is the time since the collector was created or cleared
func (c *Collector) Uptime() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Since(c.startTime)
}

// Clear clears all collected metrics
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series = make(map[string]map[string][]Point)
	c.startTime = time.Now()
}

func aggregate(points []Point) *Aggregation {
	if len(points) == 0 {
		return nil
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	sort.Float64s(values)

	return &Aggregation{
		Count: int64(len(values)),
		Sum:   floats.Sum(values),
		Min:   values[0],
		Max:   values[len(values)-1],
		Mean:  stat.Mean(values, nil),
		P50:   stat.Quantile(0.50, stat.Empirical, values, nil),
		P95:   stat.Quantile(0.95, stat.Empirical, values, nil),
		P99:   stat.Quantile(0.99, stat.Empirical, values, nil),
	}
}

// labelKey creates a key from labels for map lookup
func labelKey(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(labels[k])
		b.WriteByte(',')
	}
	return b.String()
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}
