package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestCollectorRecordAndAggregate(t *testing.T) {
	c := NewCollector()
	labels := map[string]string{"kind": "simulate"}
	for i := 1; i <= 100; i++ {
		c.RecordNow(MetricRunDuration, float64(i), labels)
	}

	if got := len(c.GetTimeSeries(MetricRunDuration, labels)); got != 100 {
		t.Fatalf("GetTimeSeries() returned %d points, want 100", got)
	}
	agg := c.GetAggregation(MetricRunDuration, labels)
	if agg == nil {
		t.Fatal("GetAggregation() returned nil")
	}
	if agg.Count != 100 || agg.Min != 1 || agg.Max != 100 || agg.Sum != 5050 {
		t.Errorf("aggregation = %+v", agg)
	}
	if agg.Mean != 50.5 {
		t.Errorf("Mean = %v, want 50.5", agg.Mean)
	}
	if agg.P50 != 50 || agg.P95 < 95 || agg.P95 > 96 || agg.P99 < 99 || agg.P99 > 100 {
		t.Errorf("percentiles = %v/%v/%v, want about 50/95/99", agg.P50, agg.P95, agg.P99)
	}

	if c.GetAggregation(MetricRunDuration, nil) != nil {
		t.Error("unlabeled series should be empty")
	}
}

func TestCollectorLabelOrderIrrelevant(t *testing.T) {
	c := NewCollector()
	c.RecordNow("x", 1, map[string]string{"a": "1", "b": "2"})
	c.RecordNow("x", 2, map[string]string{"b": "2", "a": "1"})
	if got := len(c.GetTimeSeries("x", map[string]string{"a": "1", "b": "2"})); got != 2 {
		t.Errorf("got %d points, want 2", got)
	}
}

func TestCollectorRecordRun(t *testing.T) {
	c := NewCollector()
	c.RecordRun("simulate", 3*time.Millisecond, 50, nil)
	c.RecordRun("solve", time.Millisecond, 0, errors.New("bad input"))

	summary := c.Summary()
	if summary[MetricRunCount].Count != 2 {
		t.Errorf("run_count = %+v", summary[MetricRunCount])
	}
	if summary[MetricRunFailures].Count != 1 {
		t.Errorf("run_failures = %+v", summary[MetricRunFailures])
	}
	if summary[MetricRunCustomers].Sum != 50 {
		t.Errorf("run_customers = %+v", summary[MetricRunCustomers])
	}
	if agg := c.GetAggregation(MetricRunDuration, map[string]string{"kind": "simulate"}); agg == nil || agg.Max != 3 {
		t.Errorf("simulate duration = %+v", agg)
	}

	c.Clear()
	if len(c.Summary()) != 0 {
		t.Error("Clear() should drop every series")
	}
}
