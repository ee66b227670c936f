package metrics

import (
	"errors"
	"testing"
	"time"
)

type captureBackend struct {
	counters  map[string]float64
	durations map[string][]float64
	lastLbls  Labels
	flushed   bool
}

func newCapture() *captureBackend {
	return &captureBackend{counters: map[string]float64{}, durations: map[string][]float64{}}
}

func (c *captureBackend) IncCounter(name string, delta float64, labels Labels) {
	c.counters[name] += delta
	c.lastLbls = labels
}

func (c *captureBackend) ObserveDuration(name string, value float64, labels Labels) {
	c.durations[name] = append(c.durations[name], value)
}

func (c *captureBackend) Flush() error {
	c.flushed = true
	return nil
}

func TestRecordStep_LabelsStatus(t *testing.T) {
	c := newCapture()
	SetBackend(c)
	defer SetBackend(nopBackend{})

	RecordStep("bmw_sales", "load", errors.New("boom"), 50*time.Millisecond)
	if c.counters["etl_step_total"] != 1 {
		t.Errorf("etl_step_total = %v", c.counters["etl_step_total"])
	}
	if c.lastLbls["status"] != "failure" {
		t.Errorf("status = %q, want failure", c.lastLbls["status"])
	}
	if len(c.durations["etl_step_duration_seconds"]) != 1 {
		t.Errorf("duration observations = %d, want 1", len(c.durations["etl_step_duration_seconds"]))
	}
}

func TestRecordRows_IgnoresNonPositive(t *testing.T) {
	c := newCapture()
	SetBackend(c)
	defer SetBackend(nopBackend{})

	RecordRows("bmw_sales", "loaded", 0)
	RecordRows("bmw_sales", "loaded", -3)
	if got := c.counters["etl_records_total"]; got != 0 {
		t.Errorf("etl_records_total = %v, want 0", got)
	}
	RecordRows("bmw_sales", "loaded", 2)
	if got := c.counters["etl_records_total"]; got != 2 {
		t.Errorf("etl_records_total = %v, want 2", got)
	}
}

func TestSetBackend_NilKeepsCurrent(t *testing.T) {
	c := newCapture()
	SetBackend(c)
	defer SetBackend(nopBackend{})

	SetBackend(nil)
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if !c.flushed {
		t.Errorf("nil SetBackend replaced the active backend")
	}
}
