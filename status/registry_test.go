package status

import (
	"strings"
	"sync"
	"testing"
)

func TestMetricMapReturnsStablePointer(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	a := m.Get("x")
	a.Set(1.5)
	if b := m.Get("x"); b != a || b.Get() != 1.5 {
		t.Fatalf("Get returned a different metric")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d", m.Len())
	}
}

func TestConcurrentCounters(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				r.Counts.Get("moves").Add(1)
			}
		}()
	}
	wg.Wait()
	if got := r.Counts.Get("moves").Load(); got != 8000 {
		t.Errorf("moves = %d", got)
	}
}

func TestAtomicFloatMax(t *testing.T) {
	var f AtomicFloat
	f.Max(10)
	f.Max(3)
	if got := f.Max(20); got != 20 {
		t.Errorf("Max = %v", got)
	}
	if f.Get() != 20 {
		t.Errorf("Get = %v", f.Get())
	}
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Error("zero value not empty")
	}
	s.Store(strings.Repeat("a", MaxLabelLen+5))
	if len(s.Load()) != MaxLabelLen {
		t.Errorf("len = %d", len(s.Load()))
	}
}

func TestWriteSummary(t *testing.T) {
	r := NewRegistry()
	r.Counts.Get("b.count").Store(2)
	r.Counts.Get("a.count").Store(1)
	r.Gauges.Get("score").Set(30)
	r.Flags.Get("running").Store(true)
	r.Labels.Get("phase").Store("waiting")

	var sb strings.Builder
	if err := r.WriteSummary(&sb); err != nil {
		t.Fatal(err)
	}
	want := "a.count=1\nb.count=2\nscore=30.000\nrunning=true\nphase=waiting\n"
	if sb.String() != want {
		t.Errorf("summary:\n%s\nwant:\n%s", sb.String(), want)
	}
	if r.Len() != 5 {
		t.Errorf("Len = %d", r.Len())
	}
}
