package signal

import "testing"

func TestQueueDrainOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	q.Defer(func() { got = append(got, 1) })
	q.Defer(nil)
	q.Defer(func() { got = append(got, 2) })

	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
	if n := q.Drain(); n != 2 {
		t.Errorf("Drain() = %d, want 2", n)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("order = %v, want [1 2]", got)
	}
}

func TestQueueDeferDuringDrainWaits(t *testing.T) {
	q := NewQueue()
	ran := 0
	q.Defer(func() {
		ran++
		q.Defer(func() { ran++ })
	})

	q.Drain()
	if ran != 1 {
		t.Errorf("ran = %d after first drain, want 1", ran)
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1 task for the next tick", q.Len())
	}
	q.Drain()
	if ran != 2 {
		t.Errorf("ran = %d after second drain, want 2", ran)
	}
}
