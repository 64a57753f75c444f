package overlay

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Layer errors.
var (
	// ErrRowOutOfRange indicates a row outside the buffer.
	ErrRowOutOfRange = errors.New("row out of range")

	// ErrColOutOfRange indicates a column outside its line.
	ErrColOutOfRange = errors.New("column out of range")

	// ErrInvertedRange indicates a range whose end precedes its start.
	ErrInvertedRange = errors.New("range end before start")
)

// Bounds reports the buffer extents used to validate placements.
type Bounds interface {
	LineCount() int
	LineLen(row int) int
}

// Layer is an in-memory Primitive. It validates placements against Bounds
// the same way an editor's extmark layer does.
type Layer struct {
	mu sync.RWMutex

	bounds Bounds

	// overlays contains every placed overlay keyed by namespace and id.
	overlays map[Namespace]map[ID]Overlay

	// order records placement order so listings are stable.
	order map[ID]uint64
	seq   uint64
}

// NewLayer creates an empty layer. A nil bounds disables validation.
func NewLayer(bounds Bounds) *Layer {
	return &Layer{
		bounds:   bounds,
		overlays: make(map[Namespace]map[ID]Overlay),
		order:    make(map[ID]uint64),
	}
}

// Set places an overlay.
func (l *Layer) Set(ns Namespace, spec Spec) (ID, error) {
	if err := l.validate(spec.Range); err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	id := ID(uuid.NewString())
	if l.overlays[ns] == nil {
		l.overlays[ns] = make(map[ID]Overlay)
	}
	l.overlays[ns][id] = Overlay{ID: id, Namespace: ns, Spec: spec}
	l.seq++
	l.order[id] = l.seq
	return id, nil
}

func (l *Layer) validate(r Range) error {
	if r.EndRow < r.StartRow || (r.EndRow == r.StartRow && r.EndCol < r.StartCol) {
		return fmt.Errorf("%w: %s", ErrInvertedRange, r)
	}
	if r.StartRow < 0 || r.StartCol < 0 || r.EndCol < 0 {
		return fmt.Errorf("%w: %s", ErrRowOutOfRange, r)
	}
	if l.bounds == nil {
		return nil
	}
	count := l.bounds.LineCount()
	if r.EndRow >= count {
		return fmt.Errorf("%w: %d >= %d", ErrRowOutOfRange, r.EndRow, count)
	}
	if r.StartCol > l.bounds.LineLen(r.StartRow) {
		return fmt.Errorf("%w: %d on row %d", ErrColOutOfRange, r.StartCol, r.StartRow)
	}
	return nil
}

// Clear removes the overlays of ns intersecting rows [start, end].
func (l *Layer) Clear(ns Namespace, start, end int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, o := range l.overlays[ns] {
		if intersects(o.Range, start, end) {
			delete(l.overlays[ns], id)
			delete(l.order, id)
		}
	}
}

// List returns the ids of overlays of ns intersecting rows [start, end],
// in placement order.
func (l *Layer) List(ns Namespace, start, end int) []ID {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var ids []ID
	for id, o := range l.overlays[ns] {
		if intersects(o.Range, start, end) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return l.order[ids[i]] < l.order[ids[j]]
	})
	return ids
}

// Delete removes a single overlay.
func (l *Layer) Delete(ns Namespace, id ID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.overlays[ns][id]; !ok {
		return false
	}
	delete(l.overlays[ns], id)
	delete(l.order, id)
	return true
}

// Get returns an overlay by id.
func (l *Layer) Get(ns Namespace, id ID) (Overlay, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	o, ok := l.overlays[ns][id]
	return o, ok
}

// Count returns the number of overlays in ns.
func (l *Layer) Count(ns Namespace) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.overlays[ns])
}

// All returns the overlays of ns sorted by position, then placement order.
func (l *Layer) All(ns Namespace) []Overlay {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Overlay, 0, len(l.overlays[ns]))
	for _, o := range l.overlays[ns] {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Range, out[j].Range
		if a.StartRow != b.StartRow {
			return a.StartRow < b.StartRow
		}
		if a.StartCol != b.StartCol {
			return a.StartCol < b.StartCol
		}
		return l.order[out[i].ID] < l.order[out[j].ID]
	})
	return out
}

// OnRow returns the overlays of ns covering row, sorted like All.
func (l *Layer) OnRow(ns Namespace, row int) []Overlay {
	var out []Overlay
	for _, o := range l.All(ns) {
		if o.Range.ContainsRow(row) {
			out = append(out, o)
		}
	}
	return out
}

func intersects(r Range, start, end int) bool {
	if end == ToEnd {
		return r.EndRow >= start
	}
	return r.IntersectsRows(start, end)
}
