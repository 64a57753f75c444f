package match

import (
	"errors"
	"testing"

	"github.com/dshills/concealer/internal/syntax"
)

type lines struct {
	rows     []string
	readOnly bool
	sets     int
}

func (l *lines) LineCount() int { return len(l.rows) }
func (l *lines) Lines(start, end int) []string {
	out := make([]string, end-start)
	copy(out, l.rows[start:end])
	return out
}
func (l *lines) SetLines(start, end int, rows []string) error {
	l.sets++
	l.rows = append(append(append([]string{}, l.rows[:start]...), rows...), l.rows[end:]...)
	return nil
}
func (l *lines) IsModifiable() bool { return !l.readOnly }

func TestPadRegion(t *testing.T) {
	buf := &lines{rows: []string{
		"    @code go",
		"",
		"  a",
		"    fmt.Println()",
		"    @end",
	}}
	r := syntax.Range{StartRow: 0, StartCol: 4, EndRow: 4, EndCol: 8}

	n, err := PadRegion(buf, r)
	if err != nil {
		t.Fatalf("PadRegion() error = %v", err)
	}
	if n != 2 {
		t.Errorf("PadRegion() = %d, want 2", n)
	}
	for i, row := range buf.rows {
		if len(row) < 4 {
			t.Errorf("row %d = %q shorter than the start column", i, row)
		}
	}
	if buf.rows[2] != "  a " {
		t.Errorf("row 2 = %q lost its content", buf.rows[2])
	}
	if buf.rows[3] != "    fmt.Println()" {
		t.Errorf("long row changed: %q", buf.rows[3])
	}
}

func TestPadRegionNoChange(t *testing.T) {
	buf := &lines{rows: []string{"@code", "x", "@end"}}
	n, err := PadRegion(buf, syntax.Range{StartRow: 0, EndRow: 2})
	if err != nil || n != 0 || buf.sets != 0 {
		t.Errorf("PadRegion() = %d, %v with %d writes; want no writes", n, err, buf.sets)
	}
}

func TestPadRegionReadOnly(t *testing.T) {
	buf := &lines{rows: []string{"  @code", "", "  @end"}, readOnly: true}
	_, err := PadRegion(buf, syntax.Range{StartRow: 0, StartCol: 2, EndRow: 2, EndCol: 6})
	if !errors.Is(err, ErrNotModifiable) {
		t.Errorf("PadRegion() error = %v, want ErrNotModifiable", err)
	}
	if buf.rows[1] != "" {
		t.Error("read-only buffer was modified")
	}
}

func TestRegionRowsClamp(t *testing.T) {
	first, last := RegionRows(syntax.Range{StartRow: -2, EndRow: 10}, 3)
	if first != 0 || last != 2 {
		t.Errorf("RegionRows() = %d, %d; want 0, 2", first, last)
	}
}
