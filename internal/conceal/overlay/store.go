package overlay

import (
	"errors"
	"fmt"
	"math"

	"github.com/dshills/concealer/internal/logging"
)

// ErrPlacementRejected is returned when the primitive refuses an overlay.
var ErrPlacementRejected = errors.New("overlay placement rejected")

// ToEnd is used as an end row to mean the last row of the buffer.
const ToEnd = math.MaxInt

// Primitive is the host's overlay layer.
type Primitive interface {
	// Set places an overlay and returns its id.
	Set(ns Namespace, spec Spec) (ID, error)

	// Clear removes the overlays of ns intersecting rows [start, end].
	// An end of ToEnd clears to the end of the buffer.
	Clear(ns Namespace, start, end int)

	// List returns the ids of overlays of ns intersecting rows [start, end].
	List(ns Namespace, start, end int) []ID

	// Delete removes a single overlay.
	Delete(ns Namespace, id ID) bool
}

// Store applies and clears overlays through a Primitive. Failures are
// logged and never leave earlier overlays altered.
type Store struct {
	prim   Primitive
	logger *logging.Logger
}

// NewStore creates a store over prim.
func NewStore(prim Primitive, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{prim: prim, logger: logger.WithComponent("overlay")}
}

// Primitive returns the underlying overlay layer.
func (s *Store) Primitive() Primitive {
	return s.prim
}

// Apply places one overlay. A rejected placement is logged and returned
// wrapped in ErrPlacementRejected.
func (s *Store) Apply(ns Namespace, spec Spec) (ID, error) {
	id, err := s.prim.Set(ns, spec)
	if err != nil {
		s.logger.Warn("overlay at %s in %s rejected: %v", spec.Range, ns, err)
		return "", fmt.Errorf("%w: %s: %v", ErrPlacementRejected, spec.Range, err)
	}
	return id, nil
}

// Clear removes every overlay in ns.
func (s *Store) Clear(ns Namespace) {
	s.prim.Clear(ns, 0, ToEnd)
}

// ClearNear removes the overlays of ns whose rows include row and returns
// how many were removed. Overlays on other rows are untouched. A negative
// row is no cursor and removes nothing.
func (s *Store) ClearNear(ns Namespace, row int) int {
	if row < 0 {
		return 0
	}
	removed := 0
	for _, id := range s.prim.List(ns, row, row) {
		if s.prim.Delete(ns, id) {
			removed++
		}
	}
	return removed
}
